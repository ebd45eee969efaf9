package handlers

import (
	"net/http"
	"time"

	"frontdesk/config"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// OperatorLoginHandler exchanges the shared operator key for a short-lived
// JWT used on the provider-management routes. The key itself is never
// stored; config carries its bcrypt hash.
func OperatorLoginHandler(c *gin.Context) {
	var input struct {
		OperatorKey string `json:"operatorKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid login payload", err.Error())
		return
	}

	hash := config.AppConfig.OperatorKeyHash
	if hash == "" || config.AppConfig.JWTSecret == "" {
		utils.JSONError(c, http.StatusServiceUnavailable, "operator access is not configured", "")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.OperatorKey)); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid operator key", "")
		return
	}

	claims := jwt.MapClaims{
		"role": "operator",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": signed})
}
