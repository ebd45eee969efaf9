package handlers

import (
	"errors"
	"net/http"

	providerRepo "frontdesk/database/repository/provider"
	"frontdesk/models"
	"frontdesk/services/provider"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes the physician registry: registration and working
// hour management for operators, plus the name matcher used by the voice
// layer to resolve "Doctor Smith" to a provider id.
type ProviderHandler struct {
	Svc provider.ProviderService
}

func NewProviderHandler(svc provider.ProviderService) *ProviderHandler {
	return &ProviderHandler{Svc: svc}
}

func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid provider payload", err.Error())
		return
	}
	created, err := h.Svc.Register(c.Request.Context(), &p)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to register provider", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid provider payload", err.Error())
		return
	}
	p.ID = c.Param("id")
	updated, err := h.Svc.Update(c.Request.Context(), &p)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			utils.JSONError(c, http.StatusNotFound, "provider not found", p.ID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update provider", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProviderHandler) DeleteProviderHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			utils.JSONError(c, http.StatusNotFound, "provider not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete provider", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProviderHandler) GetProviderByIDHandler(c *gin.Context) {
	id := c.Param("id")
	p, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			utils.JSONError(c, http.StatusNotFound, "provider not found", id)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch provider", err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	providers, err := h.Svc.GetAll(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list providers", err.Error())
		return
	}
	c.JSON(http.StatusOK, providers)
}

func (h *ProviderHandler) MatchProviderHandler(c *gin.Context) {
	heard := c.Query("name")
	if heard == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing 'name' query parameter", "")
		return
	}
	p, err := h.Svc.MatchByName(c.Request.Context(), heard)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to match provider", err.Error())
		return
	}
	if p == nil {
		utils.JSONError(c, http.StatusNotFound, "no provider matches that name", heard)
		return
	}
	c.JSON(http.StatusOK, p)
}
