package handlers

import (
	"net/http"
	"time"

	"frontdesk/config"
	ledgerRepo "frontdesk/database/repository/ledger"
	"frontdesk/models"
	"frontdesk/services/scheduling"
	"frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchedulingHandler exposes the scheduling engine to the conversation layer.
type SchedulingHandler struct {
	Engine       *scheduling.Engine
	Availability *scheduling.AvailabilityStore
	Ledger       ledgerRepo.LedgerRepository
	Logger       *zap.Logger
}

func NewSchedulingHandler(engine *scheduling.Engine, availability *scheduling.AvailabilityStore, ledger ledgerRepo.LedgerRepository, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Engine: engine, Availability: availability, Ledger: ledger, Logger: logger}
}

// intentRequest is the wire form of a scheduling intent; durations travel as
// whole minutes.
type intentRequest struct {
	ID          string                `json:"id"`
	Kind        models.IntentKind     `json:"kind" binding:"required"`
	Caller      models.CallerIdentity `json:"caller"`
	ProviderIDs []string              `json:"provider_ids"`
	Earliest    time.Time             `json:"earliest"`
	Latest      time.Time             `json:"latest"`
	DurationMin int                   `json:"duration_min"`
	BookingID   string                `json:"booking_id"`
}

// SubmitIntentHandler processes one scheduling intent to a terminal state.
func (h *SchedulingHandler) SubmitIntentHandler(c *gin.Context) {
	var input intentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid intent payload", err.Error())
		return
	}
	if input.DurationMin == 0 {
		input.DurationMin = config.AppConfig.DefaultVisitMin
	}
	intent := models.SchedulingIntent{
		ID:          input.ID,
		Kind:        input.Kind,
		Caller:      input.Caller,
		ProviderIDs: input.ProviderIDs,
		Window: models.TimeRange{
			Earliest: input.Earliest,
			Latest:   input.Latest,
			Duration: time.Duration(input.DurationMin) * time.Minute,
		},
		BookingID: input.BookingID,
	}
	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}

	outcome, err := h.Engine.SubmitIntent(c.Request.Context(), intent)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case scheduling.IsInvalidIntent(err):
			status = http.StatusBadRequest
		case scheduling.IsUnknownProvider(err), scheduling.IsInvalidState(err):
			status = http.StatusNotFound
		case scheduling.IsConflict(err):
			status = http.StatusConflict
		}
		utils.JSONError(c, status, "scheduling attempt failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intent_id": intent.ID,
		"outcome":   outcome,
	})
}

// GetAvailabilityHandler returns a provider's open intervals in a window.
func (h *SchedulingHandler) GetAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("id")
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid 'from' timestamp", err.Error())
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid 'to' timestamp", err.Error())
		return
	}

	open, err := h.Availability.GetOpenIntervals(c.Request.Context(), providerID, models.Interval{Start: from, End: to})
	if err != nil {
		if scheduling.IsUnknownProvider(err) {
			utils.JSONError(c, http.StatusNotFound, "unknown provider", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider_id": providerID, "open": open})
}

// GetBookingHandler looks up a booking by id.
func (h *SchedulingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Ledger.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}
