package handlers

import (
	"errors"
	"net/http"

	recordsRepo "jetset/database/repository/records"
	"jetset/models"
	"jetset/services/booking"
	"jetset/services/catalog"
	"jetset/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the draft state machine over HTTP for frontends
// that drive the booking directly instead of through the chat assistant.
type BookingHandler struct {
	Svc     booking.BookingService
	KB      catalog.KnowledgeBaseService
	Archive recordsRepo.BookingRecordRepository
}

func NewBookingHandler(svc booking.BookingService, kb catalog.KnowledgeBaseService, archive recordsRepo.BookingRecordRepository) *BookingHandler {
	return &BookingHandler{Svc: svc, KB: kb, Archive: archive}
}

func sessionUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "no session identity")
		return "", false
	}
	return userID.(string), true
}

// GetDraft returns the read-only snapshot of the caller's draft, creating an
// empty one on first contact so the frontend always has something to render.
func (h *BookingHandler) GetDraft(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	if _, err := h.Svc.GetOrCreate(userID); err != nil {
		writeBookingError(c, err)
		return
	}
	snap, err := h.Svc.Describe(userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateDraft applies one validated field edit.
func (h *BookingHandler) UpdateDraft(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid update request", err.Error())
		return
	}
	if req.Field == "" || req.Value == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid update request", "field and value are required")
		return
	}

	draft, err := h.Svc.GetOrCreate(userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	// Seat descriptors filed as quantity are a model choice; route them the
	// way the assistant does so both surfaces behave identically.
	if req.Field == models.FieldQuantity && booking.LooksLikeSeatDescriptor(req.Value) && draft.Activity != models.ActivityQuad {
		req.Field = models.FieldVehicleModel
	}

	res, err := h.Svc.Update(userID, req.Field, req.Value)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PriceDraft quotes the draft, running the knowledge-base fallback when the
// static catalog has no entry for the combination.
func (h *BookingHandler) PriceDraft(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	breakdown, err := h.Svc.ComputePrice(userID)
	if err != nil {
		var np *booking.NeedsPricing
		if !errors.As(err, &np) {
			writeBookingError(c, err)
			return
		}
		base, kerr := h.KB.LookupPrice(c.Request.Context(), np.Activity, np.VehicleModel, np.DurationMin)
		if kerr != nil {
			utils.GetLogger().Warn("knowledge base had no price",
				zap.String("activity", string(np.Activity)),
				zap.String("model", np.VehicleModel),
				zap.Int("durationMin", np.DurationMin),
				zap.Error(kerr))
			c.JSON(http.StatusNotFound, gin.H{
				"error":         "price_unavailable",
				"activity":      np.Activity,
				"vehicle_model": np.VehicleModel,
				"duration_min":  np.DurationMin,
			})
			return
		}
		breakdown, err = h.Svc.ComputePriceWithBase(userID, base)
		if err != nil {
			writeBookingError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, breakdown)
}

// ConfirmDraft commits a freshly priced draft.
func (h *BookingHandler) ConfirmDraft(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	conf, err := h.Svc.Confirm(userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

// CancelDraft abandons the active draft.
func (h *BookingHandler) CancelDraft(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	if err := h.Svc.Cancel(userID); err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GetBookings lists the caller's confirmed bookings, newest first.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	bookings, err := h.Archive.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("failed to list bookings", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load bookings", "please try again")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// writeBookingError maps the booking error taxonomy onto HTTP statuses:
// validation problems are the caller's input (400), lifecycle rejections are
// conflicts with current draft state (409).
func writeBookingError(c *gin.Context, err error) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, verr)
		return
	}
	var serr *booking.StateError
	if errors.As(err, &serr) {
		status := http.StatusConflict
		if serr.Kind == booking.KindNoActiveDraft {
			status = http.StatusNotFound
		}
		c.JSON(status, serr)
		return
	}
	utils.GetLogger().Error("booking operation failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Booking unavailable", "please try again")
}
