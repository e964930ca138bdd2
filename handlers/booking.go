package handlers

import (
	"net/http"
	"strconv"

	"consultbook/middleware"
	"consultbook/models"
	"consultbook/services/booking"
	"consultbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

// CreateBookingHandler creates a pending booking for the authenticated client.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	clientID := c.GetString(middleware.ContextActorID)
	b, err := h.Service.Create(c.Request.Context(), clientID, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// CancelBookingHandler cancels the client's own pending or confirmed booking.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	b, err := h.Service.Cancel(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBookingHandler lets the owning expert mark a held session completed.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.Service.Complete(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingHandler returns one booking visible to the authenticated actor.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler pages through the actor's bookings, newest first.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	filter := models.BookingListFilter{
		Bucket: c.Query("bucket"),
		Date:   c.Query("date"),
		Search: c.Query("search"),
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.Service.List(c.Request.Context(),
		c.GetString(middleware.ContextActorID),
		c.GetString(middleware.ContextRole),
		filter, c.Query("cursor"), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetStatsHandler returns the actor's booking counters.
func (h *BookingHandler) GetStatsHandler(c *gin.Context) {
	actorID := c.GetString(middleware.ContextActorID)
	role := c.GetString(middleware.ContextRole)

	stats, err := h.Service.Stats(c.Request.Context(), actorID, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Debug("stats served", zap.String("actorID", actorID), zap.String("role", role))
	c.JSON(http.StatusOK, stats)
}
