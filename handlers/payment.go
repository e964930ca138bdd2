package handlers

import (
	"net/http"

	"consultbook/middleware"
	"consultbook/models"
	"consultbook/services/booking"
	"consultbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Payments booking.PaymentService
}

// CreatePaymentHandler opens a checkout session for a pending booking.
func (h *PaymentHandler) CreatePaymentHandler(c *gin.Context) {
	session, err := h.Payments.CreatePayment(c.Request.Context(), c.GetString(middleware.ContextActorID), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PaymentReturnHandler handles the synchronous redirect back from the
// gateway. The outcome rides in query parameters.
func (h *PaymentHandler) PaymentReturnHandler(c *gin.Context) {
	cb := models.PaymentCallback{
		OrderID:       c.Query("orderId"),
		Success:       c.Query("status") == "success",
		TransactionID: c.Query("transactionId"),
		ErrorCode:     c.Query("errorCode"),
	}

	b, err := h.Payments.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": b.ID.Hex(), "status": b.Status})
}

// PaymentIPNHandler handles the asynchronous server-to-server notification.
// It may arrive before or after the return redirect for the same order.
func (h *PaymentHandler) PaymentIPNHandler(c *gin.Context) {
	var cb models.PaymentCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Payments.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	getLogger(c).Info("payment notification applied",
		zap.String("orderID", cb.OrderID),
		zap.Bool("success", cb.Success))
	c.JSON(http.StatusOK, gin.H{"bookingId": b.ID.Hex(), "status": b.Status})
}
