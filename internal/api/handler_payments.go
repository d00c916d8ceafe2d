package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/store"
)

// ListPayments handles GET /api/payments.
func (h *Handler) ListPayments(c *gin.Context) {
	sess := mw.GetSession(c)
	payments, err := h.store.Payments(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

type createPaymentRequest struct {
	TenantID uint    `json:"tenantId" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Type     string  `json:"type"`
	Method   string  `json:"method"`
}

// CreatePayment handles POST /api/payments. The tenant name is denormalized
// onto the payment row so the ledger survives tenant deletion in exports.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	tenant, err := h.store.TenantByID(ctx, sess.UserID, req.TenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payment := model.Payment{
		OwnerID:    sess.UserID,
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		Amount:     req.Amount,
		Date:       req.Date,
		Type:       req.Type,
		Method:     req.Method,
	}
	if payment.Type == "" {
		payment.Type = "Rent"
	}
	if err := h.store.CreatePayment(ctx, &payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, payment)
}
