package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/lifecycle"
	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/store"
)

// ListTenants handles GET /api/tenants.
func (h *Handler) ListTenants(c *gin.Context) {
	sess := mw.GetSession(c)
	tenants, err := h.store.Tenants(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tenants"})
		return
	}
	c.JSON(http.StatusOK, tenants)
}

type tenantRequest struct {
	Name       string  `json:"name" binding:"required"`
	RoomNumber string  `json:"roomNumber"`
	JoinDate   string  `json:"joinDate"`
	Status     string  `json:"status"`
	RentStatus string  `json:"rentStatus"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	RentAmount float64 `json:"rentAmount"`
}

func (r tenantRequest) toModel() model.Tenant {
	return model.Tenant{
		Name:       r.Name,
		RoomNumber: r.RoomNumber,
		JoinDate:   r.JoinDate,
		Status:     r.Status,
		RentStatus: r.RentStatus,
		Phone:      r.Phone,
		Email:      r.Email,
		RentAmount: r.RentAmount,
	}
}

// writeLifecycleError maps coordinator failures to HTTP responses. A
// partial failure is a 500 whose message names the room left
// inconsistent; not-found and zero-rows map to 404.
func writeLifecycleError(c *gin.Context, err error) {
	var pf *lifecycle.PartialFailure
	switch {
	case errors.As(err, &pf):
		c.JSON(http.StatusInternalServerError, gin.H{"error": pf.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
	case errors.Is(err, store.ErrZeroRowsAffected):
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found or not permitted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateTenant handles POST /api/tenants.
func (h *Handler) CreateTenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	tenant := req.toModel()
	if tenant.JoinDate == "" {
		tenant.JoinDate = time.Now().UTC().Format("2006-01-02")
	}

	if err := h.coordinator.Create(c.Request.Context(), sess.UserID, &tenant); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// UpdateTenant handles PUT /api/tenants/:id.
func (h *Handler) UpdateTenant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	tenant := req.toModel()
	if err := h.coordinator.Update(c.Request.Context(), sess.UserID, uint(id), &tenant); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteTenant handles DELETE /api/tenants/:id.
func (h *Handler) DeleteTenant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	sess := mw.GetSession(c)
	if err := h.coordinator.Delete(c.Request.Context(), sess.UserID, uint(id)); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setRentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRentStatus handles PUT /api/tenants/:id/rent. Flipping a tenant to
// Paid also logs a rent payment for their rent amount.
func (h *Handler) SetRentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
		return
	}

	var req setRentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case model.RentPaid, model.RentPending, model.RentOverdue:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown rent status"})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	tenant, err := h.store.TenantByID(ctx, sess.UserID, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.store.UpdateTenant(ctx, sess.UserID, tenant.ID, map[string]any{"rent_status": req.Status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found or not permitted"})
		return
	}

	if req.Status == model.RentPaid && tenant.RentStatus != model.RentPaid && tenant.RentAmount > 0 {
		payment := model.Payment{
			OwnerID:    sess.UserID,
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
			Amount:     tenant.RentAmount,
			Date:       time.Now().UTC().Format("2006-01-02"),
			Type:       "Rent",
			Method:     "Cash",
		}
		if err := h.store.CreatePayment(ctx, &payment); err != nil {
			// The rent flag is already flipped; the missing payment row
			// must be logged manually.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "rent status updated but recording the payment failed: " + err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
