package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/store"
)

// myTenant resolves the calling tenant from the session email. Tenant
// sessions are linked to tenant rows through the accepted invitation's
// email.
func (h *Handler) myTenant(c *gin.Context) (*model.Tenant, bool) {
	sess := mw.GetSession(c)
	if sess.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session has no email"})
		return nil, false
	}
	tenant, err := h.store.TenantByEmail(c.Request.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tenant record for this account"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return tenant, true
}

// MyProfile handles GET /api/me.
func (h *Handler) MyProfile(c *gin.Context) {
	tenant, ok := h.myTenant(c)
	if !ok {
		return
	}

	resp := gin.H{"tenant": tenant}
	if tenant.RoomNumber != "" {
		if room, err := h.store.RoomByNumber(c.Request.Context(), tenant.OwnerID, tenant.RoomNumber); err == nil {
			resp["room"] = room
		}
	}
	if setting, err := h.store.SettingForOwner(c.Request.Context(), tenant.OwnerID); err == nil {
		resp["property"] = gin.H{
			"pgName":       setting.PGName,
			"address":      setting.Address,
			"managerName":  setting.ManagerName,
			"managerPhone": setting.ManagerPhone,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// MyPayments handles GET /api/me/payments.
func (h *Handler) MyPayments(c *gin.Context) {
	tenant, ok := h.myTenant(c)
	if !ok {
		return
	}
	payments, err := h.store.PaymentsForTenant(c.Request.Context(), tenant.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// MyComplaints handles GET /api/me/complaints.
func (h *Handler) MyComplaints(c *gin.Context) {
	tenant, ok := h.myTenant(c)
	if !ok {
		return
	}
	complaints, err := h.store.ComplaintsForTenant(c.Request.Context(), tenant.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

type createComplaintRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// CreateMyComplaint handles POST /api/me/complaints. The owner's
// devices are alerted asynchronously.
func (h *Handler) CreateMyComplaint(c *gin.Context) {
	tenant, ok := h.myTenant(c)
	if !ok {
		return
	}

	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	switch req.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority"})
		return
	}

	complaint := model.Complaint{
		OwnerID:     tenant.OwnerID,
		TenantID:    tenant.ID,
		TenantName:  tenant.Name,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ComplaintOpen,
		Priority:    req.Priority,
		Date:        time.Now().UTC().Format("2006-01-02"),
	}
	if err := h.store.CreateComplaint(c.Request.Context(), &complaint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(complaint.ID)
	}
	c.JSON(http.StatusCreated, complaint)
}
