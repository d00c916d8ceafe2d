package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/store"
)

// CreateInvitation handles POST /api/tenants/:id/invitations. A pending
// invitation issued within the reuse window is returned instead of
// minting a new token, so double-clicking "invite" does not invalidate
// the link already sent.
func (h *Handler) CreateInvitation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID"})
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
	if tenant.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant has no email address"})
		return
	}

	now := time.Now().UTC()
	reuseWindow := time.Duration(h.cfg.Invitations.ReuseWindowMinutes) * time.Minute

	if existing, err := h.store.PendingInvitationForTenant(ctx, tenant.ID); err == nil {
		if !existing.Expired(now) && now.Sub(existing.CreatedAt) < reuseWindow {
			c.JSON(http.StatusOK, existing)
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	inv := model.Invitation{
		OwnerID:     sess.UserID,
		Token:       uuid.NewString(),
		TenantID:    tenant.ID,
		TenantEmail: tenant.Email,
		TenantName:  tenant.Name,
		ExpiresAt:   now.Add(time.Duration(h.cfg.Invitations.TTLHours) * time.Hour),
	}
	if err := h.store.CreateInvitation(ctx, &inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// GetInvitation handles GET /api/invitations/:token. It is public so
// the invite landing page can show who the invitation is for before the
// recipient signs in.
func (h *Handler) GetInvitation(c *gin.Context) {
	inv, err := h.store.InvitationByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if inv.IsAccepted {
		c.JSON(http.StatusConflict, gin.H{"error": "invitation already accepted"})
		return
	}
	if inv.Expired(time.Now().UTC()) {
		c.JSON(http.StatusGone, gin.H{"error": "invitation expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenantName":  inv.TenantName,
		"tenantEmail": inv.TenantEmail,
		"expiresAt":   inv.ExpiresAt,
	})
}

// AcceptInvitation handles POST /api/invitations/:token/accept. The
// caller must be signed in with the invited email address.
func (h *Handler) AcceptInvitation(c *gin.Context) {
	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	inv, err := h.store.InvitationByToken(ctx, c.Param("token"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if inv.TenantEmail != sess.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "invitation was issued to a different email"})
		return
	}
	if inv.Expired(time.Now().UTC()) {
		c.JSON(http.StatusGone, gin.H{"error": "invitation expired"})
		return
	}

	rows, err := h.store.AcceptInvitation(ctx, inv.Token, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "invitation already accepted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenantId": inv.TenantID})
}
