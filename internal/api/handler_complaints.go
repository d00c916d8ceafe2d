package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
)

// ListComplaints handles GET /api/complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	sess := mw.GetSession(c)
	complaints, err := h.store.Complaints(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

type setComplaintStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetComplaintStatus handles PUT /api/complaints/:id/status.
func (h *Handler) SetComplaintStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req setComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case model.ComplaintOpen, model.ComplaintInProgress, model.ComplaintResolved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown complaint status"})
		return
	}

	sess := mw.GetSession(c)
	rows, err := h.store.SetComplaintStatus(c.Request.Context(), sess.UserID, uint(id), req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
