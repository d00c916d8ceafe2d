package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
)

// dashboardResponse aggregates the owner's portfolio for the landing
// page in a single request.
type dashboardResponse struct {
	TotalRooms       int     `json:"totalRooms"`
	AvailableRooms   int     `json:"availableRooms"`
	OccupiedRooms    int     `json:"occupiedRooms"`
	MaintenanceRooms int     `json:"maintenanceRooms"`
	TotalBeds        int     `json:"totalBeds"`
	OccupiedBeds     int     `json:"occupiedBeds"`
	ActiveTenants    int     `json:"activeTenants"`
	PendingRent      int     `json:"pendingRent"`
	OverdueRent      int     `json:"overdueRent"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	MonthlyExpenses  float64 `json:"monthlyExpenses"`
	OpenComplaints   int     `json:"openComplaints"`
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	rooms, err := h.store.Rooms(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	tenants, err := h.store.Tenants(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tenants"})
		return
	}
	payments, err := h.store.Payments(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	expenses, err := h.store.Expenses(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expenses"})
		return
	}
	complaints, err := h.store.Complaints(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}

	var resp dashboardResponse
	resp.TotalRooms = len(rooms)
	for _, r := range rooms {
		switch r.Status {
		case model.RoomAvailable:
			resp.AvailableRooms++
		case model.RoomOccupied:
			resp.OccupiedRooms++
		case model.RoomMaintenance:
			resp.MaintenanceRooms++
		}
		resp.TotalBeds += r.Capacity
		resp.OccupiedBeds += r.CurrentOccupancy
	}

	for _, t := range tenants {
		if t.Status != model.TenantLeft {
			resp.ActiveTenants++
		}
		switch t.RentStatus {
		case model.RentPending:
			resp.PendingRent++
		case model.RentOverdue:
			resp.OverdueRent++
		}
	}

	// Stored dates are YYYY-MM-DD strings; the current month is a
	// prefix match.
	monthPrefix := time.Now().UTC().Format("2006-01")
	for _, p := range payments {
		if strings.HasPrefix(p.Date, monthPrefix) {
			resp.MonthlyRevenue += p.Amount
		}
	}
	for _, e := range expenses {
		if strings.HasPrefix(e.Date, monthPrefix) {
			resp.MonthlyExpenses += e.Amount
		}
	}

	for _, cm := range complaints {
		if cm.Status != model.ComplaintResolved {
			resp.OpenComplaints++
		}
	}

	c.JSON(http.StatusOK, resp)
}
