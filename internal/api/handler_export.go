package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/projection"
)

// exportPayload is the backup document shape: one array of row maps per
// table, snake_case keys throughout.
type exportPayload struct {
	Rooms      []projection.Row `json:"rooms"`
	Tenants    []projection.Row `json:"tenants"`
	Payments   []projection.Row `json:"payments"`
	Complaints []projection.Row `json:"complaints"`
}

// Export handles GET /api/export.
func (h *Handler) Export(c *gin.Context) {
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
	complaints, err := h.store.Complaints(ctx, sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve complaints"})
		return
	}

	payload := exportPayload{
		Rooms:      make([]projection.Row, 0, len(rooms)),
		Tenants:    make([]projection.Row, 0, len(tenants)),
		Payments:   make([]projection.Row, 0, len(payments)),
		Complaints: make([]projection.Row, 0, len(complaints)),
	}
	for _, r := range rooms {
		payload.Rooms = append(payload.Rooms, projection.RoomToRow(r))
	}
	for _, t := range tenants {
		payload.Tenants = append(payload.Tenants, projection.TenantToRow(t))
	}
	for _, p := range payments {
		payload.Payments = append(payload.Payments, projection.PaymentToRow(p))
	}
	for _, cm := range complaints {
		payload.Complaints = append(payload.Complaints, projection.ComplaintToRow(cm))
	}

	c.Header("Content-Disposition", `attachment; filename="squarepg-backup.json"`)
	c.JSON(http.StatusOK, payload)
}

// Import handles POST /api/import. Rows are re-keyed to the importing
// owner and get fresh IDs; importing is additive, nothing existing is
// touched.
func (h *Handler) Import(c *gin.Context) {
	var payload exportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()
	counts := gin.H{"rooms": 0, "tenants": 0, "payments": 0, "complaints": 0}

	for _, row := range payload.Rooms {
		room := projection.RoomFromRow(row)
		room.ID = 0
		room.OwnerID = sess.UserID
		if err := h.store.CreateRoom(ctx, &room); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": counts})
			return
		}
		counts["rooms"] = counts["rooms"].(int) + 1
	}
	for _, row := range payload.Tenants {
		tenant := projection.TenantFromRow(row)
		tenant.ID = 0
		tenant.OwnerID = sess.UserID
		if err := h.store.CreateTenant(ctx, &tenant); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": counts})
			return
		}
		counts["tenants"] = counts["tenants"].(int) + 1
	}
	for _, row := range payload.Payments {
		payment := projection.PaymentFromRow(row)
		payment.ID = 0
		payment.OwnerID = sess.UserID
		if err := h.store.CreatePayment(ctx, &payment); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": counts})
			return
		}
		counts["payments"] = counts["payments"].(int) + 1
	}
	for _, row := range payload.Complaints {
		complaint := projection.ComplaintFromRow(row)
		complaint.ID = 0
		complaint.OwnerID = sess.UserID
		if err := h.store.CreateComplaint(ctx, &complaint); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "imported": counts})
			return
		}
		counts["complaints"] = counts["complaints"].(int) + 1
	}

	c.JSON(http.StatusOK, gin.H{"imported": counts})
}
