package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
	"squarepg-backend/internal/occupancy"
	"squarepg-backend/internal/parse"
	"squarepg-backend/internal/store"
)

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	sess := mw.GetSession(c)
	rooms, err := h.store.Rooms(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Number string  `json:"number" binding:"required"`
	Type   string  `json:"type" binding:"required"`
	Price  float64 `json:"price"`
	Floor  int     `json:"floor"`
}

// CreateRoom handles POST /api/rooms. Capacity is fixed from the room
// type at creation time.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Type {
	case model.RoomTypeSingle, model.RoomTypeDouble, model.RoomTypeTriple:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown room type"})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	if _, err := h.store.RoomByNumber(ctx, sess.UserID, req.Number); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a room with this number already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	floor := req.Floor
	if floor == 0 {
		// Infer the floor from the number ("203" lives on floor 2).
		if pn, err := parse.RoomNumber(req.Number); err == nil {
			floor = pn.Floor
		}
	}

	room := model.Room{
		OwnerID:          sess.UserID,
		Number:           req.Number,
		Type:             req.Type,
		Capacity:         model.CapacityForType(req.Type),
		CurrentOccupancy: 0,
		Status:           model.RoomAvailable,
		Price:            req.Price,
		Floor:            floor,
	}
	if err := h.store.CreateRoom(ctx, &room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}

// AssignableRooms handles GET /api/rooms/assignable. The optional
// "current" query names the room the tenant being edited already holds,
// which stays listed even when full.
func (h *Handler) AssignableRooms(c *gin.Context) {
	sess := mw.GetSession(c)
	rooms, err := h.store.Rooms(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}
	c.JSON(http.StatusOK, occupancy.Presentable(rooms, c.Query("current")))
}

type setRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus handles PUT /api/rooms/:id/status. Maintenance can only
// be entered on an empty room; leaving maintenance re-derives the
// status from the occupancy count.
func (h *Handler) SetRoomStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req setRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	room, err := h.store.RoomByID(ctx, sess.UserID, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var status string
	switch req.Status {
	case model.RoomMaintenance:
		if room.CurrentOccupancy > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "room has occupants; move them out before maintenance"})
			return
		}
		status = model.RoomMaintenance
	case model.RoomAvailable, model.RoomOccupied:
		// An explicit Available/Occupied request ends maintenance; the
		// stored status is always re-derived from the count.
		status = occupancy.StatusFor(room.CurrentOccupancy, room.Capacity)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown room status"})
		return
	}

	rows, err := h.store.SetRoomStatus(ctx, sess.UserID, room.ID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// DeleteRoom handles DELETE /api/rooms/:id. Occupied rooms cannot be
// deleted; vacate the tenants first.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	sess := mw.GetSession(c)
	ctx := c.Request.Context()

	room, err := h.store.RoomByID(ctx, sess.UserID, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if room.CurrentOccupancy > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "room has occupants and cannot be deleted"})
		return
	}
	// The stored count can lag behind concurrent assignments, so also
	// check for tenants still pointing at this room.
	occupants, err := h.store.ActiveOccupants(ctx, sess.UserID, room.Number)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(occupants) > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "room has occupants and cannot be deleted"})
		return
	}

	rows, err := h.store.DeleteRoom(ctx, sess.UserID, room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
