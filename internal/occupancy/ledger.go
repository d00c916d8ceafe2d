package occupancy

import (
	"context"
	"errors"
	"fmt"
	"log"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/store"
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// RoomStore is the slice of the data store the ledger needs: one read
// and one write. The write carries both occupancy and status so they
// land in a single round trip.
type RoomStore interface {
	RoomByNumber(ctx context.Context, ownerID, number string) (*model.Room, error)
	SetRoomState(ctx context.Context, ownerID string, roomID uint, occupancy int, status string) (int64, error)
}

// Ledger keeps rooms.current_occupancy and rooms.status in step with
// tenant assignments. ApplyDelta is read-then-write with no lock across
// the two calls: concurrent deltas against the same room can lose an
// update (the stored count undercounts the true occupant set), but the
// clamp guarantees the stored value never leaves [0, capacity].
type Ledger struct {
	rooms RoomStore
}

// NewLedger creates a ledger over the given room store.
func NewLedger(rooms RoomStore) *Ledger {
	return &Ledger{rooms: rooms}
}

// ApplyResult reports what a delta did, including the pre-write values
// so a caller holding an optimistic local copy can revert it if a later
// step fails.
type ApplyResult struct {
	Found        bool
	RoomID       uint
	Number       string
	OldOccupancy int
	NewOccupancy int
	OldStatus    string
	NewStatus    string
}

// StatusFor derives a room status from an occupancy count. Maintenance
// is never derived; it is only ever set explicitly by an owner on an
// empty room.
func StatusFor(occupancy, capacity int) string {
	if occupancy >= capacity && capacity > 0 {
		return model.RoomOccupied
	}
	return model.RoomAvailable
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyDelta recomputes and persists a room's occupancy and status
// after one occupant was added (delta +1) or removed (delta -1).
//
// A missing room is a no-op, not an error: a tenant may reference a
// room that was deleted out-of-band, and that must not block tenant
// mutations. It is logged as a data-integrity warning.
func (l *Ledger) ApplyDelta(ctx context.Context, ownerID, roomNumber string, delta int) (ApplyResult, error) {
	if delta != 1 && delta != -1 {
		return ApplyResult{}, fmt.Errorf("occupancy: delta must be +1 or -1, got %d", delta)
	}
	if roomNumber == "" {
		// Callers skip the ledger entirely for unassigned tenants;
		// tolerate the call anyway.
		return ApplyResult{}, nil
	}

	room, err := l.rooms.RoomByNumber(ctx, ownerID, roomNumber)
	if err != nil {
		if isNotFound(err) {
			log.Printf("occupancy: room %q not found for owner %s; skipping delta %+d (dangling room reference)", roomNumber, ownerID, delta)
			return ApplyResult{Number: roomNumber}, nil
		}
		return ApplyResult{}, fmt.Errorf("occupancy: read room %q: %w", roomNumber, err)
	}

	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}
	newOccupancy := clamp(room.CurrentOccupancy+delta, 0, capacity)
	newStatus := StatusFor(newOccupancy, capacity)

	res := ApplyResult{
		Found:        true,
		RoomID:       room.ID,
		Number:       room.Number,
		OldOccupancy: room.CurrentOccupancy,
		NewOccupancy: newOccupancy,
		OldStatus:    room.Status,
		NewStatus:    newStatus,
	}

	rows, err := l.rooms.SetRoomState(ctx, ownerID, room.ID, newOccupancy, newStatus)
	if err != nil {
		return res, fmt.Errorf("occupancy: write room %q (occupancy %d->%d): %w",
			room.Number, room.CurrentOccupancy, newOccupancy, err)
	}
	if rows == 0 {
		// The room vanished between read and write; same policy as the
		// read-side miss.
		log.Printf("occupancy: room %q disappeared before state write; skipping delta %+d", roomNumber, delta)
		res.Found = false
		return res, nil
	}
	return res, nil
}
