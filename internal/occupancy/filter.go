package occupancy

import (
	"sort"

	"squarepg-backend/internal/model"
)

// Presentable returns the rooms that may be offered in an assignment
// dropdown for a tenant whose current room number is currentRoomNumber
// (empty for a new or unassigned tenant).
//
// A room qualifies when it still has space and is Available or
// Occupied; the tenant's own current room is always included so an
// existing assignment is never hidden from its own editor. Rooms under
// Maintenance are never presentable. Results are ordered by number
// (lexicographic on the stored string) for stable display.
func Presentable(rooms []model.Room, currentRoomNumber string) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == model.RoomMaintenance {
			continue
		}
		if currentRoomNumber != "" && r.Number == currentRoomNumber {
			out = append(out, r)
			continue
		}
		capacity := r.Capacity
		if capacity < 1 {
			capacity = 1
		}
		hasSpace := r.CurrentOccupancy < capacity
		selectableStatus := r.Status == model.RoomAvailable || r.Status == model.RoomOccupied
		if hasSpace && selectableStatus {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
