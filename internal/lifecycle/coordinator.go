package lifecycle

import (
	"context"
	"fmt"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/occupancy"
	"squarepg-backend/internal/store"
)

// TenantStore is the slice of the data store the coordinator needs.
type TenantStore interface {
	CreateTenant(ctx context.Context, t *model.Tenant) error
	TenantByID(ctx context.Context, ownerID string, id uint) (*model.Tenant, error)
	UpdateTenant(ctx context.Context, ownerID string, id uint, patch map[string]any) (int64, error)
	DeleteTenantCascade(ctx context.Context, ownerID string, id uint) (int64, error)
}

// ledgerAPI lets tests substitute a failing ledger.
type ledgerAPI interface {
	ApplyDelta(ctx context.Context, ownerID, roomNumber string, delta int) (occupancy.ApplyResult, error)
}

// Coordinator sequences the multi-step tenant mutations that touch both
// the tenant row and a room row. The two writes are separate round
// trips with no shared transaction; when the second step fails after
// the first succeeded, the failure is surfaced as a *PartialFailure
// carrying enough detail to correct the room manually. Nothing is
// rolled back automatically.
type Coordinator struct {
	tenants TenantStore
	ledger  ledgerAPI
}

// NewCoordinator wires the coordinator to its stores.
func NewCoordinator(tenants TenantStore, ledger *occupancy.Ledger) *Coordinator {
	return &Coordinator{tenants: tenants, ledger: ledger}
}

// PartialFailure reports a lifecycle flow that stopped after its first
// write had already been applied. Applied describes the room write that
// succeeded so the caller (or an operator) can revert or re-check it.
type PartialFailure struct {
	Op         string
	TenantID   uint
	TenantName string
	RoomNumber string
	Detail     string
	Applied    occupancy.ApplyResult
	Err        error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Create inserts a tenant, first bumping the target room's occupancy
// when a room is assigned. If the insert then fails, the increment is
// NOT undone; the error reports the room so it can be corrected.
func (c *Coordinator) Create(ctx context.Context, ownerID string, t *model.Tenant) error {
	t.OwnerID = ownerID
	if t.Status == "" {
		t.Status = model.TenantActive
	}
	if t.RentStatus == "" {
		t.RentStatus = model.RentPending
	}

	var applied occupancy.ApplyResult
	if t.RoomNumber != "" {
		res, err := c.ledger.ApplyDelta(ctx, ownerID, t.RoomNumber, +1)
		if err != nil {
			return fmt.Errorf("create tenant %q: %w", t.Name, err)
		}
		applied = res
	}

	if err := c.tenants.CreateTenant(ctx, t); err != nil {
		if applied.Found {
			return &PartialFailure{
				Op:         "create tenant",
				TenantName: t.Name,
				RoomNumber: t.RoomNumber,
				Detail: fmt.Sprintf("room %q occupancy was already raised to %d but the tenant insert failed; the room reads one occupant too high until corrected", t.RoomNumber, applied.NewOccupancy),
				Applied:    applied,
				Err:        err,
			}
		}
		return fmt.Errorf("create tenant %q: %w", t.Name, err)
	}
	return nil
}

// Update edits a tenant. A room change decrements the old room before
// incrementing the new one: if the increment then fails, the vacated
// room is at least not stranded in a stale full state. No ledger calls
// happen when the room is unchanged.
func (c *Coordinator) Update(ctx context.Context, ownerID string, id uint, updated *model.Tenant) error {
	existing, err := c.tenants.TenantByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("update tenant %d: %w", id, err)
	}

	oldRoom := existing.RoomNumber
	newRoom := updated.RoomNumber

	var lastApplied occupancy.ApplyResult
	var roomsTouched bool
	if oldRoom != newRoom {
		if oldRoom != "" {
			res, err := c.ledger.ApplyDelta(ctx, ownerID, oldRoom, -1)
			if err != nil {
				return fmt.Errorf("update tenant %d: vacate room %q: %w", id, oldRoom, err)
			}
			lastApplied = res
			roomsTouched = roomsTouched || res.Found
		}
		if newRoom != "" {
			res, err := c.ledger.ApplyDelta(ctx, ownerID, newRoom, +1)
			if err != nil {
				if roomsTouched {
					return &PartialFailure{
						Op:         "update tenant",
						TenantID:   id,
						TenantName: existing.Name,
						RoomNumber: oldRoom,
						Detail: fmt.Sprintf("room %q was already vacated (occupancy %d) but assigning room %q failed; tenant %q still records room %q", oldRoom, lastApplied.NewOccupancy, newRoom, existing.Name, oldRoom),
						Applied:    lastApplied,
						Err:        err,
					}
				}
				return fmt.Errorf("update tenant %d: assign room %q: %w", id, newRoom, err)
			}
			lastApplied = res
			roomsTouched = roomsTouched || res.Found
		}
	}

	patch := map[string]any{
		"name":        updated.Name,
		"room_number": updated.RoomNumber,
		"phone":       updated.Phone,
		"email":       updated.Email,
		"rent_amount": updated.RentAmount,
		"join_date":   updated.JoinDate,
	}
	if updated.Status != "" {
		patch["status"] = updated.Status
	}
	if updated.RentStatus != "" {
		patch["rent_status"] = updated.RentStatus
	}

	rows, err := c.tenants.UpdateTenant(ctx, ownerID, id, patch)
	if err == nil && rows == 0 {
		err = store.ErrZeroRowsAffected
	}
	if err != nil {
		if roomsTouched {
			return &PartialFailure{
				Op:         "update tenant",
				TenantID:   id,
				TenantName: existing.Name,
				RoomNumber: lastApplied.Number,
				Detail: fmt.Sprintf("room occupancy was already moved (%q now %d) but the tenant row update failed; room and tenant disagree until corrected", lastApplied.Number, lastApplied.NewOccupancy),
				Applied:    lastApplied,
				Err:        err,
			}
		}
		return fmt.Errorf("update tenant %d: %w", id, err)
	}
	return nil
}

// Delete removes a tenant and its dependent rows, then releases the
// room. The decrement happens only after the delete is confirmed: a
// failed decrement is recoverable by retry, but decrementing for a
// tenant who still legally occupies the room would miscount it.
func (c *Coordinator) Delete(ctx context.Context, ownerID string, id uint) error {
	existing, err := c.tenants.TenantByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete tenant %d: %w", id, err)
	}

	rows, err := c.tenants.DeleteTenantCascade(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete tenant %d (%s): %w", id, existing.Name, err)
	}
	if rows == 0 {
		return fmt.Errorf("delete tenant %d (%s): %w; the row may be protected by an access policy",
			id, existing.Name, store.ErrZeroRowsAffected)
	}

	if existing.RoomNumber != "" {
		res, lerr := c.ledger.ApplyDelta(ctx, ownerID, existing.RoomNumber, -1)
		if lerr != nil {
			// The tenant row is gone; the room now reads one occupant
			// too high until retried or corrected.
			return &PartialFailure{
				Op:         "delete tenant",
				TenantID:   id,
				TenantName: existing.Name,
				RoomNumber: existing.RoomNumber,
				Detail: fmt.Sprintf("tenant %q was removed but room %q occupancy was not lowered; it reads one occupant too high until corrected", existing.Name, existing.RoomNumber),
				Applied:    res,
				Err:        lerr,
			}
		}
	}
	return nil
}
