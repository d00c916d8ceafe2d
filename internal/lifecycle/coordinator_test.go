package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/occupancy"
	"squarepg-backend/internal/store"
)

const owner = "owner-1"

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&model.Room{}, &model.Tenant{}, &model.Payment{},
		&model.Complaint{}, &model.Invitation{},
	))
	return store.NewGormStore(gormDB, nil)
}

func seedRoom(t *testing.T, s store.Store, number string, capacity, occ int) *model.Room {
	t.Helper()
	r := model.Room{
		OwnerID: owner, Number: number, Type: model.RoomTypeDouble,
		Capacity: capacity, CurrentOccupancy: occ,
		Status: occupancy.StatusFor(occ, capacity),
	}
	require.NoError(t, s.CreateRoom(context.Background(), &r))
	return &r
}

func roomState(t *testing.T, s store.Store, number string) *model.Room {
	t.Helper()
	r, err := s.RoomByNumber(context.Background(), owner, number)
	require.NoError(t, err)
	return r
}

func newTestCoordinator(s store.Store) *Coordinator {
	return NewCoordinator(s, occupancy.NewLedger(s))
}

func TestCreate_FillsRoomThenInserts(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)
	seedRoom(t, s, "101", 2, 1)

	tenant := model.Tenant{Name: "Asha", RoomNumber: "101", RentAmount: 8000}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))
	assert.NotZero(t, tenant.ID)
	assert.Equal(t, model.TenantActive, tenant.Status)
	assert.Equal(t, model.RentPending, tenant.RentStatus)

	r := roomState(t, s, "101")
	assert.Equal(t, 2, r.CurrentOccupancy)
	assert.Equal(t, model.RoomOccupied, r.Status)
}

func TestCreate_UnassignedTenantTouchesNoRoom(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)
	seedRoom(t, s, "101", 2, 0)

	tenant := model.Tenant{Name: "Ravi"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))

	r := roomState(t, s, "101")
	assert.Equal(t, 0, r.CurrentOccupancy)
}

func TestCreate_DanglingRoomReferenceStillInserts(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)

	tenant := model.Tenant{Name: "Meera", RoomNumber: "no-such-room"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))
	assert.NotZero(t, tenant.ID)
}

// failingTenantStore delegates to a real store but fails chosen calls.
type failingTenantStore struct {
	store.Store
	failCreate     bool
	failUpdate     bool
	deleteZeroRows bool
}

func (f *failingTenantStore) CreateTenant(ctx context.Context, t *model.Tenant) error {
	if f.failCreate {
		return errors.New("insert rejected")
	}
	return f.Store.CreateTenant(ctx, t)
}

func (f *failingTenantStore) UpdateTenant(ctx context.Context, ownerID string, id uint, patch map[string]any) (int64, error) {
	if f.failUpdate {
		return 0, errors.New("update rejected")
	}
	return f.Store.UpdateTenant(ctx, ownerID, id, patch)
}

func (f *failingTenantStore) DeleteTenantCascade(ctx context.Context, ownerID string, id uint) (int64, error) {
	if f.deleteZeroRows {
		return 0, nil
	}
	return f.Store.DeleteTenantCascade(ctx, ownerID, id)
}

func TestCreate_InsertFailureLeavesRoomIncremented(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "101", 2, 0)
	failing := &failingTenantStore{Store: s, failCreate: true}
	c := NewCoordinator(failing, occupancy.NewLedger(s))

	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	err := c.Create(context.Background(), owner, &tenant)
	require.Error(t, err)

	var pf *PartialFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "101", pf.RoomNumber)
	assert.Equal(t, 1, pf.Applied.NewOccupancy)

	// No rollback: the room keeps the phantom occupant.
	r := roomState(t, s, "101")
	assert.Equal(t, 1, r.CurrentOccupancy)
}

func TestUpdate_MovesTenantBetweenRooms(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)
	seedRoom(t, s, "101", 2, 0)
	seedRoom(t, s, "102", 2, 0)

	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))

	updated := tenant
	updated.RoomNumber = "102"
	require.NoError(t, c.Update(context.Background(), owner, tenant.ID, &updated))

	assert.Equal(t, 0, roomState(t, s, "101").CurrentOccupancy)
	assert.Equal(t, 1, roomState(t, s, "102").CurrentOccupancy)

	got, err := s.TenantByID(context.Background(), owner, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "102", got.RoomNumber)
}

func TestUpdate_SameRoomSkipsLedger(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)
	seedRoom(t, s, "101", 2, 0)

	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))

	updated := tenant
	updated.Phone = "9999999999"
	require.NoError(t, c.Update(context.Background(), owner, tenant.ID, &updated))

	// Occupancy is untouched by a non-room edit.
	assert.Equal(t, 1, roomState(t, s, "101").CurrentOccupancy)
}

func TestUpdate_RowWriteFailureAfterMoveIsPartial(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "101", 2, 0)
	seedRoom(t, s, "102", 2, 0)

	c := newTestCoordinator(s)
	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))

	failing := &failingTenantStore{Store: s, failUpdate: true}
	fc := NewCoordinator(failing, occupancy.NewLedger(s))

	updated := tenant
	updated.RoomNumber = "102"
	err := fc.Update(context.Background(), owner, tenant.ID, &updated)
	require.Error(t, err)

	var pf *PartialFailure
	require.ErrorAs(t, err, &pf)

	// The rooms moved but the tenant row still says 101.
	assert.Equal(t, 0, roomState(t, s, "101").CurrentOccupancy)
	assert.Equal(t, 1, roomState(t, s, "102").CurrentOccupancy)
	got, err := s.TenantByID(context.Background(), owner, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", got.RoomNumber)
}

func TestDelete_RemovesTenantThenFreesRoom(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)
	seedRoom(t, s, "101", 2, 0)

	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))
	require.NoError(t, s.CreatePayment(context.Background(), &model.Payment{
		OwnerID: owner, TenantID: tenant.ID, Amount: 8000, Date: "2026-08-01",
	}))

	require.NoError(t, c.Delete(context.Background(), owner, tenant.ID))

	_, err := s.TenantByID(context.Background(), owner, tenant.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	payments, err := s.PaymentsForTenant(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	r := roomState(t, s, "101")
	assert.Equal(t, 0, r.CurrentOccupancy)
	assert.Equal(t, model.RoomAvailable, r.Status)
}

func TestDelete_ZeroRowsAbortsBeforeDecrement(t *testing.T) {
	s := newTestStore(t)
	seedRoom(t, s, "101", 2, 0)

	c := newTestCoordinator(s)
	tenant := model.Tenant{Name: "Asha", RoomNumber: "101"}
	require.NoError(t, c.Create(context.Background(), owner, &tenant))

	failing := &failingTenantStore{Store: s, deleteZeroRows: true}
	fc := NewCoordinator(failing, occupancy.NewLedger(s))

	err := fc.Delete(context.Background(), owner, tenant.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrZeroRowsAffected)

	// The room must NOT be decremented for a tenant that was not
	// actually removed.
	assert.Equal(t, 1, roomState(t, s, "101").CurrentOccupancy)
}

func TestDelete_MissingTenant(t *testing.T) {
	s := newTestStore(t)
	c := newTestCoordinator(s)

	err := c.Delete(context.Background(), owner, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
