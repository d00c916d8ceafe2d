package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"squarepg-backend/internal/events"
	"squarepg-backend/internal/model"
)

// Store defines the interface for all database operations. Every
// owner-scoped method filters by ownerID; mutations report the number
// of rows affected so callers can distinguish "applied" from "matched
// nothing" (the latter covers both missing rows and rows the acting
// owner is not allowed to touch).
type Store interface {
	// Rooms
	CreateRoom(ctx context.Context, room *model.Room) error
	Rooms(ctx context.Context, ownerID string) ([]model.Room, error)
	RoomByID(ctx context.Context, ownerID string, id uint) (*model.Room, error)
	RoomByNumber(ctx context.Context, ownerID, number string) (*model.Room, error)
	SetRoomState(ctx context.Context, ownerID string, roomID uint, occupancy int, status string) (int64, error)
	SetRoomStatus(ctx context.Context, ownerID string, roomID uint, status string) (int64, error)
	DeleteRoom(ctx context.Context, ownerID string, roomID uint) (int64, error)

	// Tenants
	CreateTenant(ctx context.Context, t *model.Tenant) error
	Tenants(ctx context.Context, ownerID string) ([]model.Tenant, error)
	TenantByID(ctx context.Context, ownerID string, id uint) (*model.Tenant, error)
	TenantByEmail(ctx context.Context, email string) (*model.Tenant, error)
	UpdateTenant(ctx context.Context, ownerID string, id uint, patch map[string]any) (int64, error)
	DeleteTenantCascade(ctx context.Context, ownerID string, id uint) (int64, error)
	ActiveOccupants(ctx context.Context, ownerID, roomNumber string) ([]model.Tenant, error)

	// Payments
	CreatePayment(ctx context.Context, p *model.Payment) error
	Payments(ctx context.Context, ownerID string) ([]model.Payment, error)
	PaymentsForTenant(ctx context.Context, tenantID uint) ([]model.Payment, error)

	// Expenses
	CreateExpense(ctx context.Context, e *model.Expense) error
	Expenses(ctx context.Context, ownerID string) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, ownerID string, id uint) (int64, error)

	// Complaints
	CreateComplaint(ctx context.Context, c *model.Complaint) error
	Complaints(ctx context.Context, ownerID string) ([]model.Complaint, error)
	ComplaintsForTenant(ctx context.Context, tenantID uint) ([]model.Complaint, error)
	SetComplaintStatus(ctx context.Context, ownerID string, id uint, status string) (int64, error)
	ComplaintByID(ctx context.Context, id uint) (*model.Complaint, error)

	// Invitations
	CreateInvitation(ctx context.Context, inv *model.Invitation) error
	PendingInvitationForTenant(ctx context.Context, tenantID uint) (*model.Invitation, error)
	InvitationByToken(ctx context.Context, token string) (*model.Invitation, error)
	AcceptInvitation(ctx context.Context, token string, at time.Time) (int64, error)
	PurgeExpiredInvitations(ctx context.Context, asOf time.Time) (int64, error)

	// Settings
	SettingForOwner(ctx context.Context, ownerID string) (*model.Setting, error)
	Settings(ctx context.Context) ([]model.Setting, error)
	UpsertSetting(ctx context.Context, s *model.Setting) error

	// Rent sweep
	MarkTenantsOverdue(ctx context.Context, ownerID string) (int64, error)

	// Push subscriptions
	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, endpoint string) (int64, error)
	SubscriptionsForOwner(ctx context.Context, ownerID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM. Successful
// mutations publish a change hint for the affected table so other
// sessions can re-fetch.
type gormStore struct {
	db  *gorm.DB
	hub *events.Hub
}

// NewGormStore creates a new GORM-backed store. hub may be nil when no
// change feed is wanted (tests).
func NewGormStore(db *gorm.DB, hub *events.Hub) Store {
	return &gormStore{db: db, hub: hub}
}

func (s *gormStore) notify(table string) {
	if s.hub != nil {
		s.hub.Publish(table)
	}
}

func wrapFind(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Rooms ---

func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return err
	}
	s.notify("rooms")
	return nil
}

func (s *gormStore) Rooms(ctx context.Context, ownerID string) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (s *gormStore) RoomByID(ctx context.Context, ownerID string, id uint) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&room).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &room, nil
}

// RoomByNumber resolves the soft foreign key Tenant.RoomNumber. Room
// numbers are owner-enforced unique, so First (zero-or-one) is enough.
func (s *gormStore) RoomByNumber(ctx context.Context, ownerID, number string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND number = ?", ownerID, number).
		First(&room).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &room, nil
}

// SetRoomState persists occupancy and status in a single write.
func (s *gormStore) SetRoomState(ctx context.Context, ownerID string, roomID uint, occupancy int, status string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("owner_id = ? AND id = ?", ownerID, roomID).
		Updates(map[string]any{
			"current_occupancy": occupancy,
			"status":            status,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("rooms")
	}
	return res.RowsAffected, nil
}

func (s *gormStore) SetRoomStatus(ctx context.Context, ownerID string, roomID uint, status string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("owner_id = ? AND id = ?", ownerID, roomID).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("rooms")
	}
	return res.RowsAffected, nil
}

func (s *gormStore) DeleteRoom(ctx context.Context, ownerID string, roomID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Room{}, roomID)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("rooms")
	}
	return res.RowsAffected, nil
}

// --- Tenants ---

func (s *gormStore) CreateTenant(ctx context.Context, t *model.Tenant) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return err
	}
	s.notify("tenants")
	return nil
}

func (s *gormStore) Tenants(ctx context.Context, ownerID string) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&tenants).Error
	return tenants, err
}

func (s *gormStore) TenantByID(ctx context.Context, ownerID string, id uint) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&t).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &t, nil
}

// TenantByEmail backs the tenant portal, where the session identifies
// the caller by email rather than row id.
func (s *gormStore) TenantByEmail(ctx context.Context, email string) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&t).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &t, nil
}

func (s *gormStore) UpdateTenant(ctx context.Context, ownerID string, id uint, patch map[string]any) (int64, error) {
	// Never let a patch move a row between owners or rewrite its key.
	delete(patch, "id")
	delete(patch, "owner_id")
	delete(patch, "created_at")

	res := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(patch)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("tenants")
	}
	return res.RowsAffected, nil
}

// DeleteTenantCascade removes the tenant row together with its
// dependent payment, complaint and invitation rows. The dependents ride
// in the same transaction, but note this is a single-table-family
// cascade: the room row is deliberately NOT part of it (occupancy is
// corrected afterwards by the ledger, outside any shared transaction).
func (s *gormStore) DeleteTenantCascade(ctx context.Context, ownerID string, id uint) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&model.Payment{}).Error; err != nil {
			return fmt.Errorf("delete payments for tenant %d: %w", id, err)
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&model.Complaint{}).Error; err != nil {
			return fmt.Errorf("delete complaints for tenant %d: %w", id, err)
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&model.Invitation{}).Error; err != nil {
			return fmt.Errorf("delete invitations for tenant %d: %w", id, err)
		}
		res := tx.Where("owner_id = ?", ownerID).Delete(&model.Tenant{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			// Roll the dependent deletes back: the tenant row was not
			// actually removable by this owner.
			return ErrZeroRowsAffected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrZeroRowsAffected) {
			return 0, nil
		}
		return 0, err
	}
	s.notify("tenants")
	s.notify("payments")
	s.notify("complaints")
	return affected, nil
}

// ActiveOccupants lists the non-Left tenants currently assigned to a
// room number. Used to cross-check stored occupancy and to block room
// deletion.
func (s *gormStore) ActiveOccupants(ctx context.Context, ownerID, roomNumber string) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND room_number = ? AND status <> ?", ownerID, roomNumber, model.TenantLeft).
		Find(&tenants).Error
	return tenants, err
}

// --- Payments ---

func (s *gormStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	s.notify("payments")
	return nil
}

func (s *gormStore) Payments(ctx context.Context, ownerID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (s *gormStore) PaymentsForTenant(ctx context.Context, tenantID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// --- Expenses ---

func (s *gormStore) CreateExpense(ctx context.Context, e *model.Expense) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return err
	}
	s.notify("expenses")
	return nil
}

func (s *gormStore) Expenses(ctx context.Context, ownerID string) ([]model.Expense, error) {
	var expenses []model.Expense
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (s *gormStore) DeleteExpense(ctx context.Context, ownerID string, id uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.Expense{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("expenses")
	}
	return res.RowsAffected, nil
}

// --- Complaints ---

func (s *gormStore) CreateComplaint(ctx context.Context, c *model.Complaint) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	s.notify("complaints")
	return nil
}

func (s *gormStore) Complaints(ctx context.Context, ownerID string) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, id DESC").
		Find(&complaints).Error
	return complaints, err
}

func (s *gormStore) ComplaintsForTenant(ctx context.Context, tenantID uint) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date DESC, id DESC").
		Find(&complaints).Error
	return complaints, err
}

func (s *gormStore) ComplaintByID(ctx context.Context, id uint) (*model.Complaint, error) {
	var c model.Complaint
	err := s.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &c, nil
}

func (s *gormStore) SetComplaintStatus(ctx context.Context, ownerID string, id uint, status string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("complaints")
	}
	return res.RowsAffected, nil
}

// --- Invitations ---

func (s *gormStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return err
	}
	s.notify("invitations")
	return nil
}

func (s *gormStore) PendingInvitationForTenant(ctx context.Context, tenantID uint) (*model.Invitation, error) {
	var inv model.Invitation
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND is_accepted = ?", tenantID, false).
		Order("created_at DESC").
		First(&inv).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &inv, nil
}

func (s *gormStore) InvitationByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := s.db.WithContext(ctx).
		Where("token = ?", token).
		First(&inv).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &inv, nil
}

func (s *gormStore) AcceptInvitation(ctx context.Context, token string, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("token = ? AND is_accepted = ? AND expires_at > ?", token, false, at).
		Updates(map[string]any{
			"is_accepted": true,
			"accepted_at": at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("invitations")
	}
	return res.RowsAffected, nil
}

func (s *gormStore) PurgeExpiredInvitations(ctx context.Context, asOf time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("is_accepted = ? AND expires_at <= ?", false, asOf).
		Delete(&model.Invitation{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("invitations")
	}
	return res.RowsAffected, nil
}

// --- Settings ---

func (s *gormStore) SettingForOwner(ctx context.Context, ownerID string) (*model.Setting, error) {
	var setting model.Setting
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&setting).Error
	if err != nil {
		return nil, wrapFind(err)
	}
	return &setting, nil
}

func (s *gormStore) Settings(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := s.db.WithContext(ctx).Find(&settings).Error
	return settings, err
}

func (s *gormStore) UpsertSetting(ctx context.Context, setting *model.Setting) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pg_name", "address", "default_rent_day", "manager_name", "manager_phone",
		}),
	}).Create(setting).Error
	if err != nil {
		return err
	}
	s.notify("settings")
	return nil
}

// --- Rent sweep ---

// MarkTenantsOverdue flips Pending rent to Overdue for every active
// tenant of the owner. The caller decides when the owner's rent day has
// passed.
func (s *gormStore) MarkTenantsOverdue(ctx context.Context, ownerID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("owner_id = ? AND rent_status = ? AND status <> ?", ownerID, model.RentPending, model.TenantLeft).
		Update("rent_status", model.RentOverdue)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.notify("tenants")
	}
	return res.RowsAffected, nil
}

// --- Push subscriptions ---

func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint})
	return res.RowsAffected, res.Error
}

func (s *gormStore) SubscriptionsForOwner(ctx context.Context, ownerID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&subs).Error
	return subs, err
}
