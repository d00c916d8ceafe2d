package sweeper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"squarepg-backend/config"
	"squarepg-backend/internal/model"
	"squarepg-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Tenant{}, &model.Setting{}, &model.Invitation{}))
	return store.NewGormStore(gormDB, nil)
}

func newTestSweeper(s store.Store, now time.Time) *Service {
	svc := NewService(&config.Config{}, s)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSweepOnce_MarksOverdueAfterRentDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSetting(ctx, &model.Setting{OwnerID: "owner-1", DefaultRentDay: 5}))
	tenant := model.Tenant{OwnerID: "owner-1", Name: "Asha", Status: model.TenantActive, RentStatus: model.RentPending}
	require.NoError(t, s.CreateTenant(ctx, &tenant))

	// The 10th is past a rent day of 5.
	svc := newTestSweeper(s, time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	svc.SweepOnce(ctx)

	got, err := s.TenantByID(ctx, "owner-1", tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RentOverdue, got.RentStatus)
}

func TestSweepOnce_BeforeRentDayDoesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSetting(ctx, &model.Setting{OwnerID: "owner-1", DefaultRentDay: 15}))
	tenant := model.Tenant{OwnerID: "owner-1", Name: "Asha", Status: model.TenantActive, RentStatus: model.RentPending}
	require.NoError(t, s.CreateTenant(ctx, &tenant))

	svc := newTestSweeper(s, time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	svc.SweepOnce(ctx)

	got, err := s.TenantByID(ctx, "owner-1", tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RentPending, got.RentStatus)
}

func TestSweepOnce_ScopesByOwnerRentDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertSetting(ctx, &model.Setting{OwnerID: "early", DefaultRentDay: 5}))
	require.NoError(t, s.UpsertSetting(ctx, &model.Setting{OwnerID: "late", DefaultRentDay: 25}))
	a := model.Tenant{OwnerID: "early", Name: "A", Status: model.TenantActive, RentStatus: model.RentPending}
	b := model.Tenant{OwnerID: "late", Name: "B", Status: model.TenantActive, RentStatus: model.RentPending}
	require.NoError(t, s.CreateTenant(ctx, &a))
	require.NoError(t, s.CreateTenant(ctx, &b))

	svc := newTestSweeper(s, time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	svc.SweepOnce(ctx)

	gotA, err := s.TenantByID(ctx, "early", a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RentOverdue, gotA.RentStatus)

	gotB, err := s.TenantByID(ctx, "late", b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RentPending, gotB.RentStatus)
}

func TestSweepOnce_PurgesExpiredInvitations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateInvitation(ctx, &model.Invitation{
		OwnerID: "owner-1", TenantID: 1, Token: "tok-stale", ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, s.CreateInvitation(ctx, &model.Invitation{
		OwnerID: "owner-1", TenantID: 2, Token: "tok-live", ExpiresAt: now.Add(time.Hour),
	}))

	svc := newTestSweeper(s, now)
	svc.SweepOnce(ctx)

	_, err := s.InvitationByToken(ctx, "tok-stale")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.InvitationByToken(ctx, "tok-live")
	assert.NoError(t, err)
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	s := newTestStore(t)
	cfg := &config.Config{}
	cfg.Sweeper.Enabled = false

	done := make(chan struct{})
	go func() {
		NewService(cfg, s).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper should not block")
	}
}
