// Package sweeper runs the periodic housekeeping passes: flipping
// pending rents to overdue once the month's due day has passed, and
// purging invitations that expired without being accepted.
package sweeper

import (
	"context"
	"log"
	"time"

	"squarepg-backend/config"
	"squarepg-backend/internal/store"
)

// Service runs the sweep loop.
type Service struct {
	cfg   *config.Config
	store store.Store
	now   func() time.Time
}

// NewService creates a sweeper over the given store.
func NewService(cfg *config.Config, st store.Store) *Service {
	return &Service{cfg: cfg, store: st, now: time.Now}
}

// Run sweeps once immediately, then on every interval tick until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweeper.Enabled {
		log.Println("Sweeper is disabled. Not starting.")
		return
	}
	log.Println("Starting sweeper service...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Sweeper.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper service shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Sweeper.Interval)
		}
	}
}

// SweepOnce performs a single housekeeping pass.
func (s *Service) SweepOnce(ctx context.Context) {
	now := s.now().UTC()

	settings, err := s.store.Settings(ctx)
	if err != nil {
		log.Printf("Error listing settings: %v", err)
	} else {
		for _, setting := range settings {
			dueDay := setting.DefaultRentDay
			if dueDay < 1 {
				dueDay = 5
			}
			if now.Day() <= dueDay {
				continue
			}
			n, err := s.store.MarkTenantsOverdue(ctx, setting.OwnerID)
			if err != nil {
				log.Printf("Error marking overdue tenants for owner %s: %v", setting.OwnerID, err)
				continue
			}
			if n > 0 {
				log.Printf("Marked %d tenants overdue for owner %s", n, setting.OwnerID)
			}
		}
	}

	purged, err := s.store.PurgeExpiredInvitations(ctx, now)
	if err != nil {
		log.Printf("Error purging expired invitations: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d expired invitations", purged)
	}
}
