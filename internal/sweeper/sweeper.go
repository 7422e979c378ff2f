// Package sweeper implements the Expiry Sweeper (spec.md §4.7): an
// hourly cron job that reclaims tenants past their 24-hour horizon.
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// Store is the subset of tenantstore.Store the sweeper needs.
type Store interface {
	ListStaleTenants(ctx context.Context, cutoff time.Time) ([]tenantmodel.Tenant, error)
	DeleteTenant(ctx context.Context, tenantID string) error
}

// Clock abstracts "now"; production wiring passes time.Now.
type Clock func() time.Time

// Sweeper deletes tenants created more than 24 hours ago. There is no
// grace period for "active" tenants (spec.md §9, preserved).
type Sweeper struct {
	Store Store
	Now   Clock
}

// New constructs a Sweeper, defaulting Now to time.Now when nil.
func New(store Store, now Clock) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{Store: store, Now: now}
}

// Result is the summary returned by a sweep run, matching the
// "cleanup-old-tenants" job's advertised shape (spec.md §4.7).
type Result struct {
	Deleted int  `json:"deleted"`
	Checked bool `json:"checked"`
}

// Run deletes every tenant whose created_at is older than 24 hours,
// cascading the same child-table deletion used by test-control's
// delete-tenant endpoint. Safe to run concurrently with all other
// traffic: each deletion is its own transaction, and a tenant deleted
// between listing and deleting here is simply a no-op for that row.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	cutoff := s.Now().Add(-24 * time.Hour)

	stale, err := s.Store.ListStaleTenants(ctx, cutoff)
	if err != nil {
		return Result{}, err
	}

	deleted := 0
	for _, tenant := range stale {
		if err := s.Store.DeleteTenant(ctx, tenant.ID); err != nil {
			log.Error().Err(err).Str("tenant_id", tenant.ID).Msg("sweeper failed to delete stale tenant")
			continue
		}
		deleted++
	}

	return Result{Deleted: deleted, Checked: true}, nil
}

// StartCron schedules Run on the given cron expression (cmd/server
// passes "0 * * * *", top of every hour, unless SWEEP_INTERVAL_CRON is
// set) and returns the running scheduler.
// Callers should call Stop() on shutdown.
func (s *Sweeper) StartCron(ctx context.Context, expr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		result, err := s.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("sweep run failed")
			return
		}
		log.Info().Int("deleted", result.Deleted).Msg("sweep run complete")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
