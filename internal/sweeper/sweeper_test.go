package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

var errNotFound = errors.New("not found")

type fakeStore struct {
	tenants map[string]tenantmodel.Tenant
}

func (f *fakeStore) ListStaleTenants(ctx context.Context, cutoff time.Time) ([]tenantmodel.Tenant, error) {
	var out []tenantmodel.Tenant
	for _, t := range f.tenants {
		if t.CreatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTenant(ctx context.Context, tenantID string) error {
	if _, ok := f.tenants[tenantID]; !ok {
		return errNotFound
	}
	delete(f.tenants, tenantID)
	return nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestRun_DeletesOnlyStaleTenants(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{tenants: map[string]tenantmodel.Tenant{
		"old":   {ID: "old", CreatedAt: now.Add(-25 * time.Hour)},
		"fresh": {ID: "fresh", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	s := New(store, fixedClock(now))

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Deleted != 1 || !result.Checked {
		t.Fatalf("expected {Deleted:1 Checked:true}, got %+v", result)
	}
	if _, ok := store.tenants["old"]; ok {
		t.Fatalf("expected stale tenant to be deleted")
	}
	if _, ok := store.tenants["fresh"]; !ok {
		t.Fatalf("expected fresh tenant to survive")
	}
}

// vanishingStore simulates another deleter removing each tenant
// between the sweeper's listing and its own DeleteTenant call.
type vanishingStore struct{ *fakeStore }

func (v vanishingStore) DeleteTenant(ctx context.Context, tenantID string) error {
	delete(v.tenants, tenantID)
	return v.fakeStore.DeleteTenant(ctx, tenantID)
}

func TestRun_ConcurrentDeleteIsNotAnError(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{tenants: map[string]tenantmodel.Tenant{
		"old": {ID: "old", CreatedAt: now.Add(-25 * time.Hour)},
	}}
	s := New(vanishingStore{store}, fixedClock(now))

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error when a stale tenant vanished concurrently, got %v", err)
	}
	if result.Deleted != 0 {
		t.Fatalf("expected 0 deletions for an already-gone tenant, got %d", result.Deleted)
	}
}

func TestRun_SecondInvocationIsNoop(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{tenants: map[string]tenantmodel.Tenant{
		"old": {ID: "old", CreatedAt: now.Add(-25 * time.Hour)},
	}}
	s := New(store, fixedClock(now))

	first, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Deleted != 1 {
		t.Fatalf("expected first run to delete 1, got %d", first.Deleted)
	}

	second, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Deleted != 0 {
		t.Fatalf("expected second run to be a no-op, got %d deletions", second.Deleted)
	}
}
