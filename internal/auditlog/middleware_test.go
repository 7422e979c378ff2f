package auditlog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakecord/fakecord-api/internal/reqctx"
	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

type recordingStore struct {
	entries []tenantmodel.AuditLogEntry
}

func (s *recordingStore) InsertAuditLog(ctx context.Context, entry tenantmodel.AuditLogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func TestMiddleware_RecordsRoundTrip(t *testing.T) {
	store := &recordingStore{}
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqctx.SetTenantID(r.Context(), "tenant-1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v10/users/@me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(store.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if entry.TenantID == nil || *entry.TenantID != "tenant-1" {
		t.Fatalf("expected tenant id tenant-1, got %v", entry.TenantID)
	}
	if entry.ResponseStatus != http.StatusOK {
		t.Fatalf("expected status 200, got %d", entry.ResponseStatus)
	}
	if entry.ResponseBody == nil || *entry.ResponseBody != `{"ok":true}` {
		t.Fatalf("expected response body to be captured, got %v", entry.ResponseBody)
	}
}

func TestMiddleware_ExcludesAuditLogPaths(t *testing.T) {
	store := &recordingStore{}
	handler := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/_test/tenant-1/audit-logs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(store.entries) != 0 {
		t.Fatalf("expected audit-logs path to be excluded, got %d entries", len(store.entries))
	}
}
