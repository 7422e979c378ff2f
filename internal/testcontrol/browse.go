package testcontrol

import (
	"net/http"

	"github.com/fakecord/fakecord-api/internal/httpx"
)

// ListTenantsBrowse implements GET /_test/tenants, a read-only aggregate
// feeding the out-of-scope browse UI (spec.md §4.4 "Browse endpoints").
func (s *Server) ListTenantsBrowse(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.Store.ListTenants(r.Context())
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]map[string]any, len(tenants))
	for i := range tenants {
		out[i] = tenantJSON(&tenants[i])
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// TenantSummary implements GET /_test/tenants/:id/summary, returning
// the tenant record without its secrets — enough for a browse UI list
// view without re-exposing bot/client credentials.
func (s *Server) TenantSummary(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":        tenant.ID,
		"clientId":  tenant.ClientID,
		"nextId":    tenant.NextID,
		"createdAt": tenant.CreatedAt,
	})
}

// DeleteGlobalAuditLogs implements DELETE /_test/audit-logs, clearing
// audit rows that never resolved to a tenant (spec.md §3 Ownership:
// "retained until explicit admin action").
func (s *Server) DeleteGlobalAuditLogs(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.Store.DeleteGlobalAuditLogs(r.Context())
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
