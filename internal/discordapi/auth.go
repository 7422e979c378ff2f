package discordapi

import (
	"net/http"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/reqctx"
	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantresolve"
)

// requireBot resolves the tenant from "Authorization: Bot <token>",
// writing the standard 401 body and returning ok=false if it is
// missing, malformed, or names no tenant. A missing header is
// indistinguishable from a bad token (spec.md §4.3).
func (s *Server) requireBot(w http.ResponseWriter, r *http.Request) (*tenantmodel.Tenant, bool) {
	tenant, err := tenantresolve.ByBotToken(r.Context(), s.Store, r)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if tenant == nil {
		httpx.Message(w, http.StatusUnauthorized, "401: Unauthorized")
		return nil, false
	}
	return tenant, true
}

// requireBearer resolves the tenant from "Authorization: Bearer
// <token>".
func (s *Server) requireBearer(w http.ResponseWriter, r *http.Request) (*tenantmodel.Tenant, bool) {
	tenant, err := tenantresolve.ByBearerToken(r.Context(), s.Store, r)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if tenant == nil {
		httpx.Message(w, http.StatusUnauthorized, "401: Unauthorized")
		return nil, false
	}
	return tenant, true
}

// markTenant records the resolved tenant on the request context for
// the audit middleware.
func markTenant(r *http.Request, tenantID string) {
	reqctx.SetTenantID(r.Context(), tenantID)
}
