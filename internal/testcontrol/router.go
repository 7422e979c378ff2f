package testcontrol

import (
	"strings"

	"github.com/go-chi/chi/v5"
)

// ValidatePrefix checks that a configured test-control prefix does not
// collide with a host-runtime reserved prefix such as "/__" (spec.md
// §4.4).
func ValidatePrefix(prefix string) bool {
	return !strings.HasPrefix(prefix, "/__")
}

// Routes mounts the test-control surface under prefix (e.g. "/_test").
func (s *Server) Routes(r chi.Router, prefix string) {
	r.Route(prefix, func(r chi.Router) {
		r.Post("/tenants", s.CreateTenant)
		r.Get("/tenants", s.ListTenantsBrowse)
		r.Delete("/tenants/{id}", s.DeleteTenant)
		r.Get("/tenants/{id}/summary", s.TenantSummary)
		r.Delete("/audit-logs", s.DeleteGlobalAuditLogs)

		r.Post("/{id}/reset", s.ResetTenant)
		r.Get("/{id}/messages/{channel}", s.ListMessages)
		r.Get("/{id}/reactions", s.ListReactions)
		r.Get("/{id}/interaction-responses/{token}", s.GetInteractionResponse)
		r.Get("/{id}/followups/{token}", s.ListFollowups)
		r.Get("/{id}/commands/{guild}", s.ListCommands)
		r.Get("/{id}/audit-logs", s.ListAuditLogs)
		r.Post("/{id}/auth-code", s.CreateAuthCode)
		r.Post("/{id}/send-interaction", s.SendSignedInteraction)
	})
}
