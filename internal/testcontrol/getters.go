package testcontrol

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

// parseLimit parses a "limit" query param with a default and a cap,
// following the teacher's parseLimit helper.
func parseLimit(q string, def, max int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func parseOffset(q string) int {
	if q == "" {
		return 0
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ListMessages implements GET /_test/:id/messages/:channel.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	channelID := chi.URLParam(r, "channel")
	messages, err := s.Store.ListMessagesByChannel(r.Context(), tenant.ID, channelID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messages)
}

// ListReactions implements GET /_test/:id/reactions.
func (s *Server) ListReactions(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	reactions, err := s.Store.ListReactions(r.Context(), tenant.ID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reactions)
}

// GetInteractionResponse implements GET
// /_test/:id/interaction-responses/:token. Returns null when no
// response has been recorded for the token — only an unknown tenant
// is a 404 here (spec.md §4.4).
func (s *Server) GetInteractionResponse(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	token := chi.URLParam(r, "token")
	resp, err := s.Store.GetInteractionResponse(r.Context(), tenant.ID, token)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListFollowups implements GET /_test/:id/followups/:token.
func (s *Server) ListFollowups(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	token := chi.URLParam(r, "token")
	followups, err := s.Store.ListFollowups(r.Context(), tenant.ID, token)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, followups)
}

// ListCommands implements GET /_test/:id/commands/:guild.
func (s *Server) ListCommands(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	guildID := chi.URLParam(r, "guild")
	commands, err := s.Store.ListCommands(r.Context(), tenant.ID, guildID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, commands)
}

type auditLogPage struct {
	Total  int         `json:"total"`
	Items  interface{} `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// ListAuditLogs implements GET /_test/:id/audit-logs?limit&offset.
// This path is excluded from audit capture itself (spec.md §4.6,
// tested by scenario 6: "total does not change between two gets").
func (s *Server) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), 100, 1000)
	offset := parseOffset(r.URL.Query().Get("offset"))

	entries, total, err := s.Store.ListAuditLogs(r.Context(), tenant.ID, limit, offset)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, auditLogPage{Total: total, Items: entries, Limit: limit, Offset: offset})
}
