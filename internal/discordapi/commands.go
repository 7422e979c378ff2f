package discordapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

func commandResponse(clientID string, c tenantmodel.RegisteredCommand) map[string]any {
	out := map[string]any{
		"id":             c.ID,
		"application_id": clientID,
		"guild_id":       c.GuildID,
	}
	for k, v := range c.Payload {
		if _, reserved := out[k]; !reserved {
			out[k] = v
		}
	}
	return out
}

// BulkOverwriteCommands implements PUT
// /api/v10/applications/:clientId/guilds/:guildId/commands. The path
// client id must match the resolved bot's own client id — a mismatch
// is a 400, never a 404 (spec.md §4.2).
func (s *Server) BulkOverwriteCommands(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBot(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	if chi.URLParam(r, "clientId") != tenant.ClientID {
		httpx.Message(w, http.StatusBadRequest, "client_id mismatch")
		return
	}

	guildID := chi.URLParam(r, "guildId")
	if _, err := s.Store.GetGuild(r.Context(), tenant.ID, guildID); errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Guild")
		return
	} else if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	var payloads []map[string]any
	if !httpx.DecodeJSONBody(r, &payloads) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	commands, err := s.Store.BulkOverwriteCommands(r.Context(), tenant.ID, guildID, payloads)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]map[string]any, len(commands))
	for i, c := range commands {
		out[i] = commandResponse(tenant.ClientID, c)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
