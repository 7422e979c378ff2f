package discordapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

type fakeChannel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
	Type    int    `json:"type"`
}

// GetChannel implements GET /api/v10/channels/:id.
func (s *Server) GetChannel(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBot(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	channelID := chi.URLParam(r, "id")
	channel, err := s.Store.GetChannel(r.Context(), tenant.ID, channelID)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Channel")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, fakeChannel{
		ID:      channel.ID,
		GuildID: channel.GuildID,
		Name:    channel.Name,
		Type:    0,
	})
}
