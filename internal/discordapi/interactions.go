package discordapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantresolve"
)

type interactionResponseBody struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// resolveByClientID resolves the tenant owning the webhook path's
// client id, writing the shared "Unknown Application" 404 on miss —
// these two endpoints take no Authorization header at all (spec.md
// §4.3).
func (s *Server) resolveByClientID(w http.ResponseWriter, r *http.Request) (tenantID string, ok bool) {
	clientID := chi.URLParam(r, "clientId")
	tenant, err := tenantresolve.ByClientID(r.Context(), s.Store, clientID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	if tenant == nil {
		httpx.Message(w, http.StatusNotFound, "Unknown Application")
		return "", false
	}
	return tenant.ID, true
}

// EditInteractionResponse implements PATCH
// /api/v10/webhooks/:clientId/:token/messages/@original.
func (s *Server) EditInteractionResponse(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.resolveByClientID(w, r)
	if !ok {
		return
	}
	markTenant(r, tenantID)

	var payload map[string]any
	if !httpx.DecodeJSONBody(r, &payload) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token := chi.URLParam(r, "token")
	resp, err := s.Store.UpsertInteractionResponse(r.Context(), tenantID, token, payload)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, interactionResponseBody{
		ID:      resp.ResponseID,
		Content: contentOf(resp.Payload),
	})
}

type followupResponseBody struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// SendFollowup implements POST /api/v10/webhooks/:clientId/:token. The
// hard-coded channel_id is preserved verbatim per spec.md §9.
func (s *Server) SendFollowup(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.resolveByClientID(w, r)
	if !ok {
		return
	}
	markTenant(r, tenantID)

	var payload map[string]any
	if !httpx.DecodeJSONBody(r, &payload) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token := chi.URLParam(r, "token")
	followup, err := s.Store.AppendFollowup(r.Context(), tenantID, token, payload)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, followupResponseBody{
		ID:        followup.ID,
		ChannelID: "chan-followup",
		Content:   contentOf(followup.Payload),
	})
}
