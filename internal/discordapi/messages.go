package discordapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

type sendMessageResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

func contentOf(payload map[string]any) string {
	if c, ok := payload["content"].(string); ok {
		return c
	}
	return ""
}

// SendMessage implements POST /api/v10/channels/:id/messages. The
// entire request body is persisted verbatim as the message payload
// (spec.md §9 — "model as an opaque JSON value").
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBot(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	channelID := chi.URLParam(r, "id")
	if _, err := s.Store.GetChannel(r.Context(), tenant.ID, channelID); errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Channel")
		return
	} else if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	var payload map[string]any
	if !httpx.DecodeJSONBody(r, &payload) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := s.Store.SendMessage(r.Context(), tenant.ID, channelID, payload)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sendMessageResponse{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		Content:   contentOf(msg.Payload),
	})
}

type editMessageResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// EditMessage implements PATCH /api/v10/channels/:ch/messages/:msg. The
// pre-image capture and payload overwrite happen in a single
// transaction (tenantstore.EditMessage); ErrNotFound from the store
// means the message does not exist.
func (s *Server) EditMessage(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBot(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	messageID := chi.URLParam(r, "msg")

	var payload map[string]any
	if !httpx.DecodeJSONBody(r, &payload) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := s.Store.EditMessage(r.Context(), tenant.ID, messageID, payload)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Message")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, editMessageResponse{
		ID:      msg.ID,
		Content: contentOf(msg.Payload),
	})
}

// AddReaction implements PUT
// /api/v10/channels/:ch/messages/:msg/reactions/:emoji/@me. Both the
// channel and the message must exist; :emoji arrives URL-encoded.
func (s *Server) AddReaction(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBot(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	channelID := chi.URLParam(r, "ch")
	messageID := chi.URLParam(r, "msg")
	rawEmoji := chi.URLParam(r, "emoji")

	if _, err := s.Store.GetChannel(r.Context(), tenant.ID, channelID); errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Channel")
		return
	} else if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := s.Store.GetMessage(r.Context(), tenant.ID, messageID); errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Message")
		return
	} else if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	emoji, err := url.QueryUnescape(rawEmoji)
	if err != nil {
		emoji = rawEmoji
	}

	if err := s.Store.AddReaction(r.Context(), tenant.ID, channelID, messageID, emoji); err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
