package testcontrol

import (
	"errors"
	"net/http"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

type createAuthCodeReq struct {
	GuildID     string `json:"guildId"`
	RedirectURI string `json:"redirectUri"`
}

// CreateAuthCode implements POST /_test/:id/auth-code, pre-issuing an
// auth code for scripted OAuth flows (spec.md §4.4).
func (s *Server) CreateAuthCode(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}

	var req createAuthCodeReq
	if !httpx.DecodeJSONBody(r, &req) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GuildID == "" {
		httpx.Err(w, http.StatusBadRequest, "Missing required field: guildId")
		return
	}

	if _, err := s.Store.GetGuild(r.Context(), tenant.ID, req.GuildID); errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Message(w, http.StatusNotFound, "Unknown Guild")
		return
	} else if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	authCode, err := s.Store.CreateAuthCode(r.Context(), tenant.ID, req.GuildID, req.RedirectURI)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"code":        authCode.Code,
		"guildId":     authCode.GuildID,
		"redirectUri": authCode.RedirectURI,
	})
}
