package discordapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantresolve"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

// Authorize implements GET /oauth2/authorize. It generates a fresh
// auth code scoped to the tenant's first guild (ordered by id
// ascending) and redirects the caller. Preserved per spec.md §9 open
// question: unlike real Discord, an unknown client id is a 400, not a
// rendered consent screen — this fake is a test aid.
func (s *Server) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	clientID := q.Get("client_id")

	tenant, err := tenantresolve.ByClientID(ctx, s.Store, clientID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tenant == nil {
		httpx.Message(w, http.StatusBadRequest, "Unknown client_id")
		return
	}

	guild, err := s.Store.FirstGuildByID(ctx, tenant.ID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	redirectURI := q.Get("redirect_uri")
	state := q.Get("state")

	authCode, err := s.Store.CreateAuthCode(ctx, tenant.ID, guild.ID, redirectURI)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	markTenant(r, tenant.ID)

	loc := redirectURI + "?code=" + url.QueryEscape(authCode.Code) +
		"&state=" + url.QueryEscape(state) +
		"&guild_id=" + url.QueryEscape(guild.ID)
	w.Header().Set("Location", loc)
	w.WriteHeader(http.StatusFound)
}

// tokenExchangeResponse is the body returned on a successful token
// exchange. expires_in is advertised but not enforced (spec.md §9).
type tokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenExchange implements POST /api/v10/oauth2/token. The auth code
// is consumed via a single atomic DELETE ... RETURNING (see
// tenantstore.ConsumeAuthCode) so two racing exchanges of the same
// code can never both succeed.
func (s *Server) TokenExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !httpx.IsFormContentType(r.Header.Get("Content-Type")) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientID := r.FormValue("client_id")
	clientSecret := r.FormValue("client_secret")
	code := r.FormValue("code")
	redirectURI := r.FormValue("redirect_uri")

	tenant, err := tenantresolve.ByClientID(ctx, s.Store, clientID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tenant == nil || tenant.ClientSecret != clientSecret {
		httpx.Err(w, http.StatusUnauthorized, "invalid_client")
		return
	}

	authCode, err := s.Store.ConsumeAuthCode(ctx, code)
	if errors.Is(err, tenantstore.ErrAuthCodeNotFound) {
		httpx.Err(w, http.StatusUnauthorized, "invalid_grant")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	if authCode.TenantID != tenant.ID {
		httpx.Err(w, http.StatusUnauthorized, "invalid_grant")
		return
	}
	if authCode.RedirectURI != redirectURI {
		httpx.ErrDesc(w, http.StatusBadRequest, "invalid_request", "redirect_uri mismatch")
		return
	}

	token, err := s.Store.CreateAccessToken(ctx, tenant.ID)
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	markTenant(r, tenant.ID)

	httpx.WriteJSON(w, http.StatusOK, tokenExchangeResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   604800,
	})
}
