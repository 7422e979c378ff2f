package testcontrol

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

type channelReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type guildReq struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Channels []channelReq `json:"channels"`
}

type createTenantReq struct {
	BotToken     string     `json:"botToken"`
	ClientID     string     `json:"clientId"`
	ClientSecret string     `json:"clientSecret"`
	PublicKey    string     `json:"publicKey"`
	PrivateKey   string     `json:"privateKey"`
	Guilds       []guildReq `json:"guilds"`
}

// missingField reports the first required field name that is empty,
// or "" if all are present.
func (req createTenantReq) missingField() string {
	switch {
	case req.BotToken == "":
		return "botToken"
	case req.ClientID == "":
		return "clientId"
	case req.ClientSecret == "":
		return "clientSecret"
	case req.PublicKey == "":
		return "publicKey"
	case req.PrivateKey == "":
		return "privateKey"
	case len(req.Guilds) == 0:
		return "guilds"
	}
	for _, g := range req.Guilds {
		if len(g.Channels) == 0 {
			return "guilds[].channels"
		}
	}
	return ""
}

func tenantJSON(t *tenantmodel.Tenant) map[string]any {
	return map[string]any{
		"id":           t.ID,
		"botToken":     t.BotToken,
		"clientId":     t.ClientID,
		"clientSecret": t.ClientSecret,
		"publicKey":    t.PublicKey,
		"privateKey":   t.PrivateKey,
		"nextId":       t.NextID,
		"createdAt":    t.CreatedAt,
	}
}

// CreateTenant implements POST /_test/tenants. The store's unique
// index on bot_token/client_id is the sole authority for the
// concurrent-creation race (spec.md §5, §8 invariant 2): this handler
// never pre-checks uniqueness itself.
func (s *Server) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantReq
	if !httpx.DecodeJSONBody(r, &req) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if field := req.missingField(); field != "" {
		httpx.Err(w, http.StatusBadRequest, "Missing required field: "+field)
		return
	}

	in := tenantstore.CreateTenantInput{
		BotToken:     req.BotToken,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		PublicKey:    req.PublicKey,
		PrivateKey:   req.PrivateKey,
	}
	for _, g := range req.Guilds {
		gi := tenantstore.GuildInput{ID: g.ID, Name: g.Name}
		for _, c := range g.Channels {
			gi.Channels = append(gi.Channels, tenantstore.ChannelInput{ID: c.ID, Name: c.Name})
		}
		in.Guilds = append(in.Guilds, gi)
	}

	tenant, err := s.Store.CreateTenant(r.Context(), in)
	switch {
	case errors.Is(err, tenantstore.ErrBotTokenInUse):
		httpx.Err(w, http.StatusConflict, "botToken already in use")
		return
	case errors.Is(err, tenantstore.ErrClientIDInUse):
		httpx.Err(w, http.StatusConflict, "clientId already in use")
		return
	case err != nil:
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tenantJSON(tenant))
}

// resolveTenant loads the tenant named by the "id" path parameter,
// writing the test-control-shaped 404 on miss.
func (s *Server) resolveTenant(w http.ResponseWriter, r *http.Request) (*tenantmodel.Tenant, bool) {
	tenantID := chi.URLParam(r, "id")
	tenant, err := s.Store.GetTenantByID(r.Context(), tenantID)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Err(w, http.StatusNotFound, "Tenant not found")
		return nil, false
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return tenant, true
}

// DeleteTenant implements DELETE /_test/tenants/:id, cascading every
// child table in one transaction (tenantstore.DeleteTenant).
func (s *Server) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")
	err := s.Store.DeleteTenant(r.Context(), tenantID)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Err(w, http.StatusNotFound, "Tenant not found")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetTenant implements POST /_test/:id/reset.
func (s *Server) ResetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "id")
	err := s.Store.ResetTenant(r.Context(), tenantID)
	if errors.Is(err, tenantstore.ErrNotFound) {
		httpx.Err(w, http.StatusNotFound, "Tenant not found")
		return
	}
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
