package testcontrol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

type fakeStore struct {
	tenants map[string]tenantmodel.Tenant
	guilds  map[string]tenantmodel.Guild
	commandsByGuild map[string][]tenantmodel.RegisteredCommand
	nextID  int

	// interactionResponseErr, when set, is returned by
	// GetInteractionResponse instead of the default tenantstore.ErrNotFound —
	// lets tests distinguish the documented "no response recorded yet" null
	// from a genuine storage failure.
	interactionResponseErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants:         map[string]tenantmodel.Tenant{},
		guilds:          map[string]tenantmodel.Guild{},
		commandsByGuild: map[string][]tenantmodel.RegisteredCommand{},
	}
}

func (f *fakeStore) CreateTenant(ctx context.Context, in tenantstore.CreateTenantInput) (*tenantmodel.Tenant, error) {
	for _, t := range f.tenants {
		if t.BotToken == in.BotToken {
			return nil, tenantstore.ErrBotTokenInUse
		}
		if t.ClientID == in.ClientID {
			return nil, tenantstore.ErrClientIDInUse
		}
	}
	f.nextID++
	id := "tenant-" + string(rune('0'+f.nextID))
	t := tenantmodel.Tenant{
		ID: id, BotToken: in.BotToken, ClientID: in.ClientID,
		ClientSecret: in.ClientSecret, PublicKey: in.PublicKey, PrivateKey: in.PrivateKey,
		NextID: 1,
	}
	f.tenants[id] = t
	for _, g := range in.Guilds {
		f.guilds[id+"/"+g.ID] = tenantmodel.Guild{TenantID: id, ID: g.ID, Name: g.Name}
	}
	return &t, nil
}

func (f *fakeStore) DeleteTenant(ctx context.Context, tenantID string) error {
	if _, ok := f.tenants[tenantID]; !ok {
		return tenantstore.ErrNotFound
	}
	delete(f.tenants, tenantID)
	return nil
}

func (f *fakeStore) ResetTenant(ctx context.Context, tenantID string) error {
	t, ok := f.tenants[tenantID]
	if !ok {
		return tenantstore.ErrNotFound
	}
	t.NextID = 1
	f.tenants[tenantID] = t
	return nil
}

func (f *fakeStore) GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, tenantstore.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) GetGuild(ctx context.Context, tenantID, guildID string) (*tenantmodel.Guild, error) {
	g, ok := f.guilds[tenantID+"/"+guildID]
	if !ok {
		return nil, tenantstore.ErrNotFound
	}
	return &g, nil
}

func (f *fakeStore) ListTenants(ctx context.Context) ([]tenantmodel.Tenant, error) {
	out := make([]tenantmodel.Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) ListMessagesByChannel(ctx context.Context, tenantID, channelID string) ([]tenantmodel.MessageWithHistory, error) {
	return []tenantmodel.MessageWithHistory{}, nil
}

func (f *fakeStore) ListReactions(ctx context.Context, tenantID string) ([]tenantmodel.Reaction, error) {
	return []tenantmodel.Reaction{}, nil
}

func (f *fakeStore) GetInteractionResponse(ctx context.Context, tenantID, token string) (*tenantmodel.InteractionResponse, error) {
	if f.interactionResponseErr != nil {
		return nil, f.interactionResponseErr
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) ListFollowups(ctx context.Context, tenantID, token string) ([]tenantmodel.Followup, error) {
	return []tenantmodel.Followup{}, nil
}

func (f *fakeStore) ListCommands(ctx context.Context, tenantID, guildID string) ([]tenantmodel.RegisteredCommand, error) {
	return f.commandsByGuild[tenantID+"/"+guildID], nil
}

func (f *fakeStore) ListAuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]tenantmodel.AuditLogEntry, int, error) {
	return []tenantmodel.AuditLogEntry{}, 0, nil
}

func (f *fakeStore) DeleteGlobalAuditLogs(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeStore) CreateAuthCode(ctx context.Context, tenantID, guildID, redirectURI string) (*tenantmodel.AuthCode, error) {
	return &tenantmodel.AuthCode{Code: "code-1", TenantID: tenantID, GuildID: guildID, RedirectURI: redirectURI}, nil
}

func newTestRouter(store Store) http.Handler {
	r := chi.NewRouter()
	New(store).Routes(r, "/_test")
	return r
}

func TestCreateTenant_MissingFieldRejected(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/_test/tenants", bytes.NewBufferString(`{"botToken":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateTenant_DuplicateBotTokenConflicts(t *testing.T) {
	router := newTestRouter(newFakeStore())

	body := `{"botToken":"b","clientId":"c1","clientSecret":"s","publicKey":"pk","privateKey":"sk","guilds":[{"id":"g","name":"g","channels":[{"id":"ch","name":"general"}]}]}`

	req := httptest.NewRequest(http.MethodPost, "/_test/tenants", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first create, got %d: %s", w.Code, w.Body.String())
	}

	body2 := `{"botToken":"b","clientId":"c2","clientSecret":"s","publicKey":"pk","privateKey":"sk","guilds":[{"id":"g","name":"g","channels":[{"id":"ch","name":"general"}]}]}`
	req2 := httptest.NewRequest(http.MethodPost, "/_test/tenants", bytes.NewBufferString(body2))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate bot token, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestResetTenant_UnknownTenantIs404(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/_test/no-such-tenant/reset", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tenant, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Tenant not found" {
		t.Fatalf("expected {error: Tenant not found}, got %v", body)
	}
}

func TestListAuditLogs_DefaultsLimitAndOffset(t *testing.T) {
	store := newFakeStore()
	store.tenants["t1"] = tenantmodel.Tenant{ID: "t1", BotToken: "b", ClientID: "c"}
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/_test/t1/audit-logs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var page auditLogPage
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Limit != 100 || page.Offset != 0 {
		t.Fatalf("expected default limit=100 offset=0, got limit=%d offset=%d", page.Limit, page.Offset)
	}
}

func TestGetInteractionResponse_NoResponseRecordedIsNullNot404(t *testing.T) {
	store := newFakeStore()
	store.tenants["t1"] = tenantmodel.Tenant{ID: "t1", BotToken: "b", ClientID: "c"}
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/_test/t1/interaction-responses/tok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an unset token, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != "null\n" {
		t.Fatalf("expected null body, got %q", body)
	}
}

func TestGetInteractionResponse_StorageErrorReturns500(t *testing.T) {
	store := newFakeStore()
	store.tenants["t1"] = tenantmodel.Tenant{ID: "t1", BotToken: "b", ClientID: "c"}
	store.interactionResponseErr = errors.New("connection reset")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/_test/t1/interaction-responses/tok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on a genuine storage error, got %d: %s", w.Code, w.Body.String())
	}
}
