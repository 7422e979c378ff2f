package discordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

// fakeStore is an in-memory stand-in for tenantstore.Store, enough to
// exercise the impersonation surface's routing and response shaping
// without a real Postgres instance.
type fakeStore struct {
	tenant    tenantmodel.Tenant
	guild     tenantmodel.Guild
	channel   tenantmodel.Channel
	authCodes map[string]tenantmodel.AuthCode
	tokens    map[string]string // access token -> tenant id
	messages  map[string]tenantmodel.Message
	edits     []tenantmodel.MessageEdit
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenant: tenantmodel.Tenant{
			ID: "tenant-1", BotToken: "bot-token", ClientID: "client-1",
			ClientSecret: "client-secret", PublicKey: "pub", PrivateKey: "priv",
		},
		guild:     tenantmodel.Guild{TenantID: "tenant-1", ID: "g", Name: "Guild"},
		channel:   tenantmodel.Channel{TenantID: "tenant-1", ID: "c", GuildID: "g", Name: "general"},
		authCodes: map[string]tenantmodel.AuthCode{},
		tokens:    map[string]string{},
		messages:  map[string]tenantmodel.Message{},
		nextID:    1,
	}
}

func (f *fakeStore) genID(prefix string) string {
	id := f.nextID
	f.nextID++
	return prefix + "-" + string(rune('0'+id))
}

// GetTenantByBotToken and its siblings below return tenantstore.ErrNotFound
// on a miss, matching the real store's contract (tenantstore.scanTenant
// never returns (nil, nil)) rather than the looser (nil, nil) this fake
// previously returned, which masked callers that forgot to translate the
// not-found error before branching on err != nil.
func (f *fakeStore) GetTenantByBotToken(ctx context.Context, botToken string) (*tenantmodel.Tenant, error) {
	if botToken == f.tenant.BotToken {
		return &f.tenant, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) GetTenantByAccessToken(ctx context.Context, token string) (*tenantmodel.Tenant, error) {
	if _, ok := f.tokens[token]; ok {
		return &f.tenant, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) GetTenantByClientID(ctx context.Context, clientID string) (*tenantmodel.Tenant, error) {
	if clientID == f.tenant.ClientID {
		return &f.tenant, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error) {
	if id == f.tenant.ID {
		return &f.tenant, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) FirstGuildByID(ctx context.Context, tenantID string) (*tenantmodel.Guild, error) {
	return &f.guild, nil
}

func (f *fakeStore) GetGuild(ctx context.Context, tenantID, guildID string) (*tenantmodel.Guild, error) {
	if guildID == f.guild.ID {
		return &f.guild, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) GetChannel(ctx context.Context, tenantID, channelID string) (*tenantmodel.Channel, error) {
	if channelID == f.channel.ID {
		return &f.channel, nil
	}
	return nil, tenantstore.ErrNotFound
}

func (f *fakeStore) CreateAuthCode(ctx context.Context, tenantID, guildID, redirectURI string) (*tenantmodel.AuthCode, error) {
	ac := tenantmodel.AuthCode{Code: f.genID("code"), TenantID: tenantID, GuildID: guildID, RedirectURI: redirectURI}
	f.authCodes[ac.Code] = ac
	return &ac, nil
}

func (f *fakeStore) ConsumeAuthCode(ctx context.Context, code string) (*tenantmodel.AuthCode, error) {
	ac, ok := f.authCodes[code]
	if !ok {
		return nil, tenantstore.ErrAuthCodeNotFound
	}
	delete(f.authCodes, code)
	return &ac, nil
}

func (f *fakeStore) CreateAccessToken(ctx context.Context, tenantID string) (string, error) {
	token := f.genID("token")
	f.tokens[token] = tenantID
	return token, nil
}

func (f *fakeStore) SendMessage(ctx context.Context, tenantID, channelID string, payload map[string]any) (*tenantmodel.Message, error) {
	id := f.genID("msg")
	m := tenantmodel.Message{TenantID: tenantID, ID: id, ChannelID: channelID, Payload: payload}
	f.messages[id] = m
	return &m, nil
}

func (f *fakeStore) EditMessage(ctx context.Context, tenantID, messageID string, newPayload map[string]any) (*tenantmodel.Message, error) {
	m, ok := f.messages[messageID]
	if !ok {
		return nil, tenantstore.ErrNotFound
	}
	f.edits = append(f.edits, tenantmodel.MessageEdit{TenantID: tenantID, MessageID: messageID, Payload: m.Payload})
	m.Payload = newPayload
	f.messages[messageID] = m
	return &m, nil
}

func (f *fakeStore) GetMessage(ctx context.Context, tenantID, messageID string) (*tenantmodel.Message, error) {
	m, ok := f.messages[messageID]
	if !ok {
		return nil, tenantstore.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) AddReaction(ctx context.Context, tenantID, channelID, messageID, emoji string) error {
	return nil
}

func (f *fakeStore) UpsertInteractionResponse(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.InteractionResponse, error) {
	return &tenantmodel.InteractionResponse{TenantID: tenantID, InteractionToken: token, ResponseID: "resp-1", Payload: payload}, nil
}

func (f *fakeStore) AppendFollowup(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.Followup, error) {
	return &tenantmodel.Followup{TenantID: tenantID, ID: "followup-1", InteractionToken: token, Payload: payload}, nil
}

func (f *fakeStore) BulkOverwriteCommands(ctx context.Context, tenantID, guildID string, payloads []map[string]any) ([]tenantmodel.RegisteredCommand, error) {
	out := make([]tenantmodel.RegisteredCommand, len(payloads))
	for i, p := range payloads {
		out[i] = tenantmodel.RegisteredCommand{TenantID: tenantID, ID: f.genID("cmd"), GuildID: guildID, Payload: p}
	}
	return out, nil
}

func newTestRouter(store Store) http.Handler {
	r := chi.NewRouter()
	New(store).Routes(r)
	return r
}

func TestSendMessage_RequiresBotAuth(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v10/channels/c/messages", bytes.NewBufferString(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendThenEditMessage(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v10/channels/c/messages", bytes.NewBufferString(`{"content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot bot-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 sending message, got %d: %s", w.Code, w.Body.String())
	}

	var sent sendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sent.Content != "Hi" {
		t.Fatalf("expected content Hi, got %q", sent.Content)
	}

	editReq := httptest.NewRequest(http.MethodPatch, "/api/v10/channels/c/messages/"+sent.ID, bytes.NewBufferString(`{"content":"Hi!"}`))
	editReq.Header.Set("Content-Type", "application/json")
	editReq.Header.Set("Authorization", "Bot bot-token")
	editW := httptest.NewRecorder()
	router.ServeHTTP(editW, editReq)

	if editW.Code != http.StatusOK {
		t.Fatalf("expected 200 editing message, got %d: %s", editW.Code, editW.Body.String())
	}
}

func TestEditUnknownMessage_Returns404(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPatch, "/api/v10/channels/c/messages/msg-does-not-exist", bytes.NewBufferString(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot bot-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBulkOverwriteCommands_ClientIDMismatch(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPut, "/api/v10/applications/wrong-client/guilds/g/commands", bytes.NewBufferString(`[]`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot bot-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on client_id mismatch, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTokenExchange_RejectsReplay(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	authCode, err := store.CreateAuthCode(context.Background(), store.tenant.ID, "g", "https://example.test/cb")
	if err != nil {
		t.Fatalf("CreateAuthCode: %v", err)
	}

	form := "client_id=client-1&client_secret=client-secret&code=" + authCode.Code + "&redirect_uri=https://example.test/cb"

	req := httptest.NewRequest(http.MethodPost, "/api/v10/oauth2/token", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first exchange, got %d: %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v10/oauth2/token", bytes.NewBufferString(form))
	req2.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replayed code, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestAuthorize_UnknownClientIDReturns400(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/oauth2/authorize?client_id=no-such-client", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown client_id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTokenExchange_UnknownClientIDReturns401(t *testing.T) {
	router := newTestRouter(newFakeStore())

	form := "client_id=no-such-client&client_secret=whatever&code=whatever&redirect_uri=https://example.test/cb"
	req := httptest.NewRequest(http.MethodPost, "/api/v10/oauth2/token", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 invalid_client for unknown client_id, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid_client" {
		t.Fatalf("expected error invalid_client, got %v", body)
	}
}

func TestSendFollowup_UnknownClientIDReturns404(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v10/webhooks/no-such-client/tok", bytes.NewBufferString(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 Unknown Application for unknown client_id, got %d: %s", w.Code, w.Body.String())
	}
}
