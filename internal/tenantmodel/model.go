// Package tenantmodel defines the entities owned by a tenant of the
// fake Discord surface: one bot identity, one OAuth application, a
// fixed topology of guilds and channels, and the mutable state those
// collaborators produce while a test drives them.
package tenantmodel

import "time"

// Tenant is the unit of isolation: one bot token, one OAuth
// application, its own guild/channel topology, its own id counter.
type Tenant struct {
	ID           string
	BotToken     string
	ClientID     string
	ClientSecret string
	PublicKey    string // hex
	PrivateKey   string // hex
	NextID       int64
	CreatedAt    time.Time
}

// Guild is a server within a tenant; immutable once created.
type Guild struct {
	TenantID string
	ID       string
	Name     string
}

// Channel is a container of messages within a guild.
type Channel struct {
	TenantID string
	ID       string
	GuildID  string
	Name     string
}

// AuthCode is a single-use OAuth authorization code.
type AuthCode struct {
	Code        string
	TenantID    string
	GuildID     string
	RedirectURI string
}

// AccessToken is a bearer credential resolving back to a tenant.
type AccessToken struct {
	Token    string
	TenantID string
}

// Message is a sent Discord message; Payload is the verbatim JSON body
// the client sent, mutated in place by edits (the pre-image moves to a
// MessageEdit row first).
type Message struct {
	TenantID  string
	ID        string
	ChannelID string
	Payload   map[string]any
	CreatedAt time.Time
}

// MessageEdit is the pre-image of a message's payload just before an
// edit overwrote it.
type MessageEdit struct {
	ID        int64
	TenantID  string
	MessageID string
	Payload   map[string]any
	EditedAt  time.Time
}

// Reaction is an append-only record of a reaction add.
type Reaction struct {
	ID        int64
	TenantID  string
	ChannelID string
	MessageID string
	Emoji     string
	CreatedAt time.Time
}

// InteractionResponse is the single upserted response for an
// interaction token.
type InteractionResponse struct {
	TenantID         string
	InteractionToken string
	ResponseID       string
	Payload          map[string]any
	RespondedAt      time.Time
}

// Followup is one of any number of messages appended after the
// initial interaction response.
type Followup struct {
	ID               string
	TenantID         string
	InteractionToken string
	Payload          map[string]any
	CreatedAt        time.Time
}

// RegisteredCommand is a slash command registered for a
// (tenant, guild) pair via bulk overwrite.
type RegisteredCommand struct {
	ID           string
	TenantID     string
	GuildID      string
	Payload      map[string]any
	RegisteredAt time.Time
}

// AuditLogEntry records one HTTP round-trip through the
// impersonation or test-control surface. TenantID is nil when the
// request never resolved to a tenant (e.g. an unknown route).
type AuditLogEntry struct {
	ID             int64
	TenantID       *string
	Method         string
	URL            string
	RequestBody    *string
	ResponseStatus int
	ResponseBody   *string
	CreatedAt      time.Time
}

// MessageWithHistory is a Message plus its edit history, oldest
// first, as returned by the test-control message getter.
type MessageWithHistory struct {
	Message
	EditHistory []MessageEdit
}
