// Package discordapi implements the Discord-Impersonation Surface
// (spec.md §4.3): the ten endpoints that look like Discord to code
// under test. Each handler resolves a tenant, checks its
// preconditions, mutates or reads the tenant state store, and shapes
// its response and error bodies after Discord's own (not field-for-field;
// e.g. an unknown OAuth client id is a plain 400, see oauth.go).
package discordapi

import (
	"context"
	"time"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// Store is the subset of tenantstore.Store the impersonation surface
// depends on.
type Store interface {
	GetTenantByBotToken(ctx context.Context, botToken string) (*tenantmodel.Tenant, error)
	GetTenantByAccessToken(ctx context.Context, token string) (*tenantmodel.Tenant, error)
	GetTenantByClientID(ctx context.Context, clientID string) (*tenantmodel.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error)

	FirstGuildByID(ctx context.Context, tenantID string) (*tenantmodel.Guild, error)
	GetGuild(ctx context.Context, tenantID, guildID string) (*tenantmodel.Guild, error)
	GetChannel(ctx context.Context, tenantID, channelID string) (*tenantmodel.Channel, error)

	CreateAuthCode(ctx context.Context, tenantID, guildID, redirectURI string) (*tenantmodel.AuthCode, error)
	ConsumeAuthCode(ctx context.Context, code string) (*tenantmodel.AuthCode, error)
	CreateAccessToken(ctx context.Context, tenantID string) (string, error)

	SendMessage(ctx context.Context, tenantID, channelID string, payload map[string]any) (*tenantmodel.Message, error)
	EditMessage(ctx context.Context, tenantID, messageID string, newPayload map[string]any) (*tenantmodel.Message, error)
	GetMessage(ctx context.Context, tenantID, messageID string) (*tenantmodel.Message, error)
	AddReaction(ctx context.Context, tenantID, channelID, messageID, emoji string) error

	UpsertInteractionResponse(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.InteractionResponse, error)
	AppendFollowup(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.Followup, error)

	BulkOverwriteCommands(ctx context.Context, tenantID, guildID string, payloads []map[string]any) ([]tenantmodel.RegisteredCommand, error)
}

// Clock abstracts "now". No handler in this package reads Server.Now;
// stored timestamps come from the database's now().
type Clock func() time.Time

// Server holds the impersonation surface's dependencies.
type Server struct {
	Store Store
	Now   Clock
}

// New constructs a Server with Now set to time.Now.
func New(store Store) *Server {
	return &Server{Store: store, Now: time.Now}
}
