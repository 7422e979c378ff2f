// Package testcontrol implements the Test-Control Surface (spec.md
// §4.4): tenant CRUD, state inspection, reset, auth-code pre-issue,
// signed-interaction delivery, and the browse aggregates that let an
// out-of-scope UI collaborator inspect a running fake.
package testcontrol

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

// Store is the subset of tenantstore.Store the test-control surface
// depends on.
type Store interface {
	CreateTenant(ctx context.Context, in tenantstore.CreateTenantInput) (*tenantmodel.Tenant, error)
	DeleteTenant(ctx context.Context, tenantID string) error
	ResetTenant(ctx context.Context, tenantID string) error
	GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error)
	GetGuild(ctx context.Context, tenantID, guildID string) (*tenantmodel.Guild, error)
	ListTenants(ctx context.Context) ([]tenantmodel.Tenant, error)

	ListMessagesByChannel(ctx context.Context, tenantID, channelID string) ([]tenantmodel.MessageWithHistory, error)
	ListReactions(ctx context.Context, tenantID string) ([]tenantmodel.Reaction, error)
	GetInteractionResponse(ctx context.Context, tenantID, token string) (*tenantmodel.InteractionResponse, error)
	ListFollowups(ctx context.Context, tenantID, token string) ([]tenantmodel.Followup, error)
	ListCommands(ctx context.Context, tenantID, guildID string) ([]tenantmodel.RegisteredCommand, error)
	ListAuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]tenantmodel.AuditLogEntry, int, error)
	DeleteGlobalAuditLogs(ctx context.Context) (int64, error)

	CreateAuthCode(ctx context.Context, tenantID, guildID, redirectURI string) (*tenantmodel.AuthCode, error)
}

// Clock abstracts "now" for the signed-interaction timestamp.
type Clock func() time.Time

// Server holds the test-control surface's dependencies.
type Server struct {
	Store      Store
	HTTPClient *resty.Client
	Now        Clock
}

// New constructs a Server with a dedicated resty client for outbound
// signed-webhook delivery (spec.md §4.5) and Now defaulted to
// time.Now.
func New(store Store) *Server {
	return &Server{
		Store:      store,
		HTTPClient: resty.New().SetTimeout(10 * time.Second),
		Now:        time.Now,
	}
}
