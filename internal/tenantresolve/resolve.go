// Package tenantresolve implements the Tenant Resolver (spec.md §4.2):
// pure functions mapping an inbound request's credentials to a tenant.
// None of them authorize the request — callers compare the resolved
// tenant against request context themselves (e.g. cross-checking a
// path client_id against the resolved tenant's client_id).
package tenantresolve

import (
	"context"
	"net/http"
	"strings"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
	"github.com/fakecord/fakecord-api/internal/tenantstore"
)

// Store is the subset of tenantstore.Store the resolver needs.
type Store interface {
	GetTenantByBotToken(ctx context.Context, botToken string) (*tenantmodel.Tenant, error)
	GetTenantByAccessToken(ctx context.Context, token string) (*tenantmodel.Tenant, error)
	GetTenantByClientID(ctx context.Context, clientID string) (*tenantmodel.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error)
}

// ByBotToken parses "Authorization: Bot <token>" and resolves the
// owning tenant. Returns nil (no error) when the header is missing,
// malformed, or names no tenant — the caller maps that to 401.
func ByBotToken(ctx context.Context, store Store, r *http.Request) (*tenantmodel.Tenant, error) {
	token, ok := parseScheme(r.Header.Get("Authorization"), "Bot")
	if !ok {
		return nil, nil
	}
	t, err := store.GetTenantByBotToken(ctx, token)
	if err == tenantstore.ErrNotFound {
		return nil, nil
	}
	return t, err
}

// ByBearerToken parses "Authorization: Bearer <token>" and resolves
// the tenant via the access_tokens join.
func ByBearerToken(ctx context.Context, store Store, r *http.Request) (*tenantmodel.Tenant, error) {
	token, ok := parseScheme(r.Header.Get("Authorization"), "Bearer")
	if !ok {
		return nil, nil
	}
	t, err := store.GetTenantByAccessToken(ctx, token)
	if err == tenantstore.ErrNotFound {
		return nil, nil
	}
	return t, err
}

// ByClientID resolves a tenant from a client id taken from a query,
// form, or path parameter — the caller extracts clientID however its
// framework does (query/form/path) and passes it in here.
func ByClientID(ctx context.Context, store Store, clientID string) (*tenantmodel.Tenant, error) {
	if clientID == "" {
		return nil, nil
	}
	t, err := store.GetTenantByClientID(ctx, clientID)
	if err == tenantstore.ErrNotFound {
		return nil, nil
	}
	return t, err
}

// ByTenantID resolves a tenant from its path-parameter id, used by the
// test-control surface.
func ByTenantID(ctx context.Context, store Store, tenantID string) (*tenantmodel.Tenant, error) {
	if tenantID == "" {
		return nil, nil
	}
	t, err := store.GetTenantByID(ctx, tenantID)
	if err == tenantstore.ErrNotFound {
		return nil, nil
	}
	return t, err
}

// parseScheme extracts the credential from an "Authorization: <scheme>
// <value>" header, matching scheme case-sensitively as Discord does.
func parseScheme(header, scheme string) (string, bool) {
	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	value := strings.TrimPrefix(header, prefix)
	if value == "" {
		return "", false
	}
	return value, true
}
