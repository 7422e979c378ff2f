// Package reqctx carries the one piece of request-scoped mutable state
// shared between handlers and the audit-logging middleware: the tenant
// a request resolved to. The audit middleware installs an empty holder
// on the request context before invoking the handler chain; a handler
// that resolves a tenant writes its id into the holder; the middleware
// reads it back once the handler returns (spec.md §4.6, §9 — "model as
// a context object passed down, not as process-wide state").
package reqctx

import "context"

type contextKey string

const tenantHolderKey contextKey = "tenantIDHolder"

// TenantHolder is the mutable cell installed on the request context.
// A plain string value in context.Context would be invisible to a
// middleware that wraps the handler by value, since WithValue returns
// a new, unrelated context — so resolution state is carried as a
// pointer the handler mutates in place instead.
type TenantHolder struct {
	tenantID string
}

// Set records the resolved tenant id. A later call overwrites the
// earlier value.
func (h *TenantHolder) Set(tenantID string) {
	h.tenantID = tenantID
}

// Get returns the resolved tenant id and whether one was ever set.
func (h *TenantHolder) Get() (string, bool) {
	return h.tenantID, h.tenantID != ""
}

// WithTenantHolder installs a fresh holder on ctx, returning the new
// context and the holder handlers should write into.
func WithTenantHolder(ctx context.Context) (context.Context, *TenantHolder) {
	h := &TenantHolder{}
	return context.WithValue(ctx, tenantHolderKey, h), h
}

// SetTenantID writes the resolved tenant id into the holder installed
// on ctx, if any. A context with no holder (e.g. in a unit test that
// invokes a handler directly) is a silent no-op.
func SetTenantID(ctx context.Context, tenantID string) {
	if h, ok := ctx.Value(tenantHolderKey).(*TenantHolder); ok {
		h.Set(tenantID)
	}
}
