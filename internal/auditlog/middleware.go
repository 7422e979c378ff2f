// Package auditlog implements the Audit Logger (spec.md §4.6): a
// request/response wrapping middleware that records every HTTP
// round-trip through the impersonation and test-control surfaces.
package auditlog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fakecord/fakecord-api/internal/reqctx"
	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// Store is the subset of tenantstore.Store the audit middleware needs.
type Store interface {
	InsertAuditLog(ctx context.Context, entry tenantmodel.AuditLogEntry) error
}

// responseRecorder buffers the response body and status alongside
// writing through to the real ResponseWriter, so the audit entry can
// be built after the handler returns without delaying the response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// Middleware returns a chi-compatible middleware that audits every
// request through store, excluding paths ending in "/audit-logs" (the
// self-exclusion rule of spec.md §4.6 — without it, polling the log
// browser would itself grow the log).
func Middleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/audit-logs") {
				next.ServeHTTP(w, r)
				return
			}

			var requestBody *string
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				if b, err := io.ReadAll(r.Body); err == nil {
					s := string(b)
					requestBody = &s
					r.Body = io.NopCloser(bytes.NewReader(b))
				}
			}

			ctx, holder := reqctx.WithTenantHolder(r.Context())
			r = r.WithContext(ctx)

			rr := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rr, r)

			var tenantID *string
			if id, ok := holder.Get(); ok {
				tenantID = &id
			}
			responseBody := rr.body.String()

			status := rr.status
			if status == 0 {
				status = http.StatusOK
			}

			entry := tenantmodel.AuditLogEntry{
				TenantID:       tenantID,
				Method:         r.Method,
				URL:            r.URL.String(),
				RequestBody:    requestBody,
				ResponseStatus: status,
				ResponseBody:   &responseBody,
			}
			if err := store.InsertAuditLog(r.Context(), entry); err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("audit log insert failed")
			}
		})
	}
}
