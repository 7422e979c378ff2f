package reqctx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const correlationIDKey contextKey = "correlationId"

// CorrelationMiddleware reads X-Correlation-ID and attaches it both to
// the response and to a zerolog logger installed on the request
// context, generating a fresh id when the caller didn't send one.
// Downstream code that logs via log.Ctx(ctx) instead of the package
// logger picks up the correlation id automatically, enabling
// end-to-end tracing across a single request's log lines.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		w.Header().Set("X-Correlation-ID", correlationID)

		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		logger := log.With().Str("correlation_id", correlationID).Logger()
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCorrelationID retrieves the correlation id stashed on ctx by
// CorrelationMiddleware, or "" if none was ever attached.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
