package httpapi

import (
	"net/http"

	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/google/uuid"
)

// CorrelationMiddleware reads X-Correlation-ID header and adds it to context.
// Generates a new correlation ID if the client doesn't provide one; the id is
// forwarded to the gateway and attached to every log line of the request.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		w.Header().Set("X-Correlation-ID", correlationID)

		ctx := client.WithCorrelationID(r.Context(), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
