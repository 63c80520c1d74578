// Package requestid assigns a request ID to every incoming request so logs,
// audit events, and responses can be correlated.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"authscript/pkg/requestcontext"
)

// Header is the response header carrying the assigned request ID.
const Header = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID when present (trusted ingress)
// and generates a UUID otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
