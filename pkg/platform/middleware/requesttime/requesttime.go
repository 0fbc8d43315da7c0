// Package requesttime provides middleware that pins a single "now" for the
// whole request, so lifecycle timestamps written by one call agree.
package requesttime

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"charterline/pkg/requestcontext"
)

// Middleware captures the current time and the chi request ID at the start
// of the request and stores them in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
