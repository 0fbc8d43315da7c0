package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"charterline/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var (
		gotID   string
		gotTime time.Time
	)
	h := middleware.RequestID(Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID = requestcontext.RequestID(r.Context())
		gotTime = requestcontext.Now(r.Context())
	})))

	before := time.Now().UTC()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, gotID)
	assert.False(t, gotTime.Before(before))
	assert.Equal(t, time.UTC, gotTime.Location())
}
