package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(bookingCreated.WithLabelValues("ok"))
	IncBookingCreated("ok")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCreated.WithLabelValues("ok")))

	before = testutil.ToFloat64(sessions.WithLabelValues("revoked"))
	IncSessions("revoked", 3)
	IncSessions("revoked", 0)
	assert.Equal(t, before+3, testutil.ToFloat64(sessions.WithLabelValues("revoked")))

	before = testutil.ToFloat64(verifications.WithLabelValues("expired"))
	IncVerification("expired")
	assert.Equal(t, before+1, testutil.ToFloat64(verifications.WithLabelValues("expired")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	Register()
	IncSignup("ok")
	IncCodeSent("ok")
	ObserveRequest("GET", "/health", "200", 0.01)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "leadsvc_signups_total")
	assert.Contains(t, string(body), "leadsvc_http_request_duration_seconds")
}
