package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision(true, "role_grant", time.Millisecond)
	m.ObserveDecision(false, "direct_deny", time.Millisecond)
	m.ObserveDecision(false, "direct_deny", time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `tillgate_authz_decisions_total{outcome="allow",reason="role_grant"} 1`)
	assert.Contains(t, body, `tillgate_authz_decisions_total{outcome="deny",reason="direct_deny"} 2`)
	assert.Contains(t, body, "tillgate_authz_decision_duration_seconds_count 3")
}

func TestRequestLifecycle(t *testing.T) {
	m := New()

	m.RequestStarted()
	assert.Contains(t, scrape(t, m), "tillgate_http_in_flight_requests 1")

	m.RequestFinished(http.MethodGet, "/roles", http.StatusOK, 5*time.Millisecond)
	body := scrape(t, m)
	assert.Contains(t, body, "tillgate_http_in_flight_requests 0")
	assert.Contains(t, body, `tillgate_http_requests_total{method="GET",path="/roles",status="200"} 1`)
}

func TestAuditWriteFailed(t *testing.T) {
	m := New()
	m.AuditWriteFailed()

	assert.Contains(t, scrape(t, m), "tillgate_audit_write_failures_total 1")
}

func TestRateLimited(t *testing.T) {
	m := New()
	m.RateLimited("login")
	m.RateLimited("login")

	assert.Contains(t, scrape(t, m), `tillgate_rate_limited_requests_total{rule="login"} 2`)
}
