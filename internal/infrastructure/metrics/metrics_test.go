package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSweep(t *testing.T) {
	beforeExpired := testutil.ToFloat64(MomentsExpiredTotal)
	beforeOK := testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("ok"))
	beforeEmpty := testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("empty"))
	beforeErr := testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("error"))

	RecordSweep(3, 0.02, nil)
	RecordSweep(0, 0.01, nil)
	RecordSweep(0, 0.01, errors.New("boom"))

	assert.Equal(t, beforeExpired+3, testutil.ToFloat64(MomentsExpiredTotal))
	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("ok")))
	assert.Equal(t, beforeEmpty+1, testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("empty")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(ExpirySweepsTotal.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/moments/feed", "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/moments/feed",status="200"}`)
	assert.Contains(t, rec.Body.String(), "moments_expired_total")
}
