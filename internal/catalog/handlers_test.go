package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/engineers-ent/backend-nirman/internal/obs"
)

func TestQuoteEndpointCountsRequests(t *testing.T) {
	obs.MustRegisterDomainMetrics("nirman", prometheus.NewRegistry())
	okBefore := testutil.ToFloat64(obs.QuoteRequestsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(obs.QuoteRequestsTotal.WithLabelValues("error"))

	svc, err := NewService(ServiceConfig{Store: newFakeStore(testPillar())})
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Get("/products/{productId}/quote", (&Handler{Svc: svc}).Quote)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/p1/quote?topId=t1&bottomId=b1&feet=10", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/missing/quote", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	require.Equal(t, okBefore+1, testutil.ToFloat64(obs.QuoteRequestsTotal.WithLabelValues("ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(obs.QuoteRequestsTotal.WithLabelValues("error")))
}
