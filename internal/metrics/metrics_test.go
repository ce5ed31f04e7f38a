package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	rec := NewRecorder()

	router := mux.NewRouter()
	router.Use(rec.Middleware)
	router.HandleFunc("/hyphenate/{lang}/{word}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	for _, word := range []string{"alpha", "beta"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/hyphenate/en-us/"+word, nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.requests.WithLabelValues("GET", "/hyphenate/{lang}/{word}", "200")))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.responseBytes.WithLabelValues("/hyphenate/{lang}/{word}")))
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	rec := NewRecorder()

	router := mux.NewRouter()
	router.Use(rec.Middleware)
	router.HandleFunc("/wrap", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}).Methods("POST")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/wrap", strings.NewReader("{}")))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues("POST", "/wrap", "400")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.requestBytes.WithLabelValues("/wrap")))
}

func TestDomainCounters(t *testing.T) {
	rec := NewRecorder()

	rec.RecordWrap(3)
	rec.RecordWrap(2)
	rec.RecordHyphenation("en-us")
	rec.RecordCorpusLoad("en-us", nil)
	rec.RecordCorpusLoad("fr", errors.New("unsupported"))

	assert.Equal(t, 5.0, testutil.ToFloat64(rec.wrappedLines))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.hyphenations.WithLabelValues("en-us")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.corpusLoads.WithLabelValues("fr", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.RecordWrap(1)

	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "textwrap_wrapped_lines_total 1")
}
