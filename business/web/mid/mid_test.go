package mid_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/metrics"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ledger struct{}

func (ledger) QueryChainLength() uint64 { return 1 }
func (ledger) QueryMempoolLength() int  { return 0 }

func newApp(m *metrics.Metrics) *web.App {
	log := zap.NewNop().Sugar()

	return web.NewApp(
		make(chan os.Signal, 1),
		mid.Logger(log),
		mid.Errors(log),
		mid.Metrics(m),
		mid.Cors("*"),
		mid.Panics(m),
	)
}

func TestErrorsTrusted(t *testing.T) {
	m := metrics.New(ledger{})
	app := newApp(m)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		fields := map[string]string{"amount": "amount is a required field"}
		return errs.NewTrustedFields(errors.New("missing fields: amount"), http.StatusBadRequest, fields)
	}
	app.Handle(http.MethodPost, "v1", "/tx", h)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tx", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"missing fields: amount","fields":{"amount":"amount is a required field"}}`, w.Body.String())
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorsUntrustedHidesMessage(t *testing.T) {
	m := metrics.New(ledger{})
	app := newApp(m)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("database detail that should not leak")
	}
	app.Handle(http.MethodGet, "", "/boom", h)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestPanicsRecovered(t *testing.T) {
	m := metrics.New(ledger{})
	app := newApp(m)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("mining went sideways")
	}
	app.Handle(http.MethodGet, "", "/panic", h)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range mfs {
		if len(mf.GetMetric()) == 1 && mf.GetMetric()[0].GetCounter() != nil {
			counts[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(1), counts["powledger_http_panics_total"])
	require.Equal(t, float64(1), counts["powledger_http_errors_total"])
	require.Equal(t, float64(1), counts["powledger_http_requests_total"])
}

func TestCorsListedOrigins(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Cors("https://ledger.example.com"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
	app.Handle(http.MethodGet, "v1", "/ping", h)

	r := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	r.Header.Set("Origin", "https://ledger.example.com")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)
	require.Equal(t, "https://ledger.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	r.Header.Set("Origin", "https://other.example.com")
	w = httptest.NewRecorder()
	app.ServeHTTP(w, r)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
