package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/stretchr/testify/require"
)

func TestHandleRunsMiddlewareInOrder(t *testing.T) {
	var order []string
	mark := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(make(chan os.Signal, 1), mark("app1"), mark("app2"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, v.TraceID)

		resp := struct {
			ID string `json:"id"`
		}{
			ID: web.Param(r, "id"),
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/items/:id", h, mark("route"))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/items/42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":"42"}`, w.Body.String())
	require.Equal(t, []string{"app1", "app2", "route"}, order)
}

func TestShutdownErrorSignalsApp(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	select {
	case <-shutdown:
	default:
		t.Fatal("expected a shutdown signal")
	}

	require.True(t, web.IsShutdown(errors.Join(errors.New("outer"), web.NewShutdownError("inner"))))
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender":"alice","extra":true}`))

	var body struct {
		Sender string `json:"sender"`
	}
	require.NoError(t, web.Decode(r, &body))
	require.Equal(t, "alice", body.Sender)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender":`))
	require.Error(t, web.Decode(r, &body))
}

func TestGetValuesWithoutApp(t *testing.T) {
	_, err := web.GetValues(context.Background())
	require.True(t, web.IsShutdown(err))
	require.Equal(t, "00000000-0000-0000-0000-000000000000", web.GetTraceID(context.Background()))
}
