package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/health-registry/pkg/ctxutil"
	"github.com/stretchr/testify/require"
)

type routes interface {
	RegisterRoutes(mux *http.ServeMux)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// serve posts body to path through a mux carrying h's routes.
func serve(t *testing.T, h routes, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serveCtx(t, context.Background(), h, path, body)
}

func serveAs(t *testing.T, userUUID string, h routes, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serveCtx(t, ctxutil.WithUserUUID(context.Background(), userUUID), h, path, body)
}

func serveCtx(t *testing.T, ctx context.Context, h routes, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// firstError returns the code and message of the first error in the envelope.
func firstError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Errors)
	return out.Errors[0].Code, out.Errors[0].Message
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
