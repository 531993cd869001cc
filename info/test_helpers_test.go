package info

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/drblury/fnweaver/jsonutil"
	"github.com/drblury/fnweaver/responder"
)

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	if err := jsonutil.Unmarshal(body, &v); err != nil {
		t.Fatalf("failed to decode %T: %v (body: %s)", v, err, string(body))
	}
	return v
}

func decodeProbePayload(t *testing.T, body []byte) probePayload {
	t.Helper()
	return decodeJSON[probePayload](t, body)
}

func decodeProblemDetails(t *testing.T, body []byte) responder.ProblemDetails {
	t.Helper()
	return decodeJSON[responder.ProblemDetails](t, body)
}

// serveRegistered mounts ih on a fresh router and serves one GET request.
func serveRegistered(ih *InfoHandler, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	ih.Register(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}
