package responder_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/drblury/fnweaver/responder"
)

func ExampleResponder_HandleErrors() {
	errUnknownFunction := errors.New("function not exported by group")
	r := responder.NewResponder(
		responder.WithErrorClassifier(func(err error) (int, bool) {
			if errors.Is(err, errUnknownFunction) {
				return http.StatusNotFound, true
			}
			return 0, false
		}),
	)

	exported := map[string]bool{"onCreate": true}
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimPrefix(req.URL.Path, "/")
		if !exported[name] {
			r.HandleErrors(w, req, fmt.Errorf("%s: %w", name, errUnknownFunction))
			return
		}
		r.RespondWithJSON(w, req, http.StatusOK, map[string]string{"triggered": name})
	})

	okRec := httptest.NewRecorder()
	handler.ServeHTTP(okRec, httptest.NewRequest(http.MethodPost, "/onCreate", nil))
	fmt.Println(okRec.Code)
	fmt.Println(strings.TrimSpace(okRec.Body.String()))

	missingRec := httptest.NewRecorder()
	handler.ServeHTTP(missingRec, httptest.NewRequest(http.MethodPost, "/onDelete", nil))

	var problem responder.ProblemDetails
	_ = json.Unmarshal(missingRec.Body.Bytes(), &problem)
	fmt.Println(problem.Status)
	fmt.Println(problem.Title)

	// Output:
	// 200
	// {"triggered":"onCreate"}
	// 404
	// Not Found
}

func ExampleWithStatusMetadata() {
	r := responder.NewResponder(
		responder.WithStatusMetadata(http.StatusMethodNotAllowed, responder.StatusMetadata{
			Title:   "Wrong verb",
			LogMsg:  "endpoint called with unsupported method",
			TypeURI: "https://status.example.com/method",
		}),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/list", nil)
	r.HandleMethodNotAllowedError(rec, req, errors.New("DELETE is not allowed on /list"))

	fmt.Println(rec.Code)
	fmt.Println(strings.Contains(rec.Body.String(), "\"title\":\"Wrong verb\""))

	// Output:
	// 405
	// true
}
