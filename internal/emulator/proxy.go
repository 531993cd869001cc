package emulator

import (
	"fmt"
	"net/http"
	"strings"
)

// proxy hands the request to the entry point of the group named by the
// first path segment, with that segment stripped. Requests for unknown
// groups fall back to the empty group's entry point unchanged.
func (s *Server) proxy(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Load()
	if snap == nil {
		s.responder.HandleErrors(w, r, ErrNotReady)
		return
	}

	group, rest := splitGroup(r.URL.Path)
	if group != "" {
		if entry, ok := snap.Exports.EntryPoint(group); ok {
			entry.ServeHTTP(w, withPath(r, rest))
			return
		}
	}
	if entry, ok := snap.Exports.EntryPoint(""); ok {
		entry.ServeHTTP(w, r)
		return
	}

	s.responder.HandleNotFoundError(w, r, fmt.Errorf("no entry point serves %s", r.URL.Path))
}

// splitGroup splits "/orders/list" into "orders" and "/list".
func splitGroup(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/")
	group, rest, found := strings.Cut(trimmed, "/")
	if !found {
		return group, "/"
	}
	return group, "/" + rest
}

func withPath(r *http.Request, path string) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""
	r2.RequestURI = path
	if r.URL.RawQuery != "" {
		r2.RequestURI += "?" + r.URL.RawQuery
	}
	return r2
}
