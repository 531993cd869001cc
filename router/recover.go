package router

import (
	"fmt"
	"net/http"

	"github.com/drblury/fnweaver/responder"
)

// Recover turns a panicking handler into a 500 problem document rendered by
// resp. http.ErrAbortHandler is re-raised so the server aborts the response
// as the handler asked.
func Recover(resp *responder.Responder) Middleware {
	if resp == nil {
		resp = responder.NewResponder()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				resp.HandleInternalServerError(w, r, fmt.Errorf("panic: %v", v), "handler panicked")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
