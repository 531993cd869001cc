package responder

import (
	mathrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TraceIDHeader carries the trace id of a problem response. A request that
// already has a valid ULID in this header keeps it, so a failing call can be
// followed through an entry point and the emulator in front of it.
const TraceIDHeader = "X-Trace-Id"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

func newTraceID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}

func traceIDFor(req *http.Request) string {
	if req != nil {
		if incoming := req.Header.Get(TraceIDHeader); incoming != "" {
			if id, err := ulid.ParseStrict(incoming); err == nil {
				return id.String()
			}
		}
	}
	return newTraceID()
}
