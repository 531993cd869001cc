package emulator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/drblury/fnweaver/export"
)

// TriggerResult reports a completed background invocation.
type TriggerResult struct {
	Group    string `json:"group"`
	Function string `json:"function"`
	Duration string `json:"duration"`
}

// Trigger invokes the background function name of group with payload. The
// function must have the signature func(context.Context, []byte) error or
// func(context.Context) error. A panic in the function is returned as an
// error.
func (s *Server) Trigger(ctx context.Context, group, name string, payload []byte) (err error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return ErrNotReady
	}

	bucket, ok := snap.Exports[group]
	if !ok || name == export.EntryPointKey {
		return fmt.Errorf("%w: %q in group %q", ErrFunctionNotFound, name, group)
	}
	fn, ok := bucket[name]
	if !ok {
		return fmt.Errorf("%w: %q in group %q", ErrFunctionNotFound, name, group)
	}

	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("emulator: function %q panicked: %v", name, v)
		}
	}()

	switch f := fn.(type) {
	case func(context.Context, []byte) error:
		return f(ctx, payload)
	case func(context.Context) error:
		return f(ctx)
	default:
		return fmt.Errorf("%w: %q is %T", ErrUnsupportedSignature, name, fn)
	}
}

func (s *Server) postTrigger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, name := vars["group"], vars["name"]

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxPayload))
	if err != nil {
		s.responder.HandleErrors(w, r, err, "failed to read trigger payload")
		return
	}

	start := time.Now()
	if err := s.Trigger(r.Context(), group, name, payload); err != nil {
		s.responder.HandleErrors(w, r, err, "background function failed")
		return
	}

	elapsed := time.Since(start)
	s.logger.Info("Triggered function", "group", group, "name", name, "bytes", len(payload), "duration", elapsed)
	s.responder.RespondWithJSON(w, r, http.StatusOK, TriggerResult{
		Group:    group,
		Function: name,
		Duration: elapsed.String(),
	})
}
