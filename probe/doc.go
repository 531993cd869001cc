// Package probe builds the liveness and readiness checks served by the local
// emulator. NewPingProbe wraps any check function, NewHandlerProbe exercises
// an assembled entry point in-process, and NewURLProbe calls a dependency the
// functions rely on.
package probe
