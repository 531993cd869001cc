// Package info serves the operational endpoints of the local emulator:
// liveness and readiness probes, build metadata, the OpenAPI document of the
// assembled routes and an HTML viewer for it.
//
// See ExampleInfoHandler_Register for the wiring used by the emulator.
package info
