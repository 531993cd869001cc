// Package responder renders JSON payloads and RFC 9457 problem documents with
// ULID trace identifiers, logging each failure through slog.
package responder
