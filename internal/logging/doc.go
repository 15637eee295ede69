// Package logging provides the structured-logging conventions for this
// module.
//
// Loggers are dependency-injected, never global: a component receives its
// logger at construction, scopes it once with slog.With, and falls back to a
// discard logger when none is provided. Output format, level and destination
// belong to the embedding engine.
//
// Logging is intentionally sparse. Plan construction is the lifecycle
// boundary and the only log point; per-token and per-query paths never log.
package logging
