// Package log provides the logging port used by trackship components.
//
// Components never import a logging library directly. They log through the
// Logger interface, which has a zerolog-backed implementation for the CLI and
// a no-op implementation used when the embedding application does not supply
// a logger.
//
// # Usage
//
//	logger := log.NewZerologAdapter(zerolog.InfoLevel)
//	logger.Info("batch sent", log.Int("events", 12))
//
// Wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Discard everything:
//
//	logger := log.NewNoopLogger()
package log
