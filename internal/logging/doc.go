// Package logging constructs the application's slog loggers and provides
// attribute helpers shared across packages.
package logging
