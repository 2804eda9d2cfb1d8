// Package logging provides the structured logging interface used by the
// validator, backed by zerolog.
package logging
