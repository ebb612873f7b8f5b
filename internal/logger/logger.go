// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the zerolog logger shared by the CLI, the fetch
// layer and the validation service.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/beacon-query/pkg/types"
)

type ctxKey string

const ctxReqIDKey ctxKey = "request_id"

// ParseLevel maps a configured level name to a zerolog level. Unknown
// names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Build returns a logger writing to out (stderr when nil). The level is
// applied to the returned logger only, so tests can build several.
func Build(cfg types.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.MessageFieldName = "msg"

	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("component", "beacon-query").
		Logger()
}

// WithRequestID stores a request id on ctx.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, ctxReqIDKey, reqID)
}

// RequestID returns the request id stored on ctx, or "".
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxReqIDKey).(string)
	return s
}

// FromContext returns a child of parent carrying the request id of ctx.
func FromContext(ctx context.Context, parent zerolog.Logger) zerolog.Logger {
	if id := RequestID(ctx); id != "" {
		return parent.With().Str("request_id", id).Logger()
	}
	return parent
}
