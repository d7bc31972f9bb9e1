package slogpretty_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/linemk/impnet/internal/lib/logger/handlers/slogpretty"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler_WritesMessageAndAttrs(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	opts := slogpretty.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("op", "session.Login"))

	log.Info("user logged in", slog.String("email", "admin@impnet.ru"))

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "user logged in")
	assert.Contains(t, out, `"op": "session.Login"`)
	assert.Contains(t, out, `"email": "admin@impnet.ru"`)
}
