package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrettyHandlerNoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &Options{Level: slog.LevelDebug, NoColor: true}))

	log.With("component", "gateway").WithGroup("req").Info("sent", "status", 200)

	line := buf.String()
	require.NotContains(t, line, "\033[")
	require.Contains(t, line, "INFO  sent")
	require.Contains(t, line, "component=gateway")
	require.Contains(t, line, " req.status=200")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestPrettyHandlerLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &Options{Level: slog.LevelWarn}))

	log.Info("hidden")
	require.Empty(t, buf.String())

	log.Error("shown")
	require.Contains(t, buf.String(), red)
	require.Contains(t, buf.String(), "shown")
}
