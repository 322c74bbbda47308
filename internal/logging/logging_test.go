package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		out = append(out, line)
	}
	return out
}

func TestNewAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, flush := New(Options{Level: "info", Output: &buf})
	defer flush()

	ctx := WithRequestID(context.Background(), "req-42")
	log.InfoContext(ctx, "handled", slog.Int("status", 200))
	log.Info("no request")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-42", lines[0]["request_id"])
	assert.Equal(t, "handled", lines[0]["msg"])
	assert.NotContains(t, lines[1], "request_id")
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New(Options{Level: "warn", Output: &buf})

	log.Info("dropped")
	log.Warn("kept")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseLevel(raw), "level %q", raw)
	}
}

func TestFanoutHandlerRespectsEachLevel(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	handler := newFanoutHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(handler).With(slog.String("component", "test"))

	log.Info("info line")
	log.Error("error line")

	infoLines := decodeLines(t, &infoBuf)
	errLines := decodeLines(t, &errBuf)
	assert.Len(t, infoLines, 2)
	require.Len(t, errLines, 1)
	assert.Equal(t, "error line", errLines[0]["msg"])
	assert.Equal(t, "test", errLines[0]["component"])
}
