package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out
}

func TestPrettyJSONHandler(t *testing.T) {
	t.Run("writes indented record", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyJSONHandler(&buf, nil))
		log.Info("game over", "score", 3, "err", errors.New("crashed"))

		assert.Contains(t, buf.String(), "\n  \"msg\"")
		out := decode(t, &buf)
		assert.Equal(t, "game over", out["msg"])
		assert.Equal(t, "INFO", out["level"])
		assert.EqualValues(t, 3, out["score"])
		assert.Equal(t, "crashed", out["err"])
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
		log.Info("ignored")
		assert.Zero(t, buf.Len())
	})

	t.Run("groups and attrs nest", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(NewPrettyJSONHandler(&buf, nil)).With("session", "a").WithGroup("tick").With("turn", 4)
		log.Info("moved", "head", "(5,5)")

		out := decode(t, &buf)
		assert.Equal(t, "a", out["session"])
		tick, ok := out["tick"].(map[string]any)
		require.True(t, ok, "tick group missing: %v", out)
		assert.EqualValues(t, 4, tick["turn"])
		assert.Equal(t, "(5,5)", tick["head"])
	})
}

func TestNew(t *testing.T) {
	for _, f := range []Format{FormatPretty, FormatJSON, FormatText, ""} {
		var buf bytes.Buffer
		log, err := New(&buf, slog.LevelDebug, f)
		require.NoError(t, err)
		log.Debug("hello")
		assert.Contains(t, buf.String(), "hello", "format %q", f)
	}

	_, err := New(&bytes.Buffer{}, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snek.log")
	w, err := OpenFile(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("x\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	discard, err := OpenFile("")
	require.NoError(t, err)
	assert.NoError(t, discard.Close())
}
