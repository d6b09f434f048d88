package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetOutputWithLevel(&buf, LevelDebug, false)

	l := Logger("core/test")
	l.Debug("hello", "k", 1)

	out := buf.String()
	assert.Contains(t, out, "component=core/test")
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=1")
	assert.Equal(t, "core/test", l.Component())
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateID("abcdefghijk", 8))
}
