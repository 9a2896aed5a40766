package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTextLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(FormatText, level, &buf)
	require.NoError(t, err)
	return l, &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTextLogger(t, "debug")
	ctx := context.Background()

	log.Debug(ctx, "refresh", "entries", 3)
	log.Info(ctx, "signed in", "user_id", "u-1")
	log.Warn(ctx, "refetch failed", "op", "add")
	log.Error(ctx, "import aborted", "created", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", `msg=refresh`, "entries=3"},
		{"INFO", `msg="signed in"`, "user_id=u-1"},
		{"WARN", `msg="refetch failed"`, "op=add"},
		{"ERROR", `msg="import aborted"`, "created=2"},
	}
	for i, tc := range tests {
		assert.Contains(t, lines[i], "level="+tc.level)
		assert.Contains(t, lines[i], tc.msg)
		assert.Contains(t, lines[i], tc.attr)
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	log, buf := newTextLogger(t, "warn")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTextLogger(t, "info")

	child := log.With("request_id", "r-1")
	child.Info(context.Background(), "request", "status", 201)
	log.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "request_id=r-1")
	assert.Contains(t, lines[0], "status=201")
	assert.NotContains(t, lines[1], "request_id")
}

func TestNew_TextRejectsBadLevel(t *testing.T) {
	_, err := New(FormatText, "loud", &bytes.Buffer{})
	require.Error(t, err)
}
