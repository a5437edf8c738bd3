package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"trace", zerolog.TraceLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ctx := AddLoggerToContext(context.Background(), New(&buf, "info"))

	FromContext(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestFromContextFallback(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestSlogBridge(t *testing.T) {
	var buf bytes.Buffer
	log := Slog(zerolog.New(&buf).Level(zerolog.DebugLevel))

	log.With("platform", "linux").Debug("strategy skipped", "strategy", "PlatformProductUUID", "count", 2)
	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"platform":"linux"`)
	assert.Contains(t, out, `"strategy":"PlatformProductUUID"`)
	assert.Contains(t, out, `"count":2`)
	assert.Contains(t, out, `"message":"strategy skipped"`)

	buf.Reset()
	log.WithGroup("query").Warn("failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), `"query.error":"boom"`)
}

func TestSlogBridgeRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Slog(zerolog.New(&buf).Level(zerolog.WarnLevel))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogBridgeAttrKinds(t *testing.T) {
	var buf bytes.Buffer
	log := Slog(zerolog.New(&buf).Level(zerolog.DebugLevel))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	log.Info("attrs",
		slog.Uint64("uint", 7),
		slog.Float64("ratio", 1.5),
		slog.Time("at", at),
		slog.Duration("took", 2*time.Millisecond),
	)

	out := buf.String()
	assert.Contains(t, out, `"uint":7`)
	assert.Contains(t, out, `"ratio":1.5`)
	assert.Contains(t, out, `"at":"2024-01-02T03:04:05Z"`)
	assert.Contains(t, out, `"took":2`)
}

func TestSlogBridgeGroupsAndEmptyKeys(t *testing.T) {
	tests := []struct {
		name    string
		log     func(*slog.Logger)
		want    []string
		notWant []string
	}{
		{
			name: "empty key dropped",
			log: func(l *slog.Logger) {
				l.Info("m", slog.String("", "ghost"), slog.String("kept", "yes"))
			},
			want:    []string{`"kept":"yes"`},
			notWant: []string{"ghost"},
		},
		{
			name: "group flattened",
			log: func(l *slog.Logger) {
				l.Info("m", slog.Group("query", slog.String("command", "wmic"), slog.Int("lines", 2)))
			},
			want: []string{`"query.command":"wmic"`, `"query.lines":2`},
		},
		{
			name: "empty group key inlined",
			log: func(l *slog.Logger) {
				l.Info("m", slog.Group("", slog.String("strategy", "mac")))
			},
			want: []string{`"strategy":"mac"`},
		},
		{
			name: "empty group dropped",
			log: func(l *slog.Logger) {
				l.Info("m", slog.Group("nothing"))
			},
			notWant: []string{"nothing"},
		},
		{
			name: "attrs keep the group open when added",
			log: func(l *slog.Logger) {
				l.With("platform", "linux").WithGroup("attempt").Info("m", "strategy", "mac")
			},
			want:    []string{`"platform":"linux"`, `"attempt.strategy":"mac"`},
			notWant: []string{"attempt.platform"},
		},
		{
			name: "nested groups",
			log: func(l *slog.Logger) {
				l.WithGroup("a").WithGroup("b").Info("m", slog.Group("c", slog.Bool("d", true)))
			},
			want: []string{`"a.b.c.d":true`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Slog(zerolog.New(&buf)))

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}
