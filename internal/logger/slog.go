package logger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rs/zerolog"
)

// Slog returns a *slog.Logger that forwards records to logger, so library
// code taking a slog logger shares the CLI's output and level.
func Slog(logger zerolog.Logger) *slog.Logger {
	return slog.New(&zerologHandler{logger: logger})
}

// boundAttr is an attribute added through WithAttrs, keeping the group
// prefix that was open at the time.
type boundAttr struct {
	prefix string
	attr   slog.Attr
}

type zerologHandler struct {
	logger zerolog.Logger
	attrs  []boundAttr
	group  string
}

func (h *zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return toZerologLevel(level) >= h.logger.GetLevel()
}

func (h *zerologHandler) Handle(_ context.Context, rec slog.Record) error {
	event := h.logger.WithLevel(toZerologLevel(rec.Level))
	if event == nil {
		return nil
	}

	for _, b := range h.attrs {
		event = addAttr(event, b.prefix, b.attr)
	}
	rec.Attrs(func(a slog.Attr) bool {
		event = addAttr(event, h.group, a)
		return true
	})

	event.Msg(rec.Message)

	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	bound := slices.Clone(h.attrs)
	for _, a := range attrs {
		bound = append(bound, boundAttr{prefix: h.group, attr: a})
	}

	return &zerologHandler{logger: h.logger, attrs: bound, group: h.group}
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &zerologHandler{logger: h.logger, attrs: h.attrs, group: joinKey(h.group, name)}
}

// addAttr writes a onto event under prefix. Empty attributes are dropped,
// groups are flattened into dotted keys and groups with an empty key are
// inlined.
func addAttr(event *zerolog.Event, prefix string, a slog.Attr) *zerolog.Event {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		if len(group) == 0 {
			return event
		}

		sub := prefix
		if a.Key != "" {
			sub = joinKey(prefix, a.Key)
		}
		for _, ga := range group {
			event = addAttr(event, sub, ga)
		}

		return event
	}

	if a.Key == "" {
		return event
	}

	key := joinKey(prefix, a.Key)

	switch v.Kind() {
	case slog.KindString:
		return event.Str(key, v.String())
	case slog.KindInt64:
		return event.Int64(key, v.Int64())
	case slog.KindUint64:
		return event.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, v.Float64())
	case slog.KindBool:
		return event.Bool(key, v.Bool())
	case slog.KindDuration:
		return event.Dur(key, v.Duration())
	case slog.KindTime:
		return event.Time(key, v.Time())
	default:
		if err, ok := v.Any().(error); ok {
			return event.AnErr(key, err)
		}

		return event.Interface(key, v.Any())
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
