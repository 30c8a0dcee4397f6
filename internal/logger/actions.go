package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/sethvargo/go-githubactions"
)

// ActionsHandler writes records as GitHub Actions workflow commands.
// Info records are written as plain lines.
type ActionsHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	action *githubactions.Action
	attrs  []slog.Attr
}

func NewActionsHandler(w io.Writer, opts *slog.HandlerOptions) *ActionsHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ActionsHandler{
		opts:   opts,
		mu:     &sync.Mutex{},
		action: githubactions.New(githubactions.WithWriter(w)),
	}
}

func (h *ActionsHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, a)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.issue(r.Level, buf.String())
}

// issue writes msg as the workflow command for level. The action panics on
// write failures, which are returned as errors instead.
func (h *ActionsHandler) issue(level slog.Level, msg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	switch {
	case level >= slog.LevelError:
		h.action.Errorf("%s", msg)
	case level >= slog.LevelWarn:
		h.action.Warningf("%s", msg)
	case level >= slog.LevelInfo:
		h.action.Infof("%s", msg)
	default:
		h.action.Debugf("%s", msg)
	}
	return nil
}

func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &ActionsHandler{
		opts:   h.opts,
		mu:     h.mu,
		action: h.action,
		attrs:  newAttrs,
	}
}

// WithGroup is a no-op; workflow commands have no notion of groups.
func (h *ActionsHandler) WithGroup(string) slog.Handler {
	return h
}

func writeAttr(buf *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	buf.WriteString(" ")
	buf.WriteString(a.Key)
	buf.WriteString("=")
	buf.WriteString(a.Value.String())
}
