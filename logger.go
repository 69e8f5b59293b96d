package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

const timeFormat = "2006/01/02 15:04:05"

// Handler prints a record as
//
//	[2024/05/01 10:00:00] [scan] Position 3 is Channel 7
//
// with each attribute value in brackets between the time and the message.
// Attribute keys and groups are dropped.
type Handler struct {
	level slog.Leveler
	attrs []slog.Attr

	mu  *sync.Mutex
	out io.Writer
}

func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{level: slog.LevelInfo, mu: &sync.Mutex{}, out: out}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.WriteString(r.Time.Format(timeFormat))
	buf.WriteByte(']')

	tag := func(a slog.Attr) bool {
		buf.WriteString(" [")
		buf.WriteString(a.Value.String())
		buf.WriteByte(']')
		return true
	}
	for _, a := range h.attrs {
		tag(a)
	}
	r.Attrs(tag)

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// Logger sends progress to InfoLog and failures to ErrorLog.
type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

// Info logs message tagged with the part of the tool that produced it.
func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
