package server

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// JobLogHandler is a slog.Handler that records log lines against a job,
// optionally forwarding them to Next.
type JobLogHandler struct {
	Service *Service
	JobID   uuid.UUID
	Next    slog.Handler

	attrs []slog.Attr
	group string
}

func NewJobLogHandler(s *Service, jobID uuid.UUID, next slog.Handler) *JobLogHandler {
	return &JobLogHandler{Service: s, JobID: jobID, Next: next}
}

func (h *JobLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *JobLogHandler) Handle(ctx context.Context, r slog.Record) error {
	meta := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		meta[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		meta[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	h.Service.appendLog(h.JobID, LogEntry{
		Timestamp: r.Time,
		Level:     r.Level.String(),
		Message:   r.Message,
		Metadata:  meta,
	})

	if h.Next != nil && h.Next.Enabled(ctx, r.Level) {
		return h.Next.Handle(ctx, r.Clone())
	}
	return nil
}

func (h *JobLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	if h.Next != nil {
		clone.Next = h.Next.WithAttrs(attrs)
	}
	return &clone
}

func (h *JobLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.key(name)
	if h.Next != nil {
		clone.Next = h.Next.WithGroup(name)
	}
	return &clone
}

func (h *JobLogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
