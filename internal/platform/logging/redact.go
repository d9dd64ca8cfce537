package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// keyInURL matches provider URLs that carry an API key, either as a
// query parameter or as the zenquotes path segment.
var keyInURL = regexp.MustCompile(`(?i)([?&](api_?key|key|token)=[^&\s]+|/api/[a-z]+/[A-Za-z0-9]{16,})`)

var bearer = regexp.MustCompile(`(?i)^bearer\s+\S+$`)

// redactOptions lists the attrs scrubbed from every log line. Quote text and
// clipboard contents are not secrets and are kept.
func redactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(keyInURL),
		masq.WithRegex(bearer),
	}

	for _, name := range []string{
		"password", "token", "apiKey", "api_key", "x-api-key",
		"authorization", "auth", "cookie", "credentials",
	} {
		opts = append(opts, masq.WithFieldName(name))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that applies the default
// redaction plus any extra masq options.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}

// redactHandler runs attrs through a ReplaceAttr before delegating. It covers
// handlers such as charm's that take no HandlerOptions.
type redactHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

// Redact wraps next so every attr it sees has passed through replace.
func Redact(next slog.Handler, replace func(groups []string, a slog.Attr) slog.Attr) slog.Handler {
	return &redactHandler{next: next, replace: replace}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.scrub(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, clean)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.scrub(h.groups, a)
	}

	return &redactHandler{next: h.next.WithAttrs(clean), replace: h.replace, groups: h.groups}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := append(append([]string(nil), h.groups...), name)

	return &redactHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}

func (h *redactHandler) scrub(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return h.replace(groups, a)
	}

	inner := append(append([]string(nil), groups...), a.Key)
	members := a.Value.Group()
	clean := make([]any, len(members))
	for i, m := range members {
		clean[i] = h.scrub(inner, m)
	}

	return slog.Group(a.Key, clean...)
}
