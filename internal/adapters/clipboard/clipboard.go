// Package clipboard writes quote text to the system clipboard.
//
// System shells out to a platform utility (pbcopy, wl-copy, xclip, xsel or a
// configured command). OSC52 is the legacy path: it asks the terminal to set
// the clipboard through an escape sequence, which also works over SSH.
package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// ErrNoUtility is returned when no clipboard utility is installed.
var ErrNoUtility = errors.New("no clipboard utility found")

// candidates are tried in order when no command is configured.
var candidates = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// System pipes text into a clipboard utility.
type System struct {
	args     []string
	lookPath func(string) (string, error)
}

// SystemOption configures a System clipboard.
type SystemOption func(*System)

// WithLookPath overrides exec.LookPath during autodetection.
func WithLookPath(fn func(string) (string, error)) SystemOption {
	return func(s *System) { s.lookPath = fn }
}

// NewSystem creates a System clipboard. An empty command autodetects a
// utility on first write.
func NewSystem(command string, opts ...SystemOption) *System {
	s := &System{
		args:     strings.Fields(command),
		lookPath: exec.LookPath,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WriteText implements ports.Clipboard.
func (s *System) WriteText(ctx context.Context, text string) error {
	args, err := s.resolve()
	if err != nil {
		return domain.NewClipboardError("system", err)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command comes from config or a fixed list
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%s: %w: %s", args[0], err, msg)
		} else {
			err = fmt.Errorf("%s: %w", args[0], err)
		}

		return domain.NewClipboardError("system", err)
	}

	return nil
}

func (s *System) resolve() ([]string, error) {
	if len(s.args) > 0 {
		return s.args, nil
	}

	for _, c := range candidates {
		if _, err := s.lookPath(c[0]); err == nil {
			s.args = c
			return c, nil
		}
	}

	return nil, ErrNoUtility
}

// OSC52 writes an OSC 52 escape sequence to a terminal.
type OSC52 struct {
	w io.Writer
}

// NewOSC52 creates an OSC52 clipboard writing to w.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w}
}

// WriteText implements ports.Clipboard.
func (o *OSC52) WriteText(_ context.Context, text string) error {
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"

	if _, err := io.WriteString(o.w, seq); err != nil {
		return domain.NewClipboardError("osc52", err)
	}

	return nil
}

// Disabled always fails. Used when the legacy path is turned off.
type Disabled struct{}

// WriteText implements ports.Clipboard.
func (Disabled) WriteText(context.Context, string) error {
	return domain.NewClipboardError("legacy", errors.New("disabled"))
}

// New returns the primary and legacy clipboards for cfg. The legacy clipboard
// writes to tty, normally os.Stderr so stdout stays clean for piping.
func New(cfg *config.ClipboardConfig, tty io.Writer) (primary, legacy ports.Clipboard) {
	if tty == nil {
		tty = os.Stderr
	}

	primary = NewSystem(cfg.Command)
	if cfg.Legacy {
		return primary, NewOSC52(tty)
	}

	return primary, Disabled{}
}
