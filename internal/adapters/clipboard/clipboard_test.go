package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
)

const sample = `"Будьте собой; все остальные роли уже заняты." - Оскар Уайльд`

func TestSystem_ConfiguredCommand(t *testing.T) {
	if _, err := exec.LookPath("tee"); err != nil {
		t.Skip("tee not available")
	}

	out := filepath.Join(t.TempDir(), "clip.txt")
	c := NewSystem("tee " + out)

	require.NoError(t, c.WriteText(context.Background(), sample))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, sample, string(got))
}

func TestSystem_CommandFails(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	err := NewSystem("false").WriteText(context.Background(), sample)

	require.Error(t, err)
	assert.True(t, domain.IsClipboardUnavailable(err))

	var clipErr *domain.ClipboardError
	require.ErrorAs(t, err, &clipErr)
	assert.Equal(t, "system", clipErr.Mechanism)
}

func TestSystem_NoUtility(t *testing.T) {
	c := NewSystem("", WithLookPath(func(string) (string, error) {
		return "", exec.ErrNotFound
	}))

	err := c.WriteText(context.Background(), sample)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoUtility)
	assert.True(t, domain.IsClipboardUnavailable(err))
}

func TestSystem_AutodetectOrder(t *testing.T) {
	var looked []string

	c := NewSystem("", WithLookPath(func(name string) (string, error) {
		looked = append(looked, name)
		if name == "xclip" {
			return "/usr/bin/xclip", nil
		}

		return "", errors.New("missing")
	}))

	args, err := c.resolve()

	require.NoError(t, err)
	assert.Equal(t, []string{"xclip", "-selection", "clipboard"}, args)
	assert.Equal(t, []string{"pbcopy", "wl-copy", "xclip"}, looked)
}

func TestOSC52_WritesEscapeSequence(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewOSC52(&buf).WriteText(context.Background(), sample))

	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(sample)) + "\a"
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestOSC52_WriteError(t *testing.T) {
	err := NewOSC52(failingWriter{}).WriteText(context.Background(), sample)

	require.Error(t, err)
	assert.True(t, domain.IsClipboardUnavailable(err))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	_, legacy := New(&config.ClipboardConfig{Legacy: true}, &buf)
	assert.IsType(t, &OSC52{}, legacy)

	_, legacy = New(&config.ClipboardConfig{Legacy: false}, &buf)
	err := legacy.WriteText(context.Background(), sample)
	assert.True(t, domain.IsClipboardUnavailable(err))

	primary, _ := New(&config.ClipboardConfig{Command: "cat"}, nil)
	assert.IsType(t, &System{}, primary)
}
