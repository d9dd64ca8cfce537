package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// maxTags is how many tags a card shows.
const maxTags = 2

// Terminal renders quotes as a bordered card on a writer.
type Terminal struct {
	mu            sync.Mutex
	w             io.Writer
	showLoading   bool
	showFavorites bool
	width         int

	card     lipgloss.Style
	text     lipgloss.Style
	author   lipgloss.Style
	tag      lipgloss.Style
	heading  lipgloss.Style
	dim      lipgloss.Style
	favorite lipgloss.Style
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithLoading prints a line when a fetch starts.
func WithLoading(show bool) TerminalOption {
	return func(t *Terminal) { t.showLoading = show }
}

// WithFavorites prints the favorites list whenever it changes.
func WithFavorites(show bool) TerminalOption {
	return func(t *Terminal) { t.showFavorites = show }
}

// WithWidth sets the card width in cells.
func WithWidth(width int) TerminalOption {
	return func(t *Terminal) { t.width = width }
}

// NewTerminal creates a Terminal writing to w. Colors follow what w supports.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{w: w, width: 60}
	for _, opt := range opts {
		opt(t)
	}

	r := lipgloss.NewRenderer(w)

	t.card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#58a6ff")).
		Padding(1, 2).
		Width(t.width)
	t.text = r.NewStyle().Italic(true)
	t.author = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#d2a8ff"))
	t.tag = r.NewStyle().Foreground(lipgloss.Color("#7ee787"))
	t.heading = r.NewStyle().Bold(true).Underline(true)
	t.dim = r.NewStyle().Faint(true)
	t.favorite = r.NewStyle().Foreground(lipgloss.Color("#f0b72f"))

	return t
}

// OnLoadingStart implements ports.ViewBinding.
func (t *Terminal) OnLoadingStart(context.Context) {
	if !t.showLoading {
		return
	}

	t.print(t.dim.Render("Загрузка..."))
}

// OnQuoteDisplayed implements ports.ViewBinding.
func (t *Terminal) OnQuoteDisplayed(_ context.Context, quote domain.Quote, isFavorite bool) {
	t.print(t.RenderCard(quote, isFavorite))
}

// OnFavoritesChanged implements ports.ViewBinding.
func (t *Terminal) OnFavoritesChanged(_ context.Context, favorites []domain.Quote, count int) {
	if !t.showFavorites {
		return
	}

	t.print(t.RenderFavorites(favorites, count))
}

// RenderCard returns the card for quote without printing it.
func (t *Terminal) RenderCard(quote domain.Quote, isFavorite bool) string {
	star := t.dim.Render("☆")
	if isFavorite {
		star = t.favorite.Render("★")
	}

	lines := []string{
		t.text.Render("“" + quote.Text + "”"),
		"",
		t.author.Render("— "+quote.Author) + "  " + star,
	}

	if tags := displayTags(quote.Tags); len(tags) > 0 {
		rendered := make([]string, len(tags))
		for i, tag := range tags {
			rendered[i] = t.tag.Render("#" + tag)
		}

		lines = append(lines, strings.Join(rendered, " "))
	}

	return t.card.Render(strings.Join(lines, "\n"))
}

// RenderFavorites returns the favorites list without printing it.
func (t *Terminal) RenderFavorites(favorites []domain.Quote, count int) string {
	var b strings.Builder

	b.WriteString(t.heading.Render(fmt.Sprintf("Избранное (%d)", count)))

	if len(favorites) == 0 {
		b.WriteString("\n" + t.dim.Render("пусто"))
		return b.String()
	}

	for _, q := range favorites {
		b.WriteString("\n" + t.favorite.Render("★") + " " + truncate(q.Text, t.width-4) + " " + t.dim.Render("— "+q.Author))
	}

	return b.String()
}

func (t *Terminal) print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.w, s)
}

func displayTags(tags []string) []string {
	if len(tags) > maxTags {
		return tags[:maxTags]
	}

	return tags
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
