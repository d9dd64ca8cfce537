package providers

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// FallbackName is the name of the static provider.
const FallbackName = "fallback"

const fallbackIDPrefix = "fallback"

//go:embed fallback_quotes.yaml
var builtinQuotes []byte

// fallbackFile is the YAML layout of a fallback quote list.
type fallbackFile struct {
	Quotes []fallbackEntry `yaml:"quotes"`
}

type fallbackEntry struct {
	Text   string   `yaml:"text"`
	Author string   `yaml:"author"`
	Tags   []string `yaml:"tags"`
}

// Fallback draws uniformly from a fixed list of quotes. It never fails.
type Fallback struct {
	entries []fallbackEntry
	clock   Clock
	newID   IDGenerator
	pick    func(n int) int
}

// FallbackOption configures a Fallback provider.
type FallbackOption func(*Fallback)

// WithFallbackClock overrides the clock used for synthetic ids.
func WithFallbackClock(clock Clock) FallbackOption {
	return func(f *Fallback) { f.clock = clock }
}

// WithFallbackIDGenerator overrides the synthetic id suffix generator.
func WithFallbackIDGenerator(gen IDGenerator) FallbackOption {
	return func(f *Fallback) { f.newID = gen }
}

// WithFallbackPicker overrides the random index function.
func WithFallbackPicker(pick func(n int) int) FallbackOption {
	return func(f *Fallback) { f.pick = pick }
}

// NewFallback creates the static provider from the built-in list.
func NewFallback(opts ...FallbackOption) *Fallback {
	entries, err := parseFallbackQuotes(builtinQuotes)
	if err != nil {
		// The embedded list is part of the binary.
		panic(fmt.Sprintf("providers: built-in fallback quotes: %v", err))
	}

	return newFallback(entries, opts...)
}

// NewFallbackFromFile creates the static provider from a YAML file.
// An unreadable, invalid or empty file is an error.
func NewFallbackFromFile(path string, opts ...FallbackOption) (*Fallback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fallback quotes: %w", err)
	}

	entries, err := parseFallbackQuotes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fallback quotes %q: %w", path, err)
	}

	return newFallback(entries, opts...), nil
}

func newFallback(entries []fallbackEntry, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		entries: entries,
		clock:   defaultClock,
		newID:   defaultIDGenerator,
		pick:    rand.IntN,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func parseFallbackQuotes(data []byte) ([]fallbackEntry, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	entries := make([]fallbackEntry, 0, len(file.Quotes))
	for i, e := range file.Quotes {
		e.Text = strings.TrimSpace(e.Text)
		e.Author = strings.TrimSpace(e.Author)

		if e.Text == "" || e.Author == "" {
			return nil, fmt.Errorf("quote %d: text and author are required", i)
		}

		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, errors.New("no quotes defined")
	}

	return entries, nil
}

// Name returns the provider name.
func (f *Fallback) Name() string {
	return FallbackName
}

// Len returns the number of quotes in the list.
func (f *Fallback) Len() int {
	return len(f.entries)
}

// Check always succeeds; the list is in memory.
func (f *Fallback) Check(_ context.Context) error {
	return nil
}

// Fetch draws a quote. The category is ignored and the error is always nil.
func (f *Fallback) Fetch(_ context.Context, _ domain.Category) (domain.Quote, error) {
	return f.Draw(), nil
}

// Draw returns a random quote with a fresh synthetic id.
func (f *Fallback) Draw() domain.Quote {
	entry := f.entries[f.pick(len(f.entries))]

	tags := entry.Tags
	if len(tags) == 0 {
		tags = []string{domain.DefaultTag}
	}

	return domain.Quote{
		ID:     syntheticID(fallbackIDPrefix, f.clock(), f.newID),
		Text:   entry.Text,
		Author: entry.Author,
		Tags:   append([]string(nil), tags...),
	}
}
