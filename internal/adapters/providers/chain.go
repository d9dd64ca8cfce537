package providers

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// Chain is the configured provider list in priority order.
type Chain struct {
	// Providers are tried in order; the last entry is always the fallback.
	Providers []ports.QuoteProvider

	// Retry is the provider asked again when a quote repeats. Nil when
	// the primary remote provider is disabled.
	Retry ports.QuoteProvider

	// Fallback is the static provider at the end of the chain.
	Fallback *Fallback

	// Checkers report provider health for /-/ready.
	Checkers []ports.HealthChecker
}

// NewChain builds quotable → zenquotes → fallback from configuration,
// skipping disabled remote providers.
func NewChain(providersCfg *config.ProvidersConfig, clientCfg *config.ClientConfig, logger *slog.Logger) (*Chain, error) {
	chain := &Chain{}

	if providersCfg.Quotable.Enabled {
		client, err := NewClient(providersCfg.Quotable.Name, providersCfg.Quotable.BaseURL, clientCfg, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("creating %s client: %w", providersCfg.Quotable.Name, err)
		}

		quotable := NewQuotable(client, providersCfg.Quotable.Name, logger)
		chain.Providers = append(chain.Providers, quotable)
		chain.Checkers = append(chain.Checkers, quotable)
		chain.Retry = quotable
	}

	if providersCfg.ZenQuotes.Enabled {
		client, err := NewClient(providersCfg.ZenQuotes.Name, providersCfg.ZenQuotes.BaseURL, clientCfg, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("creating %s client: %w", providersCfg.ZenQuotes.Name, err)
		}

		zen := NewZenQuotes(client, providersCfg.ZenQuotes.Name, logger)
		chain.Providers = append(chain.Providers, zen)
		chain.Checkers = append(chain.Checkers, zen)
	}

	fallback := NewFallback()
	if providersCfg.Fallback.File != "" {
		var err error

		fallback, err = NewFallbackFromFile(providersCfg.Fallback.File)
		if err != nil {
			return nil, err
		}
	}

	chain.Fallback = fallback
	chain.Providers = append(chain.Providers, fallback)
	chain.Checkers = append(chain.Checkers, fallback)

	return chain, nil
}
