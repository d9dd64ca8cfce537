// Package providers implements the quote sources behind ports.QuoteProvider.
//
// Each remote provider is an anti-corruption layer over one public API: it
// owns an unexported DTO for the wire format, translates it into a
// domain.Quote and reports every failure as a *domain.ProviderUnavailableError
// so the acquisition pipeline can fall through to the next source.
//
// Sources, in priority order:
//
//   - [Quotable]: api.quotable.io, supports category tags
//   - [ZenQuotes]: zenquotes.io, ignores categories and gets a synthetic id
//   - [Fallback]: a static list that never fails
//
// Error handling strategy:
//   - transport errors, open circuits and exhausted retries → provider unavailable
//   - non-200 responses → provider unavailable with the status as reason
//   - undecodable or incomplete payloads → provider unavailable
package providers
