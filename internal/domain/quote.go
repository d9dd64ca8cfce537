// Package domain contains core business entities and rules.
package domain

// Quote is a displayable quotation.
// ID is only unique within a session's recent history, not globally.
// Quotes are treated as values: callers that retain one should keep a Clone.
type Quote struct {
	// ID identifies the quote within a session.
	ID string `json:"id"`

	// Text is the quotation itself.
	Text string `json:"text"`

	// Author is who said or wrote the quote.
	Author string `json:"author"`

	// Tags are themes attached by the provider, in provider order.
	Tags []string `json:"tags"`
}

// Clone returns a deep copy so the caller's Tags slice is never shared.
func (q Quote) Clone() Quote {
	c := q
	if q.Tags != nil {
		c.Tags = make([]string, len(q.Tags))
		copy(c.Tags, q.Tags)
	}

	return c
}

// IsZero reports whether the quote carries no identity.
func (q Quote) IsZero() bool {
	return q.ID == ""
}

// Valid reports whether the quote has everything a view needs to render it.
func (q Quote) Valid() bool {
	return q.ID != "" && q.Text != "" && q.Author != ""
}

// ClipboardText formats the quote the way it is copied for the user.
func (q Quote) ClipboardText() string {
	return `"` + q.Text + `" - ` + q.Author
}
