package domain

import (
	"strings"
)

// Category is the user-selected theme filter.
type Category string

// Supported categories.
const (
	CategoryAll           Category = "all"
	CategoryInspirational Category = "inspirational"
	CategoryLife          Category = "life"
	CategorySuccess       Category = "success"
	CategoryWisdom        Category = "wisdom"
)

// DefaultTag is attached to quotes from sources that have no tags of their own.
const DefaultTag = string(CategoryWisdom)

// Categories returns every supported category in display order.
func Categories() []Category {
	return []Category{
		CategoryAll,
		CategoryInspirational,
		CategoryLife,
		CategorySuccess,
		CategoryWisdom,
	}
}

// ParseCategory converts user input into a Category.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationErrorWithValue("category", "must be one of: all inspirational life success wisdom", s)
	}

	return c, nil
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryInspirational, CategoryLife, CategorySuccess, CategoryWisdom:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// DisplayTag is the tag used when a source cannot filter by category:
// the category itself, or DefaultTag for CategoryAll.
func (c Category) DisplayTag() string {
	if c == CategoryAll || c == "" {
		return DefaultTag
	}

	return string(c)
}
