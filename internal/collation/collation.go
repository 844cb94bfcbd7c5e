// Package collation provides locale-aware string ordering.
package collation

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders strings for a locale. A collate.Collator keeps scratch
// buffers, so access is serialized; goroutines that sort heavily should
// take their own Clone.
type Collator struct {
	mu  sync.Mutex
	tag language.Tag
	c   *collate.Collator
}

// New returns a collator for a BCP 47 locale ("und" for root order)
func New(locale string) (*Collator, error) {
	if locale == "" {
		locale = "und"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Collator{tag: tag, c: collate.New(tag)}, nil
}

// Root returns a collator for the root locale
func Root() *Collator {
	return &Collator{tag: language.Und, c: collate.New(language.Und)}
}

// Locale returns the collator's language tag
func (c *Collator) Locale() string { return c.tag.String() }

// Clone returns an independent collator for the same locale
func (c *Collator) Clone() *Collator {
	return &Collator{tag: c.tag, c: collate.New(c.tag)}
}

// Compare orders a and b by the locale's rules. Strings the locale
// considers equal but that differ in bytes fall back to byte order, so
// Compare is only 0 for identical strings.
func (c *Collator) Compare(a, b string) int {
	if a == b {
		return 0
	}
	c.mu.Lock()
	r := c.c.CompareString(a, b)
	c.mu.Unlock()
	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}
