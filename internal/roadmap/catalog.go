package roadmap

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CatalogEntry holds curated fallback resources for one topic keyword group.
type CatalogEntry struct {
	Key      string
	Keywords []string
	Videos   []Resource
	Articles []Resource
}

// Catalog matches free-form topics to curated entries. Matching folds case and
// diacritics, scores each entry by its longest keyword found in the topic and
// breaks ties by catalog order. Unmatched topics resolve to the fallback key.
type Catalog struct {
	entries  []CatalogEntry
	folded   [][]string
	fallback int
}

func NewCatalog(entries []CatalogEntry, fallbackKey string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty topic catalog", ErrInvalidCuratedData)
	}
	c := &Catalog{entries: entries, folded: make([][]string, len(entries)), fallback: -1}
	fb := Fold(fallbackKey)
	for i, e := range entries {
		if Fold(e.Key) == fb {
			c.fallback = i
		}
		for _, kw := range e.Keywords {
			if f := Fold(kw); f != "" {
				c.folded[i] = append(c.folded[i], f)
			}
		}
	}
	if c.fallback < 0 {
		return nil, fmt.Errorf("%w: fallback topic %q not in catalog", ErrInvalidCuratedData, fallbackKey)
	}
	return c, nil
}

// Match returns the best entry for topic and whether a keyword actually matched.
func (c *Catalog) Match(topic string) (CatalogEntry, bool) {
	t := Fold(topic)
	best, bestScore := -1, 0
	if t != "" {
		for i, kws := range c.folded {
			for _, kw := range kws {
				if len(kw) > bestScore && strings.Contains(t, kw) {
					best, bestScore = i, len(kw)
				}
			}
		}
	}
	if best < 0 {
		return c.entries[c.fallback], false
	}
	return c.entries[best], true
}

func (c *Catalog) Fallback() CatalogEntry { return c.entries[c.fallback] }

func (c *Catalog) Keys() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, strips combining marks and collapses whitespace.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
