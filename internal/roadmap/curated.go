package roadmap

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed curated.yaml
var curatedYAML []byte

type curatedFile struct {
	FallbackTopic string         `yaml:"fallback_topic"`
	Allowlist     []string       `yaml:"allowlist"`
	Topics        []curatedTopic `yaml:"topics"`
}

type curatedTopic struct {
	Key      string        `yaml:"key"`
	Keywords []string      `yaml:"keywords"`
	Videos   []curatedLink `yaml:"videos"`
	Articles []curatedLink `yaml:"articles"`
}

type curatedLink struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Curated bundles the link allowlist and the topic catalog.
type Curated struct {
	Allowlist *Allowlist
	Catalog   *Catalog
}

var (
	defaultOnce    sync.Once
	defaultCurated *Curated
	defaultErr     error
)

// Default returns the curated data embedded in the binary. It panics if the
// embedded file is invalid, which is a build defect rather than a runtime state.
func Default() *Curated {
	defaultOnce.Do(func() {
		defaultCurated, defaultErr = LoadCurated(curatedYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded curated.yaml: %v", defaultErr))
	}
	return defaultCurated
}

// LoadCurated parses and validates curated YAML. Every catalog topic must
// carry at least one video and one article whose links pass the allowlist,
// and the fallback topic must exist; enrichment relies on both.
func LoadCurated(raw []byte) (*Curated, error) {
	var f curatedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCuratedData, err)
	}

	allow, err := NewAllowlist(f.Allowlist)
	if err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(f.Topics))
	for _, t := range f.Topics {
		key := strings.TrimSpace(t.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: topic without key", ErrInvalidCuratedData)
		}
		e := CatalogEntry{Key: key, Keywords: append([]string{key}, t.Keywords...)}
		for _, v := range t.Videos {
			e.Videos = append(e.Videos, Resource{Type: ResourceVideo, Title: v.Title, URL: v.URL})
		}
		for _, a := range t.Articles {
			e.Articles = append(e.Articles, Resource{Type: ResourceArticle, Title: a.Title, URL: a.URL})
		}
		if len(e.Videos) == 0 || len(e.Articles) == 0 {
			return nil, fmt.Errorf("%w: topic %q needs at least one video and one article", ErrInvalidCuratedData, key)
		}
		for _, r := range append(append([]Resource{}, e.Videos...), e.Articles...) {
			if strings.TrimSpace(r.Title) == "" {
				return nil, fmt.Errorf("%w: topic %q has an untitled resource", ErrInvalidCuratedData, key)
			}
			if !allow.IsAllowed(r.URL) {
				return nil, fmt.Errorf("%w: topic %q link %q is not allowlisted", ErrInvalidCuratedData, key, r.URL)
			}
		}
		entries = append(entries, e)
	}

	catalog, err := NewCatalog(entries, f.FallbackTopic)
	if err != nil {
		return nil, err
	}
	return &Curated{Allowlist: allow, Catalog: catalog}, nil
}
