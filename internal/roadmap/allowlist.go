package roadmap

import (
	"fmt"
	"net/url"
	"strings"
)

// AllowlistEntry is a hostname with an optional path prefix ("supabase.com/docs").
type AllowlistEntry struct {
	Host       string
	PathPrefix string
}

// Allowlist is the closed set of link domains permitted in roadmap resources.
type Allowlist struct {
	entries []AllowlistEntry
}

func NewAllowlist(raw []string) (*Allowlist, error) {
	a := &Allowlist{entries: make([]AllowlistEntry, 0, len(raw))}
	for _, item := range raw {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if strings.Contains(item, "://") {
			return nil, fmt.Errorf("%w: allowlist entry %q must not carry a scheme", ErrInvalidCuratedData, item)
		}
		host, prefix, _ := strings.Cut(item, "/")
		if host == "" {
			return nil, fmt.Errorf("%w: allowlist entry %q has no host", ErrInvalidCuratedData, item)
		}
		if prefix != "" {
			prefix = "/" + prefix
		}
		a.entries = append(a.entries, AllowlistEntry{Host: host, PathPrefix: prefix})
	}
	if len(a.entries) == 0 {
		return nil, fmt.Errorf("%w: empty allowlist", ErrInvalidCuratedData)
	}
	return a, nil
}

func (a *Allowlist) Entries() []AllowlistEntry {
	return append([]AllowlistEntry{}, a.entries...)
}

// IsAllowed reports whether raw is an https URL whose host (and path prefix,
// when the entry has one) exactly matches an allowlist entry.
func (a *Allowlist) IsAllowed(raw string) bool {
	if a == nil {
		return false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, "https") || u.User != nil || u.Opaque != "" {
		return false
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return false
	}
	for _, e := range a.entries {
		if host != e.Host {
			continue
		}
		if e.PathPrefix == "" || strings.HasPrefix(u.Path, e.PathPrefix) {
			return true
		}
	}
	return false
}
