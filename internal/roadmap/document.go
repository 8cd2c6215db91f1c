package roadmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	roadmapKey    = "roadmap"
	difficultyKey = "difficulty"
)

// Document is a learning path's arbitrary JSON document. The roadmap lives
// under one top-level key; every other key is carried through untouched.
type Document struct {
	fields map[string]json.RawMessage
}

// ParseDocument decodes a stored path document. Empty input and JSON null
// yield an empty document.
func ParseDocument(raw []byte) (*Document, error) {
	d := &Document{fields: map[string]json.RawMessage{}}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return d, nil
	}
	if err := json.Unmarshal(trimmed, &d.fields); err != nil {
		return nil, fmt.Errorf("path document: %w", err)
	}
	if d.fields == nil {
		d.fields = map[string]json.RawMessage{}
	}
	return d, nil
}

// Roadmap decodes and migrates the stored roadmap. A document without one
// holds the empty roadmap.
func (d *Document) Roadmap() (Roadmap, error) {
	raw, ok := d.fields[roadmapKey]
	if !ok {
		return Empty(), nil
	}
	return DecodeRoadmap(raw)
}

// SetRoadmap replaces the roadmap key and leaves sibling keys as they were.
func (d *Document) SetRoadmap(r Roadmap) error {
	raw, err := EncodeRoadmap(r)
	if err != nil {
		return err
	}
	d.fields[roadmapKey] = raw
	return nil
}

// Difficulty returns the declared skill level, or "" when not a string.
func (d *Document) Difficulty() string {
	raw, ok := d.fields[difficultyKey]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (d *Document) SetDifficulty(level string) {
	level = strings.TrimSpace(level)
	if level == "" {
		delete(d.fields, difficultyKey)
		return
	}
	b, _ := json.Marshal(level)
	d.fields[difficultyKey] = b
}

func (d *Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

func (d *Document) Bytes() ([]byte, error) {
	return json.Marshal(d.fields)
}

// DecodeRoadmap validates a stored roadmap and migrates it to SchemaVersion.
// Legacy documents carry no version. Missing weeks become an empty list,
// missing flags read as false and non-string goals are dropped. Resource
// types are kept verbatim; coercion belongs to enrichment.
func DecodeRoadmap(raw json.RawMessage) (Roadmap, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty(), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Roadmap{}, fmt.Errorf("decode roadmap: %w", err)
	}
	version := 0
	if v, ok := obj["schema_version"].(float64); ok {
		version = int(v)
	}
	if version > SchemaVersion || version < 0 {
		return Roadmap{}, fmt.Errorf("schema_version %d: %w", version, ErrUnsupportedSchema)
	}
	r := fromValue(obj)
	r.SchemaVersion = SchemaVersion
	return r, nil
}

// EncodeRoadmap writes r at the current schema version with every list
// materialised, so an empty roadmap round-trips as {"weeks": []}.
func EncodeRoadmap(r Roadmap) (json.RawMessage, error) {
	out := r.Clone()
	out.SchemaVersion = SchemaVersion
	for i := range out.Weeks {
		if out.Weeks[i].Goals == nil {
			out.Weeks[i].Goals = []string{}
		}
		if out.Weeks[i].Resources == nil {
			out.Weeks[i].Resources = []Resource{}
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode roadmap: %w", err)
	}
	return b, nil
}

// fromValue converts loosely typed JSON into a Roadmap. Fields of the wrong
// type read as their zero value; non-object resources are dropped.
func fromValue(obj map[string]any) Roadmap {
	r := Roadmap{Weeks: []Week{}}
	weeks, _ := obj["weeks"].([]any)
	for _, wv := range weeks {
		wm, _ := wv.(map[string]any)
		w := Week{
			Title:     stringField(wm, "title"),
			Completed: boolField(wm, "completed"),
			Goals:     []string{},
			Resources: []Resource{},
		}
		if goals, ok := wm["goals"].([]any); ok {
			for _, g := range goals {
				if s, ok := g.(string); ok {
					w.Goals = append(w.Goals, s)
				}
			}
		}
		if res, ok := wm["resources"].([]any); ok {
			for _, rv := range res {
				rm, ok := rv.(map[string]any)
				if !ok {
					continue
				}
				w.Resources = append(w.Resources, Resource{
					Type:      ResourceType(stringField(rm, "type")),
					Title:     stringField(rm, "title"),
					URL:       stringField(rm, "url"),
					Completed: boolField(rm, "completed"),
				})
			}
		}
		r.Weeks = append(r.Weeks, w)
	}
	return r
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
