package roadmap

import "errors"

// SchemaVersion is the roadmap document version written by Encode.
// Documents without a version are legacy (0) and are migrated on read.
const SchemaVersion = 1

// MaxResourcesPerWeek caps enriched weeks.
const MaxResourcesPerWeek = 5

// MinGoalsPerWeek is the goal floor guaranteed by enrichment.
const MinGoalsPerWeek = 3

type ResourceType string

const (
	ResourceVideo    ResourceType = "video"
	ResourceArticle  ResourceType = "article"
	ResourceExercise ResourceType = "exercise"
)

// Known reports whether t is one of the closed set of resource types.
func (t ResourceType) Known() bool {
	switch t {
	case ResourceVideo, ResourceArticle, ResourceExercise:
		return true
	default:
		return false
	}
}

type Resource struct {
	Type      ResourceType `json:"type"`
	Title     string       `json:"title"`
	URL       string       `json:"url,omitempty"`
	Completed bool         `json:"completed"`
}

type Week struct {
	Title     string     `json:"title"`
	Goals     []string   `json:"goals"`
	Resources []Resource `json:"resources"`
	Completed bool       `json:"completed"`
}

// Roadmap is the weekly study plan attached to a learning path. Week order is
// chronological and is preserved by every operation in this package.
type Roadmap struct {
	SchemaVersion int    `json:"schema_version,omitempty"`
	Weeks         []Week `json:"weeks"`
}

// Empty returns the "ungenerated" roadmap.
func Empty() Roadmap {
	return Roadmap{SchemaVersion: SchemaVersion, Weeks: []Week{}}
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (r Roadmap) Clone() Roadmap {
	out := Roadmap{SchemaVersion: r.SchemaVersion, Weeks: make([]Week, len(r.Weeks))}
	for i, w := range r.Weeks {
		cw := Week{Title: w.Title, Completed: w.Completed}
		if w.Goals != nil {
			cw.Goals = append([]string{}, w.Goals...)
		}
		if w.Resources != nil {
			cw.Resources = append([]Resource{}, w.Resources...)
		}
		out.Weeks[i] = cw
	}
	return out
}

var (
	ErrWeekOutOfRange     = errors.New("week index out of range")
	ErrResourceOutOfRange = errors.New("resource index out of range")
	ErrNothingToApply     = errors.New("mutation has neither resource toggle nor week completion")
	ErrNegativeIndex      = errors.New("index must be non-negative")
	ErrUnsupportedSchema  = errors.New("unsupported roadmap schema version")
	ErrInvalidCuratedData = errors.New("invalid curated data")
)
