package roadmap

import (
	"fmt"
	"math"
)

// Percent returns the completion percentage of r in [0, 100]. A week without
// resources counts as one unit governed by its own flag. Otherwise every
// resource is a unit and is done when it or its week is marked completed.
func Percent(r Roadmap) int {
	total, done := 0, 0
	for _, w := range r.Weeks {
		if len(w.Resources) == 0 {
			total++
			if w.Completed {
				done++
			}
			continue
		}
		for _, res := range w.Resources {
			total++
			if res.Completed || w.Completed {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	p := int(math.Round(100 * float64(done) / float64(total)))
	return max(0, min(100, p))
}

// Mutation is a single progress change against one week. ResourceIndex and
// CompleteWeek may be combined; at least one must be set.
type Mutation struct {
	WeekIndex     int
	ResourceIndex *int
	Completed     bool
	CompleteWeek  bool
}

func (m Mutation) Validate() error {
	if m.WeekIndex < 0 {
		return fmt.Errorf("weekIndex %d: %w", m.WeekIndex, ErrNegativeIndex)
	}
	if m.ResourceIndex != nil && *m.ResourceIndex < 0 {
		return fmt.Errorf("resourceIndex %d: %w", *m.ResourceIndex, ErrNegativeIndex)
	}
	if m.ResourceIndex == nil && !m.CompleteWeek {
		return ErrNothingToApply
	}
	return nil
}

// Apply returns a copy of r with m applied. r itself is never modified, so a
// failed mutation leaves the caller's state untouched.
func Apply(r Roadmap, m Mutation) (Roadmap, error) {
	if err := m.Validate(); err != nil {
		return r, err
	}
	if m.WeekIndex >= len(r.Weeks) {
		return r, fmt.Errorf("week %d of %d: %w", m.WeekIndex, len(r.Weeks), ErrWeekOutOfRange)
	}
	out := r.Clone()
	var err error
	if m.ResourceIndex != nil {
		if out, err = ApplyResourceToggle(out, m.WeekIndex, *m.ResourceIndex, m.Completed); err != nil {
			return r, err
		}
	}
	if m.CompleteWeek {
		if out, err = ApplyCompleteWeek(out, m.WeekIndex); err != nil {
			return r, err
		}
	}
	return out, nil
}

// ApplyResourceToggle sets one resource's flag. The week flag is raised once
// every resource is completed or is an exercise; a toggle never lowers it.
func ApplyResourceToggle(r Roadmap, week, resource int, completed bool) (Roadmap, error) {
	if week < 0 || resource < 0 {
		return r, ErrNegativeIndex
	}
	if week >= len(r.Weeks) {
		return r, fmt.Errorf("week %d of %d: %w", week, len(r.Weeks), ErrWeekOutOfRange)
	}
	if resource >= len(r.Weeks[week].Resources) {
		return r, fmt.Errorf("resource %d of %d: %w", resource, len(r.Weeks[week].Resources), ErrResourceOutOfRange)
	}
	out := r.Clone()
	w := &out.Weeks[week]
	w.Resources[resource].Completed = completed
	if weekSatisfied(*w) {
		w.Completed = true
	}
	return out, nil
}

// ApplyCompleteWeek forces the week flag on. It never clears it.
func ApplyCompleteWeek(r Roadmap, week int) (Roadmap, error) {
	if week < 0 {
		return r, ErrNegativeIndex
	}
	if week >= len(r.Weeks) {
		return r, fmt.Errorf("week %d of %d: %w", week, len(r.Weeks), ErrWeekOutOfRange)
	}
	out := r.Clone()
	out.Weeks[week].Completed = true
	return out, nil
}

// Exercises have no completion mechanism of their own; their presence
// satisfies the week.
func weekSatisfied(w Week) bool {
	for _, res := range w.Resources {
		if !res.Completed && res.Type != ResourceExercise {
			return false
		}
	}
	return true
}
