package roadmap

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

var (
	ErrGenerationInFlight = errors.New("roadmap generation already in progress")
	ErrResourceBusy       = errors.New("resource update already in progress")
)

// State is the network state of the controller. Per-resource updates are
// tracked separately and do not change it.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateRevealing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

type EventKind int

const (
	EventStateChanged EventKind = iota
	EventGenerated
	EventUpdating
	EventUpdated
	EventFailed
)

// Event is published to subscribers on every observable change. Week and
// Resource identify the control for EventUpdating, EventUpdated and
// EventFailed; Resource is -1 for whole-week completion.
type Event struct {
	Kind     EventKind
	State    State
	Roadmap  core.Roadmap
	Percent  int
	Week     int
	Resource int
	Err      error
}

// Backend is the subset of API the controller drives.
type Backend interface {
	Generate(ctx context.Context, pathID uuid.UUID, topic string) (*Result, error)
	UpdateProgress(ctx context.Context, pathID uuid.UUID, req ProgressRequest) (*Result, error)
}

type control struct {
	week     int
	resource int
}

// Controller owns the client-side roadmap state for one path. It never
// sleeps; reveal timing belongs to the presentation layer (see Revealer).
type Controller struct {
	backend Backend
	pathID  uuid.UUID

	mu       sync.Mutex
	state    State
	roadmap  core.Roadmap
	version  int
	inflight map[control]bool
	subs     map[int]chan Event
	nextSub  int
}

func NewController(backend Backend, pathID uuid.UUID) *Controller {
	return &Controller{
		backend:  backend,
		pathID:   pathID,
		state:    StateIdle,
		roadmap:  core.Empty(),
		inflight: map[control]bool{},
		subs:     map[int]chan Event{},
	}
}

// Seed installs an already fetched roadmap, e.g. from GET /paths/:id.
func (c *Controller) Seed(r core.Roadmap, version int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roadmap = r.Clone()
	c.version = version
}

// Subscribe returns a buffered event channel and a cancel func. Sends never
// block: a subscriber that falls more than buf events behind misses events.
func (c *Controller) Subscribe(buf int) (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Event, max(buf, 1))
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Roadmap() (core.Roadmap, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roadmap.Clone(), core.Percent(c.roadmap)
}

// Busy reports whether the given resource (or week, with resource -1) has a
// request in flight.
func (c *Controller) Busy(week, resource int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[control{week, resource}]
}

// Generate requests a new roadmap. A second call while generating or
// revealing returns ErrGenerationInFlight without touching the network.
func (c *Controller) Generate(ctx context.Context, topic string) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrGenerationInFlight
	}
	prev := c.state
	c.setStateLocked(StateGenerating)
	c.mu.Unlock()

	res, err := c.backend.Generate(ctx, c.pathID, topic)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.setStateLocked(prev)
		c.publishLocked(Event{Kind: EventFailed, State: c.state, Roadmap: c.roadmap.Clone(), Percent: core.Percent(c.roadmap), Week: -1, Resource: -1, Err: err})
		return err
	}
	c.roadmap = res.Roadmap.Clone()
	c.version = res.Version
	c.setStateLocked(StateRevealing)
	c.publishLocked(Event{Kind: EventGenerated, State: c.state, Roadmap: c.roadmap.Clone(), Percent: res.Percent, Week: -1, Resource: -1})
	return nil
}

// RevealDone is called by the presentation layer once every week is shown.
func (c *Controller) RevealDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRevealing {
		c.setStateLocked(StateIdle)
	}
}

// ToggleResource marks one resource done or not done. The local roadmap is
// updated optimistically and restored if the request fails. Different
// resources may be toggled concurrently; the same one may not.
func (c *Controller) ToggleResource(ctx context.Context, week, resource int, completed bool) error {
	done := completed
	idx := resource
	return c.mutate(ctx, control{week, resource}, ProgressRequest{
		WeekIndex:     week,
		ResourceIndex: &idx,
		Completed:     &done,
	}, func(r core.Roadmap) (core.Roadmap, error) {
		return core.ApplyResourceToggle(r, week, resource, completed)
	})
}

// CompleteWeek marks a whole week done.
func (c *Controller) CompleteWeek(ctx context.Context, week int) error {
	return c.mutate(ctx, control{week, -1}, ProgressRequest{
		WeekIndex:    week,
		CompleteWeek: true,
	}, func(r core.Roadmap) (core.Roadmap, error) {
		return core.ApplyCompleteWeek(r, week)
	})
}

func (c *Controller) mutate(ctx context.Context, key control, req ProgressRequest, apply func(core.Roadmap) (core.Roadmap, error)) error {
	c.mu.Lock()
	if c.inflight[key] {
		c.mu.Unlock()
		return ErrResourceBusy
	}
	// Keep the pre-request week so a failure restores exactly this control.
	var before *core.Week
	if key.week >= 0 && key.week < len(c.roadmap.Weeks) {
		w := c.roadmap.Clone().Weeks[key.week]
		before = &w
	}
	if next, err := apply(c.roadmap); err == nil {
		c.roadmap = next
	}
	c.inflight[key] = true
	c.publishLocked(Event{Kind: EventUpdating, State: c.state, Roadmap: c.roadmap.Clone(), Percent: core.Percent(c.roadmap), Week: key.week, Resource: key.resource})
	c.mu.Unlock()

	res, err := c.backend.UpdateProgress(ctx, c.pathID, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
	if err != nil {
		if before != nil && key.week < len(c.roadmap.Weeks) {
			c.restoreLocked(key, *before)
		}
		c.publishLocked(Event{Kind: EventFailed, State: c.state, Roadmap: c.roadmap.Clone(), Percent: core.Percent(c.roadmap), Week: key.week, Resource: key.resource, Err: err})
		return err
	}
	// Responses to concurrent toggles arrive unordered; keep the newest.
	if res.Version >= c.version {
		c.roadmap = res.Roadmap.Clone()
		c.version = res.Version
	}
	c.publishLocked(Event{Kind: EventUpdated, State: c.state, Roadmap: c.roadmap.Clone(), Percent: core.Percent(c.roadmap), Week: key.week, Resource: key.resource})
	return nil
}

func (c *Controller) restoreLocked(key control, before core.Week) {
	w := &c.roadmap.Weeks[key.week]
	if key.resource >= 0 {
		if key.resource < len(w.Resources) && key.resource < len(before.Resources) {
			w.Resources[key.resource].Completed = before.Resources[key.resource].Completed
		}
	}
	w.Completed = before.Completed
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.publishLocked(Event{Kind: EventStateChanged, State: s, Roadmap: c.roadmap.Clone(), Percent: core.Percent(c.roadmap), Week: -1, Resource: -1})
}

func (c *Controller) publishLocked(ev Event) {
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
