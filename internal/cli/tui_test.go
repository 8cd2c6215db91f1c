package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	client "github.com/yungbote/learnpath-backend/internal/client/roadmap"
	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

type stubBackend struct {
	result *client.Result
	err    error
	reqs   []client.ProgressRequest
}

func (s *stubBackend) Generate(context.Context, uuid.UUID, string) (*client.Result, error) {
	return s.result, s.err
}

func (s *stubBackend) UpdateProgress(_ context.Context, _ uuid.UUID, req client.ProgressRequest) (*client.Result, error) {
	s.reqs = append(s.reqs, req)
	return s.result, s.err
}

func threeWeeks() core.Roadmap {
	r := core.Roadmap{SchemaVersion: 1}
	for _, title := range []string{"A", "B", "C"} {
		r.Weeks = append(r.Weeks, core.Week{Title: title, Resources: []core.Resource{{Type: core.ResourceVideo, Title: title + " video"}}})
	}
	return r
}

// drain feeds every published event through Update.
func drain(t *testing.T, m tuiModel) tuiModel {
	t.Helper()
	for {
		select {
		case ev := <-m.events:
			next, _ := m.Update(eventMsg(ev))
			m = next.(tuiModel)
		default:
			return m
		}
	}
}

func TestTUIGenerateRevealsWeekByWeek(t *testing.T) {
	backend := &stubBackend{result: &client.Result{Roadmap: threeWeeks(), Version: 2}}
	ctrl := client.NewController(backend, uuid.New())
	m := newTUIModel(context.Background(), ctrl, "Learn Go", "", time.Millisecond)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m = next.(tuiModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = drain(t, next.(tuiModel))

	assert.Equal(t, client.StateRevealing, m.state)
	assert.Equal(t, 1, m.visible)
	assert.Contains(t, m.View(), "Revealing week 1 of 3")
	assert.NotContains(t, m.View(), "Week 2: B")

	next, _ = m.Update(revealMsg{})
	m = next.(tuiModel)
	assert.Equal(t, 2, m.visible)
	next, cmd = m.Update(revealMsg{})
	m = next.(tuiModel)
	assert.Nil(t, cmd)
	assert.Equal(t, 3, m.visible)
	assert.Equal(t, client.StateIdle, ctrl.State())
	assert.Contains(t, m.View(), "Week 3: C")
}

func TestTUIToggleAndFailure(t *testing.T) {
	backend := &stubBackend{}
	ctrl := client.NewController(backend, uuid.New())
	ctrl.Seed(threeWeeks(), 2)
	m := newTUIModel(context.Background(), ctrl, "Learn Go", "", time.Millisecond)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(tuiModel)
	assert.Equal(t, 0, m.cursorR)

	backend.err = &client.APIError{Status: 500, Code: "internal_error"}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(tuiModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = drain(t, next.(tuiModel))

	require.Len(t, backend.reqs, 1)
	require.NotNil(t, backend.reqs[0].ResourceIndex)
	assert.Equal(t, 0, *backend.reqs[0].ResourceIndex)
	assert.Error(t, m.err)
	assert.False(t, m.roadmap.Weeks[0].Resources[0].Completed)
	assert.Contains(t, m.View(), "error:")
}

func TestTUIQuit(t *testing.T) {
	m := newTUIModel(context.Background(), client.NewController(&stubBackend{}, uuid.New()), "", "", time.Millisecond)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
