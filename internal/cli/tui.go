package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	client "github.com/yungbote/learnpath-backend/internal/client/roadmap"
	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

type eventMsg client.Event

type revealMsg struct{}

type requestDoneMsg struct{ err error }

// tuiModel is the interactive roadmap view. Network state lives in the
// controller; the model only renders and forwards key presses.
type tuiModel struct {
	ctx    context.Context
	ctrl   *client.Controller
	events <-chan client.Event
	title  string
	topic  string
	delay  time.Duration

	spinner spinner.Model
	state   client.State
	roadmap core.Roadmap
	percent int
	visible int
	cursorW int
	cursorR int
	err     error
}

func newTUIModel(ctx context.Context, ctrl *client.Controller, title, topic string, delay time.Duration) tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	r, percent := ctrl.Roadmap()
	events, _ := ctrl.Subscribe(64)
	return tuiModel{
		ctx:     ctx,
		ctrl:    ctrl,
		events:  events,
		title:   title,
		topic:   topic,
		delay:   delay,
		spinner: s,
		state:   ctrl.State(),
		roadmap: r,
		percent: percent,
		visible: len(r.Weeks),
		cursorR: -1,
	}
}

func waitForEvent(events <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m tuiModel) revealTick() tea.Cmd {
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return revealMsg{} })
}

func (m tuiModel) request(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg { return requestDoneMsg{err: fn(m.ctx)} }
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		ev := client.Event(msg)
		m.state = ev.State
		m.roadmap = ev.Roadmap
		m.percent = ev.Percent
		cmds := []tea.Cmd{waitForEvent(m.events)}
		switch ev.Kind {
		case client.EventGenerated:
			m.err = nil
			m.visible = 0
			m.cursorW, m.cursorR = 0, -1
			if len(ev.Roadmap.Weeks) == 0 {
				m.ctrl.RevealDone()
			} else {
				m.visible = 1
				if len(ev.Roadmap.Weeks) == 1 {
					m.ctrl.RevealDone()
				} else {
					cmds = append(cmds, m.revealTick())
				}
			}
		case client.EventFailed:
			m.err = ev.Err
		default:
			if m.state != client.StateRevealing {
				m.visible = len(m.roadmap.Weeks)
			}
		}
		return m, tea.Batch(cmds...)

	case revealMsg:
		m.visible++
		if m.visible >= len(m.roadmap.Weeks) {
			m.visible = len(m.roadmap.Weeks)
			m.ctrl.RevealDone()
			m.state = client.StateIdle
			return m, nil
		}
		return m, m.revealTick()

	case requestDoneMsg:
		// Failures arrive as EventFailed; busy rejections only here.
		if errors.Is(msg.err, client.ErrResourceBusy) || errors.Is(msg.err, client.ErrGenerationInFlight) {
			m.err = msg.err
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "g":
		return m, m.request(func(ctx context.Context) error { return m.ctrl.Generate(ctx, m.topic) })
	}
	if len(m.roadmap.Weeks) == 0 || m.state == client.StateRevealing {
		return m, nil
	}

	week := m.roadmap.Weeks[m.cursorW]
	switch msg.String() {
	case "up", "k":
		if m.cursorR > -1 {
			m.cursorR--
		} else if m.cursorW > 0 {
			m.cursorW--
			m.cursorR = len(m.roadmap.Weeks[m.cursorW].Resources) - 1
		}
	case "down", "j":
		if m.cursorR < len(week.Resources)-1 {
			m.cursorR++
		} else if m.cursorW < len(m.roadmap.Weeks)-1 {
			m.cursorW++
			m.cursorR = -1
		}
	case " ", "enter":
		w, r := m.cursorW, m.cursorR
		if r < 0 {
			return m, m.request(func(ctx context.Context) error { return m.ctrl.CompleteWeek(ctx, w) })
		}
		done := !week.Resources[r].Completed
		return m, m.request(func(ctx context.Context) error { return m.ctrl.ToggleResource(ctx, w, r, done) })
	case "c":
		w := m.cursorW
		return m, m.request(func(ctx context.Context) error { return m.ctrl.CompleteWeek(ctx, w) })
	}
	return m, nil
}

func (m tuiModel) View() string {
	header := ""
	switch m.state {
	case client.StateGenerating:
		header = m.spinner.View() + " Drafting your roadmap...\n"
	case client.StateRevealing:
		header = m.spinner.View() + fmt.Sprintf(" Revealing week %d of %d\n", m.visible, len(m.roadmap.Weeks))
	}
	body := renderRoadmap(m.title, m.roadmap, m.percent, renderOpts{
		visible:  m.visible,
		cursorW:  m.cursorW,
		cursorR:  m.cursorR,
		busy:     m.ctrl.Busy,
		showKeys: m.state != client.StateRevealing,
	})
	footer := dimStyle.Render("\ng generate · ↑/↓ move · space toggle · c complete week · q quit")
	if m.err != nil {
		footer = "\n" + errStyle.Render("error: "+m.err.Error()) + footer
	}
	return header + body + footer + "\n"
}

func newTUICmd(app *App) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "tui <path-id>",
		Short: "Interactive roadmap view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePathID(args[0])
			if err != nil {
				return err
			}
			api := app.api()
			p, err := api.GetPath(cmd.Context(), id)
			if err != nil {
				return err
			}
			ctrl := client.NewController(api, id)
			if p.Roadmap != nil {
				ctrl.Seed(*p.Roadmap, p.Version)
			}
			m := newTUIModel(cmd.Context(), ctrl, p.Title, topic, client.DefaultRevealDelay)
			run := app.RunTUI
			if run == nil {
				run = func(m tea.Model) error {
					_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
					return err
				}
			}
			return run(m)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic override used by g")
	return cmd
}
