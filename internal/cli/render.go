package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	weekStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
)

type renderOpts struct {
	visible  int // weeks to show, -1 for all
	cursorW  int
	cursorR  int // -1 selects the week row
	busy     func(week, resource int) bool
	showKeys bool
}

func checkbox(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}

func progressBar(percent, width int) string {
	filled := width * percent / 100
	return doneStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func renderRoadmap(title string, r core.Roadmap, percent int, opts renderOpts) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %d%%\n", progressBar(percent, 20), percent)
	if len(r.Weeks) == 0 {
		b.WriteString(dimStyle.Render("No roadmap yet. Generate one to get started."))
		b.WriteString("\n")
		return b.String()
	}

	weeks := r.Weeks
	if opts.visible >= 0 && opts.visible < len(weeks) {
		weeks = weeks[:opts.visible]
	}
	for wi, w := range weeks {
		b.WriteString(renderWeek(wi, w, opts))
	}
	return b.String()
}

func renderWeek(wi int, w core.Week, opts renderOpts) string {
	var b strings.Builder
	line := fmt.Sprintf("%s Week %d: %s", checkbox(w.Completed), wi+1, w.Title)
	if opts.busy != nil && opts.busy(wi, -1) {
		line += dimStyle.Render(" (saving)")
	}
	if opts.showKeys && wi == opts.cursorW && opts.cursorR < 0 {
		line = cursorStyle.Render(line)
	}
	b.WriteString("\n" + weekStyle.Render(line) + "\n")
	for _, g := range w.Goals {
		b.WriteString(dimStyle.Render("    • "+g) + "\n")
	}
	for ri, res := range w.Resources {
		line := fmt.Sprintf("    %s %-8s %s", checkbox(res.Completed || w.Completed), res.Type, res.Title)
		if res.URL != "" {
			line += dimStyle.Render("  " + res.URL)
		}
		if opts.busy != nil && opts.busy(wi, ri) {
			line += dimStyle.Render(" (saving)")
		}
		if opts.showKeys && wi == opts.cursorW && ri == opts.cursorR {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
