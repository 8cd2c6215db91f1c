package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	client "github.com/yungbote/learnpath-backend/internal/client/roadmap"
	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

func newCreateCmd(app *App) *cobra.Command {
	var req client.CreatePathRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a learning path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Title) == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				if err := createPathForm(&req).Run(); err != nil {
					return err
				}
			}
			p, err := app.api().CreatePath(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Created path %s (%s)\n", p.ID, p.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "path title")
	cmd.Flags().StringVar(&req.Description, "description", "", "path description")
	cmd.Flags().StringSliceVar(&req.TargetSkills, "skills", nil, "target skills")
	cmd.Flags().StringVar(&req.Difficulty, "difficulty", "", "beginner, intermediate or advanced")
	return cmd
}

func createPathForm(req *client.CreatePathRequest) *huh.Form {
	var skills string
	if req.Difficulty == "" {
		req.Difficulty = core.DefaultLevel
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you want to learn?").
				Placeholder("Go concurrency").
				Value(&req.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Skills to focus on (comma separated)").
				Value(&skills).
				Validate(func(s string) error {
					req.TargetSkills = splitSkills(s)
					return nil
				}),
			huh.NewSelect[string]().
				Title("Level").
				Options(
					huh.NewOption("Beginner", "beginner"),
					huh.NewOption("Intermediate", "intermediate"),
					huh.NewOption("Advanced", "advanced"),
				).
				Value(&req.Difficulty),
		),
	).WithShowHelp(false)
}

func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path-id>",
		Short: "Print a path and its roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePathID(args[0])
			if err != nil {
				return err
			}
			p, err := app.api().GetPath(cmd.Context(), id)
			if err != nil {
				return err
			}
			r := core.Empty()
			if p.Roadmap != nil {
				r = *p.Roadmap
			}
			fmt.Fprint(app.Out, renderRoadmap(p.Title, r, p.ProgressPercentage, renderOpts{visible: -1}))
			return nil
		},
	}
}

func newGenerateCmd(app *App) *cobra.Command {
	var topic string
	var noReveal bool
	cmd := &cobra.Command{
		Use:   "generate <path-id>",
		Short: "Generate the roadmap for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePathID(args[0])
			if err != nil {
				return err
			}
			ctrl := client.NewController(app.api(), id)
			events, cancel := ctrl.Subscribe(8)
			defer cancel()

			fmt.Fprintln(app.Err, "Generating roadmap...")
			if err := ctrl.Generate(cmd.Context(), topic); err != nil {
				return err
			}
			ev := lastGenerated(events)
			if noReveal {
				ctrl.RevealDone()
				fmt.Fprint(app.Out, renderRoadmap("", ev.Roadmap, ev.Percent, renderOpts{visible: -1}))
				return nil
			}
			return revealTo(cmd.Context(), app, ctrl, ev)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic override (defaults to the path title)")
	cmd.Flags().BoolVar(&noReveal, "no-reveal", false, "print the whole roadmap at once")
	return cmd
}

// lastGenerated drains events already published and returns the Generated
// one.
func lastGenerated(events <-chan client.Event) client.Event {
	var out client.Event
	for {
		select {
		case ev := <-events:
			if ev.Kind == client.EventGenerated {
				out = ev
			}
		default:
			return out
		}
	}
}

func revealTo(ctx context.Context, app *App, ctrl *client.Controller, ev client.Event) error {
	fmt.Fprintf(app.Out, "%s %d%%\n", progressBar(ev.Percent, 20), ev.Percent)
	r := client.NewRevealer(client.DefaultRevealDelay)
	return r.Run(ctx, ctrl, ev, func(visible int) {
		fmt.Fprint(app.Out, renderWeek(visible-1, ev.Roadmap.Weeks[visible-1], renderOpts{}))
	})
}

func newToggleCmd(app *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "toggle <path-id> <week> <resource>",
		Short: "Mark a resource done (weeks and resources are numbered from 1)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePathID(args[0])
			if err != nil {
				return err
			}
			week, err := parseIndex("week", args[1])
			if err != nil {
				return err
			}
			resource, err := parseIndex("resource", args[2])
			if err != nil {
				return err
			}
			done := !undo
			res, err := app.api().UpdateProgress(cmd.Context(), id, client.ProgressRequest{
				WeekIndex:     week,
				ResourceIndex: &resource,
				Completed:     &done,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, renderRoadmap("", res.Roadmap, res.Percent, renderOpts{visible: -1}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the resource not done")
	return cmd
}

func newCompleteWeekCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete-week <path-id> <week>",
		Short: "Mark a whole week done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePathID(args[0])
			if err != nil {
				return err
			}
			week, err := parseIndex("week", args[1])
			if err != nil {
				return err
			}
			res, err := app.api().UpdateProgress(cmd.Context(), id, client.ProgressRequest{WeekIndex: week, CompleteWeek: true})
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, renderRoadmap("", res.Roadmap, res.Percent, renderOpts{visible: -1}))
			return nil
		},
	}
}
