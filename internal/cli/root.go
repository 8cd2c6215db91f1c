package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	client "github.com/yungbote/learnpath-backend/internal/client/roadmap"
	"github.com/yungbote/learnpath-backend/internal/services"
)

// App holds what the roadmapctl commands need.
type App struct {
	Out io.Writer
	Err io.Writer

	ServerURL string
	Token     string

	// Auth mints development tokens for the token command.
	Auth services.AuthService

	IsInteractive func() bool
	RunTUI        func(m tea.Model) error
}

func (a *App) api() *client.API {
	return client.NewAPI(a.ServerURL, a.Token, nil)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "roadmapctl" command.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}
	root := &cobra.Command{
		Use:           "roadmapctl",
		Short:         "Create learning paths and work through their roadmaps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("LEARNPATH_SERVER", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&app.Token, "token", os.Getenv("LEARNPATH_TOKEN"), "bearer token, see the token command")

	root.AddCommand(
		newTokenCmd(app),
		newCreateCmd(app),
		newShowCmd(app),
		newGenerateCmd(app),
		newToggleCmd(app),
		newCompleteWeekCmd(app),
		newTUICmd(app),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parsePathID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid path id %q", s)
	}
	return id, nil
}

// parseIndex reads a 1-based index as typed by a person and returns it
// zero-based.
func parseIndex(kind, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", kind, s)
	}
	return n - 1, nil
}
