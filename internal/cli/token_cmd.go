package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	var userID, email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		Long:  "Signs a token with the server's configured secret. Intended for local development and tests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth == nil {
				return fmt.Errorf("token signing is not configured")
			}
			id := uuid.New()
			if userID != "" {
				parsed, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid --user %q", userID)
				}
				id = parsed
			}
			tok, exp, err := app.Auth.IssueToken(id, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, tok)
			fmt.Fprintf(app.Err, "user %s, expires %s\n", id, exp.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "dev@localhost", "email claim")
	return cmd
}
