package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbaru/internal/app"
	"github.com/mesh-intelligence/kanbaru/internal/render"
)

type whoamiJSON struct {
	Username string `json:"username"`
	LoggedIn bool   `json:"logged_in"`
	DataDir  string `json:"data_dir"`
	Remote   string `json:"remote"`
}

func newSignupCmd(f *rootFlags) *cobra.Command {
	var password, confirm string
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account and upload the current boards to it",
		Example: `  kanbaru signup ada --password s3cret --confirm s3cret`,
		Args:    argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Signup(ctx, args[0], password, confirm); err != nil {
					return err
				}
				return f.printDone(cmd, "Signed up as %q", args[0])
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password again")
	return cmd
}

func newLoginCmd(f *rootFlags) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and replace the local boards with the account's boards",
		Args:  argsError(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Login(ctx, args[0], password); err != nil {
					return err
				}
				return f.printDone(cmd, "Logged in as %q", args[0])
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the credentials and clear the local boards",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Logout(); err != nil {
					return err
				}
				return f.printDone(cmd, "Logged out")
			})
		},
	}
}

func newDeleteAccountCmd(f *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account, its remote boards and the local boards",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usageError{err: fmt.Errorf("delete-account removes all boards; pass --yes to confirm")}
			}
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				username := a.Store.Credentials().Username
				if err := a.DeleteAccount(ctx); err != nil {
					return err
				}
				return f.printDone(cmd, "Deleted account %q", username)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newWhoamiCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  argsError(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withApp(cmd, func(ctx context.Context, a *app.App) error {
				creds := a.Store.Credentials()
				if f.jsonMode {
					return printJSON(cmd, whoamiJSON{
						Username: creds.Username,
						LoggedIn: creds.LoggedIn(),
						DataDir:  a.DataDir,
						Remote:   a.Config.Remote.Backend,
					})
				}
				if !creds.LoggedIn() {
					fmt.Fprintln(cmd.OutOrStdout(), render.EmptyStyle.Render("Not logged in"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), creds.Username)
				return nil
			})
		},
	}
}
