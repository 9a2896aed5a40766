package main

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/buildinfo"
	"github.com/dmitrijs2005/gophdiary/internal/client/cli"
	"github.com/dmitrijs2005/gophdiary/internal/client/config"
	"github.com/spf13/cobra"
)

// shownError marks an error the App has already printed.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// NewRootCmd builds the command tree. Without a subcommand the interactive
// REPL starts.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gophdiary",
		Short:         "GophDiary personal diary client",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			app, err := cli.NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newListCmd(),
		newAddCmd(),
		newDeleteCmd(),
		newImportCmd(),
		newValidateCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoAmICmd(),
		newThemeCmd(),
		newVersionCmd(),
	)
	return root
}

// withApp runs fn against a started App and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Start(ctx); err != nil {
		return err
	}
	if err := fn(ctx, app); err != nil {
		return &shownError{err: err}
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List your entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.List(ctx)
			})
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Write a new entry; reads multi-line input when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Add(ctx, args)
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry by id or unique id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				// prefixes resolve against the current list; Delete reports
				// a missing session itself
				_ = app.Refresh(ctx)
				return app.Delete(ctx, args)
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path | s3://bucket/key>",
		Short: "Import a diary file, one entry per DATE ... END block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Import(ctx, args)
			})
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path | s3://bucket/key>",
		Short: "Check a diary file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			res, err := cli.ValidateImport(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Drafts) == 0 {
				fmt.Fprintln(out, "Not a valid diary file: no complete DATE ... END block found.")
				return &shownError{err: fmt.Errorf("%s: no entries", args[0])}
			}
			fmt.Fprintf(out, "%d entries found", len(res.Drafts))
			if res.Skipped > 0 {
				fmt.Fprintf(out, ", %d incomplete blocks skipped", res.Skipped)
			}
			fmt.Fprintln(out, ".")
			for _, d := range res.Drafts {
				fmt.Fprintf(out, "  %s  %s\n", d.Date, d.Title)
			}
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "login [token]",
		Short:     "Sign in through the browser, or with a pasted access token",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"token"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Login(ctx, args)
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Logout(ctx)
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.WhoAmI(ctx)
			})
		},
	}
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Toggle the color theme, or set it",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Theme(ctx, args)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
