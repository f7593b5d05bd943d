package cli

import (
	"context"

	"github.com/dmitrijs2005/nexo/internal/buildinfo"
	"github.com/dmitrijs2005/nexo/internal/client/config"
	"github.com/spf13/cobra"
)

// openApp is a test seam for NewApp.
var openApp = NewApp

// Execute builds the command tree and runs it with args (usually os.Args[1:]).
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd(args)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCmd creates the "nexo" command. Global flags are declared here for
// help and validation; their values are read by config.LoadConfig from args,
// so the same flags also work before or after the subcommand name.
func NewRootCmd(args []string) *cobra.Command {
	root := &cobra.Command{
		Use:          "nexo",
		Short:        "NEXO command-line client",
		Long:         "NEXO: sign in, manage cookie consent and install prompts, and chat from the terminal.",
		Version:      buildinfo.Version,
		SilenceUsage: true,
		RunE: withApp(args, func(ctx context.Context, a *App) error {
			a.Run(ctx)
			return nil
		}),
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to a JSON or YAML config file")
	pf.StringP("api", "a", "", "base URL of the NEXO API")
	pf.IntP("interval", "i", 0, "online check interval (in seconds)")
	pf.StringP("db", "d", "", "path of the local database")
	pf.StringP("log", "l", "", "log format: text, json or console")

	root.AddCommand(newShellCmd(args))
	root.AddCommand(newWhoAmICmd(args))
	root.AddCommand(newConsentCmd(args))
	root.AddCommand(newInstallCmd(args))

	return root
}

func withApp(args []string, fn func(ctx context.Context, a *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig(args)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(cmd.Context(), a)
	}
}

func newShellCmd(args []string) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: withApp(args, func(ctx context.Context, a *App) error {
			buildinfo.PrintBuildData(a.out)
			a.Run(ctx)
			return nil
		}),
	}
}

func newWhoAmICmd(args []string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: withApp(args, func(ctx context.Context, a *App) error {
			return a.WhoAmI(ctx)
		}),
	}
}

func newConsentCmd(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Show or change cookie consent",
	}

	sub := func(use, short string, fn func(ctx context.Context, a *App) error) *cobra.Command {
		return &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs, RunE: withApp(args, fn)}
	}

	cmd.AddCommand(sub("show", "Show the current decision", func(ctx context.Context, a *App) error {
		return a.Consent(ctx, []string{"show"})
	}))
	cmd.AddCommand(sub("accept", "Allow analytics", func(ctx context.Context, a *App) error {
		return a.Consent(ctx, []string{"accept"})
	}))
	cmd.AddCommand(sub("reject", "Keep essential cookies only", func(ctx context.Context, a *App) error {
		return a.Consent(ctx, []string{"reject"})
	}))
	cmd.AddCommand(sub("history", "List recent decisions", func(ctx context.Context, a *App) error {
		return a.Consent(ctx, []string{"history"})
	}))

	var analytics bool
	save := sub("save", "Save an explicit analytics choice", func(ctx context.Context, a *App) error {
		return a.Consent(ctx, []string{"save", onOff(analytics)})
	})
	save.Flags().BoolVar(&analytics, "analytics", false, "allow analytics")
	cmd.AddCommand(save)

	return cmd
}

func newInstallCmd(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Inspect or dismiss the install prompt",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show install and update state",
		Args:  cobra.NoArgs,
		RunE: withApp(args, func(ctx context.Context, a *App) error {
			a.install.Start(ctx)
			return a.Install(ctx, []string{"status"})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Hide the install prompt for the cooldown period",
		Args:  cobra.NoArgs,
		RunE: withApp(args, func(ctx context.Context, a *App) error {
			return a.Install(ctx, []string{"dismiss"})
		}),
	})

	return cmd
}
