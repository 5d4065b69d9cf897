// Package cmd provides Cobra CLI commands for pep.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/pep/internal/build"
	"github.com/bnema/pep/internal/cli"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "pep",
		Short: "Keep your Linux desktop awake from the system tray",
		Long: `Pep parks a coffee cup in your system tray and keeps the desktop
awake while the cup is full.

While enabled it blocks sleep and idle through systemd-inhibit, and stops
screen blanking via the freedesktop ScreenSaver D-Bus service with an
xset fallback for desktops that do not expose one.

Run 'pep' with no arguments to start the tray indicator, or explore the
subcommands for status reporting and autostart management.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// trayCmd is a placeholder for help - actual execution is in main.go
var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Start the system tray indicator",
	Long: `Start the pep system tray indicator.

Running 'pep' with no arguments does the same thing.`,
	Run: func(_ *cobra.Command, _ []string) {
		// This is handled by main.go before cobra runs
	},
}

func init() {
	rootCmd.AddCommand(trayCmd)
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
