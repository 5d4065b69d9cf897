package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/pep/internal/autostart"
	"github.com/bnema/pep/internal/cli/styles"
	"github.com/bnema/pep/internal/diag"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show settings, autostart state and dependency checks",
	Long: `Show the current configuration, the state of the login unit, and
whether the external tools pep relies on are available.

Examples:
  pep status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	cfg := app.Config.Get()
	report := styles.StatusReport{
		ConfigFile:       app.Config.ConfigFile(),
		EnabledByDefault: cfg.EnabledByDefault,
		Autostart:        cfg.Autostart,
	}

	if unitPath, err := autostart.UnitPath(); err == nil {
		report.UnitPath = unitPath
		if _, statErr := os.Stat(unitPath); statErr == nil {
			report.UnitInstalled = true
		}
	}
	report.AutostartActive = autostart.New().IsEnabled(ctx)

	checks := diag.Run(ctx)
	report.Checks = make([]styles.DependencyCheck, 0, len(checks))
	for _, c := range checks {
		report.Checks = append(report.Checks, styles.DependencyCheck{
			Name:    c.Name,
			Purpose: c.Purpose,
			OK:      c.OK,
			Detail:  c.Detail,
		})
	}
	report.OverallOK = diag.Required(checks)

	renderer := styles.NewStatusRenderer(app.Theme)
	fmt.Println(renderer.Render(report))

	return nil
}
