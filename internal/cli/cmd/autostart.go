package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/pep/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage starting pep at login",
	Long: `Install, enable or disable the pep systemd user unit.

Examples:
  pep autostart enable
  pep autostart disable`,
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Install the user unit and enable it",
	RunE:  runAutostartEnable,
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the user unit",
	RunE:  runAutostartDisable,
}

func init() {
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	rootCmd.AddCommand(autostartCmd)
}

func runAutostartEnable(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	if err := autostart.New().Enable(app.Ctx()); err != nil {
		return err
	}
	if err := app.Config.SetAutostart(true); err != nil {
		return fmt.Errorf("autostart enabled but config save failed: %w", err)
	}

	fmt.Println(app.Theme.SuccessStyle.Render("Autostart enabled, pep will start at login"))
	return nil
}

func runAutostartDisable(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	if err := autostart.New().Disable(app.Ctx()); err != nil {
		return err
	}
	if err := app.Config.SetAutostart(false); err != nil {
		return fmt.Errorf("autostart disabled but config save failed: %w", err)
	}

	fmt.Println(app.Theme.Subtle.Render("Autostart disabled"))
	return nil
}
