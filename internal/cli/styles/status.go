package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	statusYes = "Yes"
	statusNo  = "No"
)

// StatusRenderer renders the pep status report.
type StatusRenderer struct {
	theme *Theme
}

func NewStatusRenderer(theme *Theme) *StatusRenderer {
	return &StatusRenderer{theme: theme}
}

// StatusReport collects everything `pep status` shows.
type StatusReport struct {
	OverallOK bool

	ConfigFile       string
	EnabledByDefault bool
	Autostart        bool

	UnitPath        string
	UnitInstalled   bool
	AutostartActive bool

	Checks []DependencyCheck
}

// DependencyCheck is one probed external tool or service.
type DependencyCheck struct {
	Name    string
	Purpose string
	OK      bool
	Detail  string
}

func (r *StatusRenderer) Render(report StatusReport) string {
	header := r.renderHeader(report.OverallOK)

	sections := []string{
		r.renderSettings(report),
		r.renderAutostart(report),
	}
	if len(report.Checks) > 0 {
		sections = append(sections, r.renderChecks(report.Checks))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(sections, "\n\n"))
}

func (r *StatusRenderer) renderHeader(ok bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	statusStyle := r.theme.SuccessStyle
	statusText := "Ready"
	if !ok {
		statusStyle = r.theme.WarningStyle
		statusText = "Needs attention"
	}

	title := fmt.Sprintf("%s %s", iconStyle.Render(IconCoffee), r.theme.Title.Render("Pep"))
	badge := r.theme.BadgeMuted.Render(statusStyle.Render(statusText))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (r *StatusRenderer) renderSettings(report StatusReport) string {
	lines := []string{
		r.keyValue("Config file", report.ConfigFile),
		r.keyValue("Keep awake on start", yesNo(report.EnabledByDefault)),
		r.keyValue("Start on boot", yesNo(report.Autostart)),
	}

	body := strings.Join(lines, "\n")
	return r.theme.Box.Render(r.theme.BoxHeader.Render(fmt.Sprintf("%s Settings", r.theme.Highlight.Render(IconConfig))) + "\n" + body)
}

func (r *StatusRenderer) renderAutostart(report StatusReport) string {
	unitState := "not installed"
	unitStyle := r.theme.Subtle
	if report.UnitInstalled {
		unitState = "installed"
		unitStyle = r.theme.SuccessStyle
	}

	activeState := "disabled"
	activeStyle := r.theme.Subtle
	if report.AutostartActive {
		activeState = "enabled"
		activeStyle = r.theme.SuccessStyle
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", r.theme.Subtle.Render("Unit"), r.theme.Normal.Render(report.UnitPath), unitStyle.Render("("+unitState+")")),
		r.keyValueStyled("systemctl --user", activeStyle.Render(activeState)),
	}

	body := strings.Join(lines, "\n")
	return r.theme.Box.Render(r.theme.BoxHeader.Render(fmt.Sprintf("%s Autostart", r.theme.Highlight.Render(IconDesktop))) + "\n" + body)
}

func (r *StatusRenderer) renderChecks(checks []DependencyCheck) string {
	lines := make([]string, 0, len(checks))
	for _, c := range checks {
		lines = append(lines, r.renderCheck(c))
	}

	body := strings.Join(lines, "\n")
	return r.theme.Box.Render(r.theme.BoxHeader.Render(fmt.Sprintf("%s Dependencies", r.theme.Highlight.Render(IconWrench))) + "\n" + body)
}

func (r *StatusRenderer) renderCheck(c DependencyCheck) string {
	icon := r.theme.SuccessStyle.Render(IconCheck)
	if !c.OK {
		icon = r.theme.ErrorStyle.Render(IconX)
	}

	line := fmt.Sprintf("%s %s %s", icon, r.theme.Normal.Render(c.Name), r.theme.Subtle.Render(c.Purpose))
	if c.Detail != "" {
		line += " " + r.theme.Subtle.Render("("+c.Detail+")")
	}
	return line
}

func (r *StatusRenderer) keyValue(key, value string) string {
	return fmt.Sprintf("%s %s", r.theme.Subtle.Render(key), r.theme.Normal.Render(value))
}

func (r *StatusRenderer) keyValueStyled(key, styledValue string) string {
	return fmt.Sprintf("%s %s", r.theme.Subtle.Render(key), styledValue)
}

func yesNo(v bool) string {
	if v {
		return statusYes
	}
	return statusNo
}
