package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "" //  tag
	IconGitBranch = "" //  git branch
	IconCalendar  = "" //  calendar
	IconGithub    = "" //  github
	IconHeart     = "" //  heart
	IconGo        = "" //  go gopher

	// Status / diagnostics
	IconCheck   = "" // check
	IconX       = "" // x
	IconWarning = "" // warning
	IconConfig  = "" // config
	IconDesktop = "" // desktop
	IconWrench  = "" // wrench
	IconCoffee  = "" // coffee cup
)
