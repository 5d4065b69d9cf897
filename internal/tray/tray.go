// Package tray renders the pep system tray indicator and menu.
package tray

import (
	"context"

	"github.com/getlantern/systray"

	"github.com/bnema/pep/assets"
	"github.com/bnema/pep/internal/autostart"
	"github.com/bnema/pep/internal/config"
	"github.com/bnema/pep/internal/inhibit"
	"github.com/bnema/pep/internal/logging"
)

// Indicator is the tray menu wired to the inhibitor, config and autostart.
type Indicator struct {
	ctx       context.Context
	inhibitor *inhibit.Coordinator
	cfg       *config.Manager
	auto      *autostart.Manager
}

// New creates a tray indicator.
func New(ctx context.Context, inhibitor *inhibit.Coordinator, cfg *config.Manager, auto *autostart.Manager) *Indicator {
	return &Indicator{
		ctx:       ctx,
		inhibitor: inhibitor,
		cfg:       cfg,
		auto:      auto,
	}
}

// Run starts the tray main loop and blocks until Quit is selected or
// systray.Quit is called from a signal handler.
func (i *Indicator) Run() {
	systray.Run(i.onReady, i.onExit)
}

func (i *Indicator) onReady() {
	log := logging.FromContext(i.ctx)
	log.Info().Msg("starting system tray indicator")

	systray.SetTooltip("Pep keeps your desktop awake")
	i.updateIcon()

	keepAwake := systray.AddMenuItemCheckbox("Keep Awake", "Prevent sleep and screen blanking", i.inhibitor.IsActive())
	systray.AddSeparator()
	startOnBoot := systray.AddMenuItemCheckbox("Start on Boot", "Start pep when you log in", i.cfg.Get().Autostart)
	if !i.auto.Available() {
		log.Warn().Msg("systemctl not found, autostart toggle disabled")
		startOnBoot.Disable()
	}
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "")

	go func() {
		for {
			select {
			case <-keepAwake.ClickedCh:
				i.toggleKeepAwake(keepAwake)
			case <-startOnBoot.ClickedCh:
				i.toggleAutostart(startOnBoot)
			case <-quit.ClickedCh:
				log.Info().Msg("quit requested")
				systray.Quit()
				return
			}
		}
	}()
}

// toggleKeepAwake flips the inhibitor. The checkbox only changes when the
// underlying operation succeeds, so a failed toggle leaves the menu honest.
func (i *Indicator) toggleKeepAwake(item *systray.MenuItem) {
	log := logging.FromContext(i.ctx)

	enabled := !item.Checked()
	if enabled {
		if !i.inhibitor.Enable(i.ctx) {
			return
		}
		item.Check()
	} else {
		if !i.inhibitor.Disable(i.ctx) {
			return
		}
		item.Uncheck()
	}

	i.updateIcon()

	if err := i.cfg.SetEnabledByDefault(enabled); err != nil {
		log.Warn().Err(err).Msg("failed to save config")
	}
	log.Info().Bool("enabled", enabled).Msg("keep-awake state changed")
}

// toggleAutostart flips the login unit. The preference is saved before
// touching systemd so the config reflects what the user asked for.
func (i *Indicator) toggleAutostart(item *systray.MenuItem) {
	log := logging.FromContext(i.ctx)

	enabled := !item.Checked()
	if err := i.cfg.SetAutostart(enabled); err != nil {
		log.Warn().Err(err).Msg("failed to save config")
	}

	var err error
	if enabled {
		err = i.auto.Enable(i.ctx)
	} else {
		err = i.auto.Disable(i.ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to toggle autostart")
		return
	}

	if enabled {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func (i *Indicator) updateIcon() {
	if i.inhibitor.IsActive() {
		systray.SetIcon(assets.IconCupFull)
	} else {
		systray.SetIcon(assets.IconCupEmpty)
	}
}

func (i *Indicator) onExit() {
	log := logging.FromContext(i.ctx)

	i.inhibitor.Cleanup(i.ctx)
	if err := i.cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save config on exit")
	}
	log.Info().Msg("tray indicator stopped")
}
