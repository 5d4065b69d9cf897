package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/getlantern/systray"

	"github.com/bnema/pep/internal/autostart"
	"github.com/bnema/pep/internal/build"
	"github.com/bnema/pep/internal/cli/cmd"
	"github.com/bnema/pep/internal/config"
	"github.com/bnema/pep/internal/inhibit"
	"github.com/bnema/pep/internal/logging"
	"github.com/bnema/pep/internal/tray"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	enableCrashForensics()

	// Run tray mode for no arguments or the tray command
	if len(os.Args) <= 1 || os.Args[1] == "tray" {
		os.Exit(runTray())
		return
	}

	// Pass build info to CLI
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	// Everything else goes through cobra
	cmd.Execute()
}

func runTray() int {
	runtime.LockOSThread()

	logger := logging.NewFromEnv()
	ctx := logging.WithContext(context.Background(), logger)
	log := logging.FromContext(ctx)

	if err := config.Init(logging.WithComponent(ctx, "config")); err != nil {
		log.Error().Err(err).Msg("failed to initialize config")
		return 1
	}
	cfgManager := config.Global()

	logCoreDumpLimits(ctx)

	cfg := cfgManager.Get()
	log.Info().
		Bool("enabled_by_default", cfg.EnabledByDefault).
		Bool("autostart", cfg.Autostart).
		Msg("config loaded")

	// Live reload keeps the on-disk file authoritative for the next start.
	if err := cfgManager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
	cfgManager.OnConfigChange(func(c *config.Config) {
		log.Info().
			Bool("enabled_by_default", c.EnabledByDefault).
			Bool("autostart", c.Autostart).
			Msg("config reloaded")
	})

	lock := inhibit.NewProcessLock()
	guard := inhibit.NewScreenBlankGuard()
	coordinator := inhibit.NewCoordinator(lock, guard)

	if cfg.EnabledByDefault {
		if coordinator.Enable(ctx) {
			log.Info().Msg("keep-awake enabled on startup")
		} else {
			log.Warn().Msg("failed to enable keep-awake on startup")
		}
	}

	indicator := tray.New(logging.WithComponent(ctx, "tray"), coordinator, cfgManager, autostart.New())

	setupSignalHandler(ctx)

	indicator.Run()
	return 0
}

func setupSignalHandler(ctx context.Context) {
	log := logging.FromContext(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		signal.Stop(sigCh)
		log.Info().Str("signal", sig.String()).Msg("received interrupt, quitting")
		systray.Quit()
	}()
}
