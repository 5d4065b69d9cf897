package inhibit

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverPath  = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverIface = "org.freedesktop.ScreenSaver"
)

// screenSaverClient is the subset of the session screensaver service used by
// the primary strategy.
type screenSaverClient interface {
	Inhibit(ctx context.Context, application, reason string) (uint32, error)
	UnInhibit(ctx context.Context, cookie uint32) error
}

// Compile-time interface check.
var _ screenSaverClient = (*dbusScreenSaver)(nil)

// dbusScreenSaver talks to org.freedesktop.ScreenSaver over the shared
// session bus connection, connecting lazily on first use.
type dbusScreenSaver struct{}

func (dbusScreenSaver) Inhibit(ctx context.Context, application, reason string) (uint32, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, err
	}

	var cookie uint32
	obj := conn.Object(screenSaverDest, screenSaverPath)
	if err := obj.CallWithContext(ctx, screenSaverIface+".Inhibit", 0, application, reason).Store(&cookie); err != nil {
		return 0, err
	}
	return cookie, nil
}

func (dbusScreenSaver) UnInhibit(ctx context.Context, cookie uint32) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}

	obj := conn.Object(screenSaverDest, screenSaverPath)
	return obj.CallWithContext(ctx, screenSaverIface+".UnInhibit", 0, cookie).Err
}
