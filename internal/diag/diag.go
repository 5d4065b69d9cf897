// Package diag probes the external tools and services pep depends on.
package diag

import (
	"context"
	"os/exec"

	"github.com/godbus/dbus/v5"
)

const screenSaverName = "org.freedesktop.ScreenSaver"

// Check is the result of probing one dependency.
type Check struct {
	Name    string
	Purpose string
	OK      bool
	Detail  string
}

// Run probes every external dependency and returns one check per item.
func Run(ctx context.Context) []Check {
	checks := []Check{
		commandCheck("systemd-inhibit", "sleep and idle inhibit"),
		commandCheck("xset", "screen blanking fallback"),
		commandCheck("systemctl", "autostart unit management"),
	}
	return append(checks, busChecks(ctx)...)
}

// Required reports whether the checks pep cannot work without all passed.
// Screen blanking has two interchangeable strategies, so only the
// inhibit command itself is required.
func Required(checks []Check) bool {
	for _, c := range checks {
		if c.Name == "systemd-inhibit" && !c.OK {
			return false
		}
	}
	return true
}

func commandCheck(name, purpose string) Check {
	path, err := exec.LookPath(name)
	if err != nil {
		return Check{Name: name, Purpose: purpose, Detail: "not found in PATH"}
	}
	return Check{Name: name, Purpose: purpose, OK: true, Detail: path}
}

func busChecks(ctx context.Context) []Check {
	busCheck := Check{Name: "session bus", Purpose: "ScreenSaver inhibit"}

	conn, err := dbus.SessionBus()
	if err != nil {
		busCheck.Detail = err.Error()
		return []Check{busCheck}
	}
	busCheck.OK = true
	busCheck.Detail = "connected"

	saverCheck := Check{Name: screenSaverName, Purpose: "ScreenSaver service"}

	var hasOwner bool
	call := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus").
		CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, screenSaverName)
	if err := call.Store(&hasOwner); err != nil {
		saverCheck.Detail = err.Error()
	} else if hasOwner {
		saverCheck.OK = true
		saverCheck.Detail = "owned"
	} else {
		saverCheck.Detail = "no owner on the bus"
	}

	return []Check{busCheck, saverCheck}
}
