// Package systemd integrates the daemon with systemd service management.
package systemd

import (
	"fmt"
	"net"
	"time"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"
)

// HTTPSocketName is the FileDescriptorName= of the socket unit that carries
// the status server listener.
const HTTPSocketName = "http"

// HTTPListener returns the socket-activated status server listener, or nil
// when the daemon was not started with one.
func HTTPListener() (net.Listener, error) {
	if len(activation.Files(false)) == 0 {
		return nil, nil
	}

	listeners, err := activation.ListenersWithNames()
	if err != nil {
		return nil, fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if lns, ok := listeners[HTTPSocketName]; ok && len(lns) > 0 {
		return lns[0], nil
	}
	return nil, nil
}

// Notifier sends sd_notify state changes.
type Notifier func(state string) error

// Notify sends state to systemd. Not running under systemd is not an error.
func Notify(state string) error {
	if _, err := daemon.SdNotify(false, state); err != nil {
		return fmt.Errorf("failed to send sd_notify %s: %w", state, err)
	}
	return nil
}

// WatchdogInterval returns how often to send WATCHDOG=1, or 0 when the
// watchdog is disabled. It is half the configured WatchdogSec.
func WatchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil || d <= 0 {
		return 0
	}
	return d / 2
}
