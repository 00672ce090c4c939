//go:build !linux

package launcher

import "fmt"

// establishOverlay is unreachable in practice: probePlatform only ever
// reports SupportsOverlayMount on Linux, so ModeMount can only be active
// here if a caller constructs a Config by hand (e.g. in a test). Kept so
// the package builds on every platform the launcher targets.
func establishOverlay(cfg *Config, invocationDir string) error {
	return fmt.Errorf("mount-namespace overlay is only supported on linux")
}
