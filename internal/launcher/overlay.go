package launcher

import (
	"fmt"
	"os"
)

// overlayPlan is the pure result of resolving orientation and nested-path
// detection into concrete (upper, lower, work) directories. Computing it
// has no OS-specific dependency; only applying it (overlay_linux.go) does.
type overlayPlan struct {
	Upper   string
	Lower   string
	WorkDir string

	// Nested is true when an intermediate overlay was required because
	// the destination lives inside invocationDir, the primary mount's
	// target (spec.md §4.G's mount-cycle avoidance, checked in
	// buildOverlayPlan).
	Nested bool
	// InterMount/InterWork/InterLower are only meaningful when Nested.
	// The intermediate overlay is mounted on InterMount with upperdir =
	// InterMount, lowerdir = InterLower (the original, pre-nested lower),
	// workdir = InterWork; Lower above is then replaced with InterMount
	// for the primary mount, exactly as described.
	InterMount string
	InterWork  string
	InterLower string
}

// buildOverlayPlan resolves the upper/lower assignment for cfg.Orientation
// and detects the nested-path case, materializing whatever scratch
// directories the plan requires. It performs no mount or namespace
// operations; those are OS-specific and live in overlay_linux.go.
func buildOverlayPlan(cfg *Config, invocationDir string) (*overlayPlan, error) {
	var upper, lower string
	switch cfg.Orientation {
	case OrientationOver:
		upper, lower = cfg.Destination, invocationDir
	case OrientationUnder:
		upper, lower = invocationDir, cfg.Destination
	default:
		return nil, fmt.Errorf("unknown overlay orientation %q", cfg.Orientation)
	}

	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory %q: %w", cfg.WorkDir, err)
	}

	plan := &overlayPlan{Upper: upper, Lower: lower, WorkDir: cfg.WorkDir}

	// The mount cycle this guards against is rooted at invocationDir,
	// since that is always the primary overlay's mount target regardless
	// of orientation (see the primary-overlay mount below): if the
	// destination directory lives inside invocationDir — the default
	// layout, <invocation_dir>/.puisne/<name>.app — mounting directly
	// would make the overlay's own source directory a subtree of its own
	// mountpoint. Scenario S6 (destination nested under invocation_dir,
	// orientation over) is the concrete case this is checked against.
	if !isPrefix(invocationDir, cfg.Destination) {
		return plan, nil
	}

	interMount := joinPath(cfg.WorkDir, "inter.mnt")
	interWork := joinPath(cfg.WorkDir, "inter.wrk")
	if err := os.MkdirAll(interMount, 0o755); err != nil {
		return nil, fmt.Errorf("create intermediate overlay mount dir: %w", err)
	}
	if err := os.MkdirAll(interWork, 0o755); err != nil {
		return nil, fmt.Errorf("create intermediate overlay work dir: %w", err)
	}

	overWork := joinPath(cfg.WorkDir, "over.wrk")
	if err := os.MkdirAll(overWork, 0o755); err != nil {
		return nil, fmt.Errorf("create primary overlay work dir: %w", err)
	}

	plan.Nested = true
	plan.InterMount = interMount
	plan.InterWork = interWork
	plan.InterLower = plan.Lower
	plan.Lower = interMount
	plan.WorkDir = overWork
	return plan, nil
}
