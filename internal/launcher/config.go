package launcher

import "fmt"

// Mode selects whether the launcher overlays the extraction onto the
// invocation directory via a mount namespace, or skips mounting entirely.
type Mode string

const (
	ModeMount Mode = "mount"
	ModeNone  Mode = "none"
)

// Orientation picks which side of the overlay is writable.
type Orientation string

const (
	OrientationOver  Orientation = "over"
	OrientationUnder Orientation = "under"
)

// UnzipPolicy selects the per-entry extraction decision table (see extract.go).
type UnzipPolicy string

const (
	PolicyAll      UnzipPolicy = "all"
	PolicyNew      UnzipPolicy = "new"
	PolicyExisting UnzipPolicy = "existing"
	PolicyUpdate   UnzipPolicy = "update"
	PolicyFreshen  UnzipPolicy = "freshen"
	PolicyNone     UnzipPolicy = "none"
)

// Config is the resolved launcher configuration. Run builds it once
// (defaultConfig, then parseOptions, then the mode-dependent destination
// default) and it is then only read by the extractor, the overlayer, and
// the launcher.
type Config struct {
	Mode        Mode
	Orientation Orientation
	UnzipPolicy UnzipPolicy
	Destination string
	WorkDir     string

	// Verbose is an ambient/observability knob (PUISNE_VERBOSE=1). It has
	// no bearing on extraction or mount semantics.
	Verbose bool
}

func validOrientation(s string) bool {
	return s == string(OrientationOver) || s == string(OrientationUnder)
}

func validUnzipPolicy(s string) bool {
	switch UnzipPolicy(s) {
	case PolicyAll, PolicyNew, PolicyExisting, PolicyUpdate, PolicyFreshen, PolicyNone:
		return true
	default:
		return false
	}
}

func invalidEnumErr(flag, value string, allowed ...string) error {
	return fmt.Errorf("invalid value %q for %s (expected one of %v)", value, flag, allowed)
}
