package launcher

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// Platform is the result of the platform probe (component A). It is
// computed once at startup and threaded through Config resolution.
type Platform struct {
	IsWindows            bool
	SupportsOverlayMount bool
}

// minOverlayKernel is the lowest kernel release, as a dotted-integer
// triple, that the launcher will attempt an overlay mount against.
var minOverlayKernel = [3]int{5, 12, 0}

// probePlatform detects the OS and kernel release the same way the
// teacher's RuntimeConfig build-tag split separates platform-specific
// behavior, but as data rather than as compiled variants: a single binary
// decides its own overlay support at runtime.
func probePlatform() Platform {
	p := Platform{IsWindows: runtime.GOOS == "windows"}
	if p.IsWindows {
		return p
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return p
	}

	if !strings.EqualFold(info.OS, "linux") {
		return p
	}

	release, ok := parseKernelRelease(info.KernelVersion)
	if !ok {
		return p
	}

	p.SupportsOverlayMount = compareVersions(release, minOverlayKernel) >= 0
	return p
}

// parseKernelRelease parses the dotted-integer prefix of a kernel release
// string (e.g. "5.15.0-91-generic" -> [5,15,0]), tolerating any trailing
// non-numeric suffix on the patch component, per spec.md §4.A. Any parse
// failure on the major/minor components makes the whole probe fail closed.
func parseKernelRelease(release string) ([3]int, bool) {
	var out [3]int
	if release == "" {
		return out, false
	}

	parts := strings.SplitN(release, ".", 3)
	if len(parts) < 2 {
		return out, false
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return out, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return out, false
	}
	out[0], out[1] = major, minor

	if len(parts) == 3 {
		patch := parts[2]
		// Trim at the first rune that isn't a digit (e.g. "0-91-generic").
		end := len(patch)
		for i, r := range patch {
			if r < '0' || r > '9' {
				end = i
				break
			}
		}
		if end > 0 {
			if n, err := strconv.Atoi(patch[:end]); err == nil {
				out[2] = n
			}
		}
	}

	return out, true
}

// compareVersions performs a lexicographic comparison of dotted-integer
// triples, returning -1, 0, or 1.
func compareVersions(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
