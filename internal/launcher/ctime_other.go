//go:build !linux

package launcher

import (
	"os"
	"time"
)

// statCtime falls back to modification time on platforms whose FileInfo
// does not expose a status-change time through the same syscall.Stat_t
// shape as Linux (Windows has no ctime notion at all; other POSIX systems
// use a differently-named field). mount-mode operation is Linux-only, so
// in practice this path only matters for -n runs on other platforms.
func statCtime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
