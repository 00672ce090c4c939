//go:build linux

package launcher

import (
	"os"
	"syscall"
	"time"
)

// statCtime extracts the status-change time used by the update/freshen
// comparison in extract.go.
func statCtime(fi os.FileInfo) time.Time {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime()
	}
	return time.Unix(stat.Ctim.Unix())
}
