//go:build !windows

package launcher

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// windowsComSpec is unused outside Windows builds; it exists so
// buildChildArgv compiles identically on every platform.
func windowsComSpec() string { return "" }

// execHandoff replaces the current process image with entry, forwarding
// argv and the inherited environment. A return from unix.Exec is always
// an error: the call only returns on failure.
func execHandoff(entry string, argv []string) error {
	env := os.Environ()
	if err := unix.Exec(entry, argv, env); err != nil {
		return fmt.Errorf("exec %q: %w", entry, err)
	}
	return fmt.Errorf("exec %q returned unexpectedly", entry)
}
