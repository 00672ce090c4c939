package launcher

import (
	"fmt"
	"os"
	"runtime"
)

// planHandoff computes the run directory, the entry point's resolved
// absolute path, and the child argument vector, without touching the
// process image. Splitting this out from execHandoff is the seam
// spec.md's design notes call for: tests exercise planHandoff directly
// instead of actually replacing the process.
func planHandoff(cfg *Config, invocationDir, bundleName string, passthrough []string) (entry string, argv []string, err error) {
	runDir := cfg.Destination
	if cfg.Mode == ModeMount {
		runDir = invocationDir
	}

	candidate := joinPath(runDir, bundleName)
	entry, err = realpath(candidate)
	if err != nil {
		return "", nil, fmt.Errorf("resolve entry point %q: %w", candidate, err)
	}
	if info, statErr := os.Stat(entry); statErr != nil {
		return "", nil, fmt.Errorf("entry point %q: %w", entry, statErr)
	} else if info.IsDir() {
		return "", nil, fmt.Errorf("entry point %q is a directory", entry)
	}

	argv = buildChildArgv(entry, passthrough)
	return entry, argv, nil
}

// buildChildArgv constructs the exec-family argument vector of
// spec.md §4.H: a direct [entry, ...passthrough] everywhere except
// Windows, where entry points lacking a ".exe" suffix are dispatched
// through cmd.exe's own file-association rules instead.
func buildChildArgv(entry string, passthrough []string) []string {
	if runtime.GOOS != "windows" {
		argv := make([]string, 0, 1+len(passthrough))
		argv = append(argv, entry)
		return append(argv, passthrough...)
	}

	argv := make([]string, 0, 3+len(passthrough))
	argv = append(argv, windowsComSpec(), "/C", entry)
	return append(argv, passthrough...)
}
