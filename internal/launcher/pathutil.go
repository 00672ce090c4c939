package launcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// expandTilde replaces a leading "~" with the resolved home directory,
// unless a literal directory named "~" exists in the current working
// directory (spec.md §4.B). Home directory resolution is delegated to
// adrg/xdg's xdg.Home, which itself reads $HOME on POSIX and %USERPROFILE%
// on Windows — the home-directory collaborator named in spec.md §1.
func expandTilde(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}

	if fi, err := os.Stat("~"); err == nil && fi.IsDir() {
		return p
	}

	if p == "~" {
		return xdg.Home
	}
	return filepath.Join(xdg.Home, p[2:])
}

// realpath resolves p to a canonical absolute form: made absolute against
// the working directory, then symlink-resolved. Unlike filepath.EvalSymlinks,
// a nonexistent target degrades to filepath.Abs+Clean instead of erroring,
// since realpath is used on paths the launcher is about to create.
func realpath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

// isPrefix holds iff canonicalized a is b or a proper path-component
// ancestor of b.
func isPrefix(a, b string) bool {
	ra, err := realpath(a)
	if err != nil {
		return false
	}
	rb, err := realpath(b)
	if err != nil {
		return false
	}

	if ra == rb {
		return true
	}

	rel, err := filepath.Rel(ra, rb)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".."
}

// selfPath resolves argv[0] to the running binary's canonical path.
func selfPath(argv0 string) (string, error) {
	p, err := filepath.EvalSymlinks(argv0)
	if err != nil {
		// argv0 may be a bare name resolved via PATH by the shell; fall
		// back to os.Executable, which consults the OS process image path.
		exe, exeErr := os.Executable()
		if exeErr != nil {
			return "", err
		}
		return filepath.EvalSymlinks(exe)
	}
	return filepath.Abs(p)
}

// invocationDir is the directory containing the running binary, resolved
// once at startup before any chdir, per spec.md's Invocation state.
func invocationDir(self string) string {
	return filepath.Dir(self)
}

// joinPath is the project's typed path-builder: every multi-component path
// assembled by the launcher goes through here instead of ad hoc string
// concatenation, per spec.md's "variadic path concatenation" design note.
func joinPath(elems ...string) string {
	return filepath.Join(elems...)
}
