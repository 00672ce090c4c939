package launcher

import (
	"fmt"
	"os"

	"github.com/liamg/tml"
)

// launchError carries the process exit code alongside the underlying
// error, so main can pick os.Exit's argument without re-deriving it from
// error text.
type launchError struct {
	code int
	err  error
}

func (e *launchError) Error() string { return e.err.Error() }
func (e *launchError) Unwrap() error { return e.err }

// fatalf builds a launchError wrapping a formatted message, mirroring the
// teacher's logError(msg, err, cfg) call shape but returning instead of
// exiting, so callers can unwind and run their own cleanup first.
func fatalf(code int, format string, args ...interface{}) error {
	return &launchError{code: code, err: fmt.Errorf(format, args...)}
}

func wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &launchError{code: code, err: err}
}

// ExitCode extracts the process exit status for an error returned from
// Run; unrecognized errors exit 1. Callers should also print the error
// via Diagnose before exiting.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var le *launchError
	if as(err, &le) {
		return le.code
	}
	return 1
}

// Diagnose renders a "PUISNE: <message>" line to stderr for an error
// returned from Run.
func Diagnose(err error) {
	if err != nil {
		diag(err)
	}
}

func as(err error, target **launchError) bool {
	for err != nil {
		if le, ok := err.(*launchError); ok {
			*target = le
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// diag renders a "PUISNE: <message>" diagnostic to stderr, colored through
// tml the same way the teacher colors "AppBundle Runtime Error: ..." in
// appbundle-runtime.go's logError/logWarning.
func diag(err error) {
	fmt.Fprintln(os.Stderr, tml.Sprintf("<red><bold>PUISNE:</bold></red> %s", err.Error()))
}

// info prints a verbose-only progress line ("PUISNE_VERBOSE=1"); it is a
// pure observability aid and never affects control flow.
func info(cfg *Config, format string, args ...interface{}) {
	if cfg == nil || !cfg.Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, tml.Sprintf("<blue>PUISNE info:</blue> "+format, args...))
}

func warn(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, tml.Sprintf("<yellow><bold>PUISNE warning:</bold></yellow> "+format, args...))
}
