//go:build linux

package launcher

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// applyOverlay performs the unprivileged-root trick, the optional
// intermediate overlay, the primary overlay mount, the privilege
// re-drop, and the current-directory re-anchor described in spec.md
// §4.G. It is only ever called with cfg.Mode == ModeMount, which in
// practice means Linux with a kernel new enough to report
// SupportsOverlayMount.
//
// Namespace state is thread-local in the kernel, so the calling
// goroutine is pinned to its OS thread for the remainder of the process:
// there is no unlocking, since after the final unshare+mount sequence
// the launcher immediately hands off to exec anyway.
func applyOverlay(plan *overlayPlan, invocationDir string) error {
	runtime.LockOSThread()

	uid, gid := os.Getuid(), os.Getgid()
	unprivileged := uid != 0 || gid != 0

	if unprivileged {
		if err := enterUserNamespace(uid, gid); err != nil {
			return fmt.Errorf("enter unprivileged user namespace: %w", err)
		}
	}

	if plan.Nested {
		opts := fmt.Sprintf("upperdir=%s,lowerdir=%s,workdir=%s", plan.InterMount, plan.InterLower, plan.InterWork)
		if err := unix.Mount("overlay", plan.InterMount, "overlay", 0, opts); err != nil {
			return fmt.Errorf("mount intermediate overlay on %q: %w", plan.InterMount, err)
		}
	}

	opts := fmt.Sprintf("upperdir=%s,lowerdir=%s,workdir=%s", plan.Upper, plan.Lower, plan.WorkDir)
	if err := unix.Mount("overlay", invocationDir, "overlay", 0, opts); err != nil {
		return fmt.Errorf("mount overlay on %q: %w", invocationDir, err)
	}

	if unprivileged {
		if err := reenterUserNamespace(uid, gid); err != nil {
			return fmt.Errorf("re-drop privileges: %w", err)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getcwd after mount: %w", err)
	}
	if err := unix.Chdir(cwd); err != nil {
		return fmt.Errorf("re-anchor current directory: %w", err)
	}

	return nil
}

// establishOverlay is the component-G entry point invoked from run.go.
func establishOverlay(cfg *Config, invocationDir string) error {
	plan, err := buildOverlayPlan(cfg, invocationDir)
	if err != nil {
		return err
	}
	return applyOverlay(plan, invocationDir)
}

// enterUserNamespace unshares a new user+mount namespace and maps the
// caller to uid/gid 0 inside it, per the unprivileged-root trick.
func enterUserNamespace(uid, gid int) error {
	if err := unix.Unshare(unix.CLONE_NEWUSER | unix.CLONE_NEWNS); err != nil {
		return err
	}
	if err := os.WriteFile("/proc/self/uid_map", []byte(fmt.Sprintf("0 %d 1\n", uid)), 0o644); err != nil {
		return fmt.Errorf("write uid_map: %w", err)
	}
	if err := os.WriteFile("/proc/self/setgroups", []byte("deny"), 0o644); err != nil {
		return fmt.Errorf("write setgroups: %w", err)
	}
	if err := os.WriteFile("/proc/self/gid_map", []byte(fmt.Sprintf("0 %d 1\n", gid)), 0o644); err != nil {
		return fmt.Errorf("write gid_map: %w", err)
	}
	return nil
}

// reenterUserNamespace unshares a fresh user namespace (without
// CLONE_NEWNS) and writes identity-preserving uid/gid map lines,
// restoring the original caller identity's view inside the new
// namespace. The sequence (a second CLONE_NEWUSER without CLONE_NEWNS,
// followed by "<uid> 0 1" rather than "0 <uid> 1") is preserved verbatim
// rather than re-derived, since whether it reliably restores identity
// across kernels is not clearly documented upstream.
func reenterUserNamespace(uid, gid int) error {
	if err := unix.Unshare(unix.CLONE_NEWUSER); err != nil {
		return err
	}
	if err := os.WriteFile("/proc/self/uid_map", []byte(fmt.Sprintf("%d 0 1\n", uid)), 0o644); err != nil {
		return fmt.Errorf("write uid_map: %w", err)
	}
	if err := os.WriteFile("/proc/self/gid_map", []byte(fmt.Sprintf("%d 0 1\n", gid)), 0o644); err != nil {
		return fmt.Errorf("write gid_map: %w", err)
	}
	return nil
}
