package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Run drives the full launcher pipeline described in spec.md §2's data
// flow: argument partitioning, archive manifest construction, .args
// merging, option parsing, extraction, the optional namespace overlay,
// and the final hand-off. It returns nil only after printing the
// empty-bundle message or the -h help text; on a successful hand-off it
// does not return at all (execHandoff only returns on failure).
func Run(ctx context.Context, argv []string) error {
	self, err := selfPath(argv[0])
	if err != nil {
		return wrap(1, fmt.Errorf("resolve self path: %w", err))
	}
	invDir := invocationDir(self)

	verbose := os.Getenv("PUISNE_VERBOSE") == "1"
	verboseCfg := &Config{Verbose: verbose}

	info(verboseCfg, "partition: argv=%v", argv)
	cliLauncherArgs, passthrough := partitionArgv(argv)

	info(verboseCfg, "manifest: reading archive from %s", self)
	m, err := buildManifest(ctx, self)
	if errors.Is(err, errEmptyBundle) {
		fmt.Println("This is an empty PUISNE bundle: it carries no <name>.app/ directory to run.")
		fmt.Println(helpText(nil))
		return nil
	}
	if err != nil {
		return wrap(3, fmt.Errorf("read archive: %w", err))
	}

	launcherArgs := cliLauncherArgs
	if m.HasArgsFile {
		launcherArgs = mergeArgsFile(loadArgsFile(m.ArgsFile), cliLauncherArgs)
	}

	platform := probePlatform()
	defaults, destinationFromEnv, err := defaultConfig(platform, invDir, m.Name)
	if err != nil {
		return wrap(1, fmt.Errorf("compute defaults: %w", err))
	}

	cfg, destinationExplicit, err := parseOptions(ctx, launcherArgs, defaults, platform)
	if errors.Is(err, helpRequested) {
		fmt.Println(helpText(m))
		return nil
	}
	if err != nil {
		return err
	}

	if !destinationExplicit && !destinationFromEnv {
		cfg.Destination = defaultDestination(cfg.Mode, invDir, m.Name)
	}

	if cfg.UnzipPolicy != PolicyNone {
		info(&cfg, "extract: policy=%s destination=%s", cfg.UnzipPolicy, cfg.Destination)
		if err := extract(&cfg, m); err != nil {
			return wrap(4, err)
		}
	}

	if cfg.Mode == ModeMount {
		info(&cfg, "overlay: orientation=%s workdir=%s", cfg.Orientation, cfg.WorkDir)
		if err := establishOverlay(&cfg, invDir); err != nil {
			return wrap(5, err)
		}
	}

	entry, childArgv, err := planHandoff(&cfg, invDir, m.Name, passthrough)
	if err != nil {
		return wrap(6, err)
	}

	info(&cfg, "exec: entry=%s", entry)
	return wrap(6, execHandoff(entry, childArgv))
}

// defaultConfig computes the Data Model's default Configuration, applying
// the lowest-precedence PUISNE_* environment overrides (below .args/CLI)
// before any launcher-slice flag is parsed. The returned bool reports
// whether PUISNE_DESTINATION supplied the destination, so callers know not
// to clobber it with the mode-dependent default once the final mode is known.
func defaultConfig(platform Platform, invocationDir, bundleName string) (Config, bool, error) {
	mode := ModeNone
	if platform.SupportsOverlayMount {
		mode = ModeMount
	}
	if v := os.Getenv("PUISNE_MODE"); v != "" {
		switch Mode(v) {
		case ModeMount:
			if platform.SupportsOverlayMount {
				mode = ModeMount
			} else {
				warn("PUISNE_MODE=%s requires mount-namespace support this platform lacks; ignoring", v)
			}
		case ModeNone:
			mode = ModeNone
		default:
			warn("PUISNE_MODE=%s is not a recognized mode; ignoring", v)
		}
	}

	unzipPolicy := PolicyUpdate
	if v := os.Getenv("PUISNE_UNZIP_POLICY"); v != "" {
		if validUnzipPolicy(v) {
			unzipPolicy = UnzipPolicy(v)
		} else {
			warn("PUISNE_UNZIP_POLICY=%s is not a recognized policy; ignoring", v)
		}
	}

	workDir, err := defaultWorkDir(invocationDir)
	if err != nil {
		return Config{}, false, err
	}
	if v := os.Getenv("PUISNE_WORKDIR"); v != "" {
		workDir, err = realpath(expandTilde(v))
		if err != nil {
			return Config{}, false, fmt.Errorf("resolve PUISNE_WORKDIR: %w", err)
		}
	}

	destination := defaultDestination(mode, invocationDir, bundleName)
	destinationFromEnv := false
	if v := os.Getenv("PUISNE_DESTINATION"); v != "" {
		destination, err = realpath(expandTilde(v))
		if err != nil {
			return Config{}, false, fmt.Errorf("resolve PUISNE_DESTINATION: %w", err)
		}
		destinationFromEnv = true
	}

	return Config{
		Mode:        mode,
		Orientation: OrientationOver,
		UnzipPolicy: unzipPolicy,
		Destination: destination,
		WorkDir:     workDir,
		Verbose:     os.Getenv("PUISNE_VERBOSE") == "1",
	}, destinationFromEnv, nil
}

func defaultDestination(mode Mode, invocationDir, bundleName string) string {
	if mode == ModeMount {
		return joinPath(invocationDir, ".puisne", bundleName+".app")
	}
	return invocationDir
}

// defaultWorkDir generates a fresh temporary directory on the same
// volume as the launcher (a child of invocationDir), with a basename
// beginning "puisne.", per the Data Model.
func defaultWorkDir(invocationDir string) (string, error) {
	dir, err := os.MkdirTemp(invocationDir, "puisne.")
	if err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}
	return dir, nil
}
