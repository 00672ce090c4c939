package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// helpRequested is returned by parseOptions when -h was seen; Run treats
// it as the "print help, exit 0" path rather than an error.
var helpRequested = fmt.Errorf("help requested")

// parseOptions interprets the merged launcher slice into a Config,
// starting from the platform- and environment-derived defaults in
// defaults. Each flag's Action hook validates and applies its value, so
// the last value of a repeated flag wins. urfave/cli calls those hooks
// once per flag in definition order, so the relative order of -m and -n
// (which both set Config.Mode) is resolved afterwards from the slice
// itself, keeping "later occurrence wins" across the two, matching
// spec.md §4.E.
// destinationExplicit reports whether -d appeared in launcherArgs, so
// Run can decide whether to recompute Destination's mode-dependent
// default after -m/-n have taken final effect.
func parseOptions(ctx context.Context, launcherArgs []string, defaults Config, platform Platform) (cfg Config, destinationExplicit bool, err error) {
	cfg = defaults

	app := &cli.Command{
		Name:                  "puisne",
		Usage:                 "self-extracting application bundle launcher",
		UsageText:             "program [-- launcher-args [-- passthrough-args]]",
		HideHelp:              true,
		HideHelpCommand:       true,
		EnableShellCompletion: false,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "m",
				Usage: "overlay the extraction onto the launcher's directory via a mount namespace",
				Action: func(_ context.Context, _ *cli.Command, v bool) error {
					if !v {
						return nil
					}
					if !platform.SupportsOverlayMount {
						return fmt.Errorf("-m requested but overlay mounting is unsupported on this system")
					}
					cfg.Mode = ModeMount
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "n",
				Usage: "skip mount-namespace overlay; run against the extraction directly",
				Action: func(_ context.Context, _ *cli.Command, v bool) error {
					if v {
						cfg.Mode = ModeNone
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "o",
				Usage: "overlay orientation: over|under",
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					if !validOrientation(v) {
						return invalidEnumErr("-o", v, string(OrientationOver), string(OrientationUnder))
					}
					cfg.Orientation = Orientation(v)
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "u",
				Usage: "extraction policy: all|new|existing|update|freshen|none",
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					if !validUnzipPolicy(v) {
						return invalidEnumErr("-u", v, string(PolicyAll), string(PolicyNew), string(PolicyExisting), string(PolicyUpdate), string(PolicyFreshen), string(PolicyNone))
					}
					cfg.UnzipPolicy = UnzipPolicy(v)
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "d",
				Usage: "extraction destination directory",
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					p, err := realpath(expandTilde(v))
					if err != nil {
						return fmt.Errorf("-d %q: %w", v, err)
					}
					cfg.Destination = p
					destinationExplicit = true
					return nil
				},
			},
			&cli.StringFlag{
				Name:  "w",
				Usage: "scratch work directory for the overlay mount",
				Action: func(_ context.Context, _ *cli.Command, v string) error {
					p, err := realpath(expandTilde(v))
					if err != nil {
						return fmt.Errorf("-w %q: %w", v, err)
					}
					cfg.WorkDir = p
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "h",
				Usage: "print help and exit",
				Action: func(_ context.Context, _ *cli.Command, v bool) error {
					if v {
						return helpRequested
					}
					return nil
				},
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unexpected argument %q in launcher slice", c.Args().First())
			}
			return nil
		},
	}

	runErr := app.Run(ctx, append([]string{"puisne"}, launcherArgs...))
	if errors.Is(runErr, helpRequested) {
		return cfg, destinationExplicit, helpRequested
	}
	if runErr != nil {
		return cfg, destinationExplicit, wrap(2, runErr)
	}
	// Settle -m/-n by their order in the slice; the value of a
	// value-taking flag is skipped so it is never mistaken for a flag.
	for i := 0; i < len(launcherArgs); i++ {
		switch strings.TrimLeft(launcherArgs[i], "-") {
		case "m":
			cfg.Mode = ModeMount
		case "n":
			cfg.Mode = ModeNone
		case "o", "u", "d", "w":
			i++
		}
	}
	return cfg, destinationExplicit, nil
}
