// Command puisne is the launcher stub appended to every PUISNE bundle.
package main

import (
	"context"
	"os"

	"github.com/mcdemigod/puisne/internal/launcher"
)

func main() {
	if err := launcher.Run(context.Background(), os.Args); err != nil {
		launcher.Diagnose(err)
		os.Exit(launcher.ExitCode(err))
	}
}
