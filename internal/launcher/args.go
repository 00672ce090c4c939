package launcher

import (
	"bufio"
	"strings"
)

// partitionArgv splits process argv (including argv[0]) into a launcher
// slice and a passthrough slice per the "--" sentinel protocol of
// spec.md §4.D. argv[0] itself is never part of either slice.
func partitionArgv(argv []string) (launcherArgs, passthrough []string) {
	if len(argv) <= 1 {
		return nil, nil
	}
	if argv[1] != "--" {
		return nil, argv[1:]
	}

	rest := argv[2:]
	if len(rest) == 0 {
		return nil, nil
	}
	for i, tok := range rest {
		if tok == "--" {
			return rest[:i], rest[i+1:]
		}
	}
	return rest, nil
}

const argsSentinel = "..."

// loadArgsFile parses the "one token per line, blank lines ignored"
// grammar of the archive's top-level .args file.
func loadArgsFile(content string) []string {
	var tokens []string
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		tok := strings.TrimSpace(sc.Text())
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// mergeArgsFile folds a loaded .args token list with the CLI launcher
// slice per spec.md §4.D:
//
//   - if cliLauncherArgs is empty, .args wholly supplies the launcher
//     arguments (the "..." sentinel, if present, contributes nothing
//     since there is nothing to substitute);
//   - otherwise .args is consulted only if it contains the literal
//     sentinel line "..."; that line is replaced by cliLauncherArgs,
//     with the tokens before it acting as overridable defaults and the
//     tokens after it as overriding forces. Without the sentinel, a
//     non-empty CLI slice makes .args irrelevant.
func mergeArgsFile(argsTokens, cliLauncherArgs []string) []string {
	idx := -1
	for i, t := range argsTokens {
		if t == argsSentinel {
			idx = i
			break
		}
	}
	if idx < 0 {
		if len(cliLauncherArgs) == 0 {
			return argsTokens
		}
		return cliLauncherArgs
	}

	merged := make([]string, 0, len(argsTokens)-1+len(cliLauncherArgs))
	merged = append(merged, argsTokens[:idx]...)
	merged = append(merged, cliLauncherArgs...)
	merged = append(merged, argsTokens[idx+1:]...)
	return merged
}
