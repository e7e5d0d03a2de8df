package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pokedex-cli/internal/cli"
)

func isAddress(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "?") || (strings.Contains(s, "=") && !strings.HasPrefix(s, "-"))
}

func rewriteDeepLinkArgs(argv []string) []string {
	// Convenience: `pokedex '?type=Fire&page=2'` works like
	// `pokedex --query 'type=Fire&page=2'`.
	//
	// Persistent flags may come first, so look for the first positional token
	// rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config-dir":   true,
		"--api":          true,
		"--log-level":    true,
		"--log-file":     true,
		"--metrics-addr": true,
		"--page-size":    true,
		"--format":       true,
		"--query":        true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isAddress(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--query", strings.TrimPrefix(a, "?"))
			out = append(out, argv[i+1:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDeepLinkArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
