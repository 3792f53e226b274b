package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"wishlist-cli/internal/cli"
)

func isWishlistID(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}

// rewriteDirectLookupArgs turns `wishlist <id>` into `wishlist get <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`wishlist --base-url ... 7`),
// so this looks for the first positional token, not argv[1].
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config-dir": true,
		"--base-url":   true,
		"--timeout":    true,
		"--log-file":   true,
		"--state-dir":  true,
		"--format":     true,
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
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isWishlistID(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "get")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		cli.ReportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
