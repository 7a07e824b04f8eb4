package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		var limited *domain.RateLimitedError
		if errors.As(err, &limited) {
			cli.RenderRateLimited(os.Stderr, limited.Wait)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("CLARIFY_DEBUG"), "1") || strings.EqualFold(os.Getenv("CLARIFY_DEBUG"), "true")
}
