package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvpkp/lexi/cmd"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %s\n", err)
		var pe *apperr.ProviderError
		if errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "💡 %s\n", provider.Hint(pe.Category))
		}
		os.Exit(apperr.ExitCode(err))
	}
}
