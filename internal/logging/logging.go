// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup routes the global logger to w (stderr when nil) as human-readable
// console output. Only warnings surface unless verbose is set.
func Setup(verbose bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose || os.Getenv("LEXI_DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
