// Package runner executes generated programs with a local interpreter.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultInterpreters maps targets to the command that runs their output
var DefaultInterpreters = map[string]string{
	"javascript": "node",
	"python":     "python",
}

// Runner runs generated files, passing the child's output through
type Runner struct {
	Interpreters map[string]string
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
}

// New creates a Runner attached to the process's standard streams
func New() *Runner {
	interpreters := make(map[string]string, len(DefaultInterpreters))
	for target, command := range DefaultInterpreters {
		interpreters[target] = command
	}
	return &Runner{
		Interpreters: interpreters,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// Supports reports whether target has an interpreter
func (r *Runner) Supports(target string) bool {
	_, ok := r.Interpreters[strings.ToLower(target)]
	return ok
}

// Run executes path with the interpreter for target and waits for it.
// A program that exits non-zero is logged and not treated as a failure;
// only an interpreter that cannot be started is an error.
func (r *Runner) Run(ctx context.Context, path, target string) error {
	command, ok := r.Interpreters[strings.ToLower(target)]
	if !ok {
		return fmt.Errorf("auto-run not supported for %s", target)
	}

	cmd := exec.CommandContext(ctx, command, path)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	log.Debug().Str("interpreter", command).Str("file", path).Msg("running output")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Warn().Int("exit_code", exitErr.ExitCode()).Str("file", path).Msg("program exited with an error")
			return nil
		}
		return fmt.Errorf("failed to run %s: %w", command, err)
	}
	return nil
}
