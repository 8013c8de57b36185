// Package compiler turns a .lxi description into a generated source file.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/history"
	"github.com/nvpkp/lexi/internal/prompt"
	"github.com/nvpkp/lexi/internal/provider"
	"github.com/nvpkp/lexi/internal/runner"
	"github.com/nvpkp/lexi/internal/sanitize"
)

// Version is reported in the compile banner and by lexi --version
const Version = "1.0.0"

// EnvAPIKey supplies the API key when the active profile has none
const EnvAPIKey = "LEXI_API_KEY"

// DefaultTarget is used when no target is given
const DefaultTarget = "javascript"

// SourceExtensions are the accepted input file extensions
var SourceExtensions = []string{".lxi", ".lexi"}

var targetExtensions = map[string]string{
	"javascript": ".js",
	"python":     ".py",
	"java":       ".java",
	"cpp":        ".cpp",
	"rust":       ".rs",
	"go":         ".go",
	"sql":        ".sql",
	"mongodb":    ".js",
	"redis":      ".txt",
}

// ExtensionFor returns the output file extension for target
func ExtensionFor(target string) string {
	if ext, ok := targetExtensions[strings.ToLower(target)]; ok {
		return ext
	}
	return ".js"
}

// DefaultOutput names the output file after the input's base name
func DefaultOutput(input, target string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ExtensionFor(target)
}

// ProfileSource provides the active configuration
type ProfileSource interface {
	GetActive() (string, models.Configuration, error)
}

// Recorder stores compile history
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// AdapterFactory builds the provider adapter for a configuration
type AdapterFactory func(cfg models.Configuration) (provider.Adapter, error)

// WaitFunc runs fn while showing label to the user
type WaitFunc func(ctx context.Context, label string, fn func(context.Context) (string, error)) (string, error)

// Options describes one compile
type Options struct {
	Input  string
	Target string
	Output string // defaults to DefaultOutput in the working directory
	Run    bool
}

// Result describes a finished compile
type Result struct {
	Input    string
	Output   string
	Target   string
	Profile  string
	Provider string
	Model    string
	Bytes    int
	Ran      bool
}

// Compiler runs the compile pipeline
type Compiler struct {
	profiles   ProfileSource
	out        io.Writer
	runner     *runner.Runner
	recorder   Recorder
	newAdapter AdapterFactory
	wait       WaitFunc
	workDir    string
}

// Option configures a Compiler
type Option func(*Compiler)

// WithOutput sets where progress lines are printed
func WithOutput(w io.Writer) Option {
	return func(c *Compiler) { c.out = w }
}

// WithRunner sets the runner used for --run
func WithRunner(r *runner.Runner) Option {
	return func(c *Compiler) { c.runner = r }
}

// WithRecorder enables compile history
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) { c.recorder = r }
}

// WithAdapterFactory replaces provider.New
func WithAdapterFactory(f AdapterFactory) Option {
	return func(c *Compiler) { c.newAdapter = f }
}

// WithWait sets how the provider call is presented while pending
func WithWait(w WaitFunc) Option {
	return func(c *Compiler) { c.wait = w }
}

// WithWorkDir sets the directory default outputs are written to
func WithWorkDir(dir string) Option {
	return func(c *Compiler) { c.workDir = dir }
}

// New creates a Compiler reading configuration from profiles
func New(profiles ProfileSource, opts ...Option) *Compiler {
	c := &Compiler{
		profiles: profiles,
		out:      os.Stdout,
		runner:   runner.New(),
		newAdapter: func(cfg models.Configuration) (provider.Adapter, error) {
			return provider.New(cfg)
		},
		wait: func(ctx context.Context, _ string, fn func(context.Context) (string, error)) (string, error) {
			return fn(ctx)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates the input, generates code with the active provider,
// writes the output file and optionally runs it. Nothing is written when
// any step before the write fails.
func (c *Compiler) Compile(ctx context.Context, opts Options) (res *Result, err error) {
	target := strings.ToLower(strings.TrimSpace(opts.Target))
	if target == "" {
		target = DefaultTarget
	}
	res = &Result{Input: opts.Input, Target: target}

	if c.recorder != nil {
		defer func() { c.record(ctx, res, err) }()
	}

	source, err := readSource(opts.Input)
	if err != nil {
		return res, err
	}

	fmt.Fprintf(c.out, "📚 Lexi v%s - Compiling %s...\n", Version, opts.Input)

	profile, cfg, err := c.profiles.GetActive()
	if err != nil {
		return res, err
	}
	cfg = WithEnvAPIKey(cfg)
	res.Profile = profile
	res.Model = cfg.Model

	adapter, err := c.newAdapter(cfg)
	if err != nil {
		return res, err
	}
	res.Provider = adapter.Kind().String()

	output := opts.Output
	if output == "" {
		output = filepath.Join(c.workDir, DefaultOutput(opts.Input, target))
	}
	res.Output = output

	log.Debug().
		Str("profile", profile).
		Str("provider", adapter.Kind().String()).
		Str("model", cfg.Model).
		Str("target", target).
		Msg("generating code")

	pair := prompt.Build(source, target)
	raw, err := c.wait(ctx, "🤖 Generating code with AI...", func(ctx context.Context) (string, error) {
		return adapter.Invoke(ctx, pair)
	})
	if err != nil {
		return res, err
	}

	code := sanitize.Sanitize(raw)
	if err := os.WriteFile(output, []byte(code), 0644); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", output, err)
	}
	res.Bytes = len(code)
	fmt.Fprintf(c.out, "✅ Successfully compiled to %s\n", output)

	if opts.Run {
		if !c.runner.Supports(target) {
			fmt.Fprintf(c.out, "⚠️  Auto-run not supported for %s yet\n", target)
			return res, nil
		}
		fmt.Fprintf(c.out, "🚀 Running %s...\n", output)
		if err := c.runner.Run(ctx, output, target); err != nil {
			return res, err
		}
		res.Ran = true
	}

	return res, nil
}

// WithEnvAPIKey fills a missing API key from $LEXI_API_KEY. The key is
// never written back to the config file.
func WithEnvAPIKey(cfg models.Configuration) models.Configuration {
	if strings.TrimSpace(cfg.APIKey) == "" {
		if key := os.Getenv(EnvAPIKey); key != "" {
			log.Debug().Str("env", EnvAPIKey).Msg("using API key from environment")
			cfg.APIKey = key
		}
	}
	return cfg
}

// readSource checks the input path and returns its contents
func readSource(input string) (string, error) {
	if !hasSourceExtension(input) {
		return "", apperr.Input("input file must have .lxi or .lexi extension")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperr.Input("file '%s' not found", input)
		}
		return "", apperr.Input("failed to read '%s': %v", input, err)
	}

	source := string(data)
	if strings.TrimSpace(source) == "" {
		return "", apperr.Input("source file is empty")
	}
	return source, nil
}

func hasSourceExtension(path string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (c *Compiler) record(ctx context.Context, res *Result, err error) {
	entry := history.Entry{
		Input:    res.Input,
		Target:   res.Target,
		Provider: res.Provider,
		Model:    res.Model,
		Status:   history.StatusOK,
	}
	if err != nil {
		entry.Status = history.StatusFailed
		entry.Error = err.Error()
	} else {
		entry.Output = res.Output
	}

	// History never fails a compile
	if recErr := c.recorder.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		log.Warn().Err(recErr).Msg("failed to record compile history")
	}
}
