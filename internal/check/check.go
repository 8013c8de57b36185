package check

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/prompt"
	"github.com/nvpkp/lexi/internal/provider"
)

// probe asks for the smallest possible completion
var probe = prompt.Pair{
	System: "You are a connectivity check. Answer with a single word.",
	User:   "Reply with: ok",
}

// AdapterFactory builds the adapter for a profile
type AdapterFactory func(cfg models.Configuration) (provider.Adapter, error)

// Checker runs the readiness checks
type Checker struct {
	newAdapter AdapterFactory
	now        func() time.Time
}

// Option configures a Checker
type Option func(*Checker)

// WithAdapterFactory replaces provider.New
func WithAdapterFactory(f AdapterFactory) Option {
	return func(c *Checker) {
		c.newAdapter = f
	}
}

// WithClock replaces time.Now for measuring response time
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		c.now = now
	}
}

// NewChecker creates a Checker
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		newAdapter: func(cfg models.Configuration) (provider.Adapter, error) {
			return provider.New(cfg)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run checks one profile. Failures are reported in the result, never as an
// error, so every profile can be checked in turn.
func (c *Checker) Run(ctx context.Context, profile string, cfg models.Configuration) *Result {
	res := &Result{Profile: profile, Provider: cfg.Provider, Model: cfg.Model}

	adapter, err := c.newAdapter(cfg)
	if err != nil {
		res.fail(NameConfiguration, err.Error(), true)
		res.Error = err.Error()
		res.Level = DetermineLevel(res.Checks)
		return res
	}

	start := c.now()
	_, err = adapter.Invoke(ctx, probe)
	res.ResponseTime = c.now().Sub(start)

	log.Debug().
		Str("profile", profile).
		Str("provider", adapter.Kind().String()).
		Dur("elapsed", res.ResponseTime).
		Err(err).
		Msg("readiness probe finished")

	if err == nil {
		res.passThrough("")
		res.Level = DetermineLevel(res.Checks)
		return res
	}

	res.Error = err.Error()
	var pe *apperr.ProviderError
	switch {
	case errors.As(err, &pe):
		res.Category = pe.Category
		stage, critical := stageFor(pe.Category)
		res.passThrough(stage)
		res.fail(stage, provider.Hint(pe.Category), critical)
	case apperr.Is(err, apperr.KindTransport):
		res.passThrough(NameConnection)
		res.fail(NameConnection, "could not reach the provider", true)
	default:
		res.passThrough(NameConnection)
		res.fail(NameConnection, err.Error(), true)
	}
	res.Level = DetermineLevel(res.Checks)
	return res
}

// stageFor maps a provider error category to the check it fails. A rate
// limit proves everything up to the model works, so it only degrades.
func stageFor(category string) (string, bool) {
	switch category {
	case provider.CategoryAuthFailure:
		return NameAuthentication, true
	case provider.CategoryModelNotFound:
		return NameModel, true
	case provider.CategoryFormatIncompatible:
		return NameResponseFormat, true
	case provider.CategoryRateLimit:
		return NameResponseFormat, false
	default:
		return NameEndpoint, true
	}
}

// passThrough marks every stage before until as passed. An empty until
// passes all stages.
func (r *Result) passThrough(until string) {
	for _, name := range stages {
		if name == until {
			return
		}
		r.Checks = append(r.Checks, Item{Name: name, Passed: true, Message: "ok", Critical: true})
	}
}

func (r *Result) fail(name, message string, critical bool) {
	r.Checks = append(r.Checks, Item{Name: name, Passed: false, Message: message, Critical: critical})
}
