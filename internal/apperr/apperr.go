// Package apperr defines the error kinds surfaced by lexi commands.
//
// Business logic returns these errors up the call stack; only main decides
// the process exit status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for reporting and exit status
type Kind int

const (
	KindUnknown   Kind = iota
	KindInput          // bad input file, missing file, empty source
	KindConfig         // missing key, bad profile, unsupported provider
	KindProvider       // provider answered with a non-success status
	KindTransport      // the request could not be sent or received
)

// String returns the kind name used in log fields
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfig:
		return "config"
	case KindProvider:
		return "provider"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a classified lexi error
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Input builds an input error
func Input(format string, args ...any) error {
	return &Error{Kind: KindInput, Msg: fmt.Sprintf(format, args...)}
}

// Config builds a configuration error
func Config(format string, args ...any) error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

// Transport wraps a network failure
func Transport(provider string, err error) error {
	return &Error{Kind: KindTransport, Msg: provider + " request failed", Err: err}
}

// ProviderError reports a provider response that could not be used.
// Body holds the provider's raw response text.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Category string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.Status, e.Body)
}

// KindOf reports the kind of err, looking through wrapped errors
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return KindProvider
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err is of kind k
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}

// ExitCode maps an error to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
