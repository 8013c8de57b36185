// Package check verifies that a profile can reach its provider and get
// generated text back.
package check

import "time"

// Check names, in the order they are evaluated
const (
	NameConfiguration  = "Configuration"
	NameConnection     = "Connection"
	NameEndpoint       = "Endpoint"
	NameAuthentication = "Authentication"
	NameModel          = "Model"
	NameResponseFormat = "Response Format"
)

var stages = []string{
	NameConfiguration,
	NameConnection,
	NameEndpoint,
	NameAuthentication,
	NameModel,
	NameResponseFormat,
}

// Readiness levels
const (
	LevelReady   = "ready"
	LevelPartial = "partial"
	LevelFailed  = "failed"
)

// Result is the outcome of checking one profile
type Result struct {
	Profile      string        `json:"profile"`
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	Level        string        `json:"level"`
	Checks       []Item        `json:"checks"`
	ResponseTime time.Duration `json:"-"`
	Category     string        `json:"category,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Item is a single check
type Item struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
	Critical bool   `json:"critical"`
}

// DetermineLevel folds check items into a readiness level.
//
// - all passed → ready
// - any critical failure → failed
// - only non-critical failures → partial
func DetermineLevel(checks []Item) string {
	if len(checks) == 0 {
		return LevelFailed
	}

	level := LevelReady
	for _, c := range checks {
		if c.Passed {
			continue
		}
		if c.Critical {
			return LevelFailed
		}
		level = LevelPartial
	}
	return level
}
