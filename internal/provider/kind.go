package provider

import (
	"strings"

	"github.com/nvpkp/lexi/internal/apperr"
)

// Kind identifies a supported model provider
type Kind int

const (
	OpenAI Kind = iota
	Anthropic
	Local // Ollama
	Azure
)

// Kinds lists every supported provider in display order
var Kinds = []Kind{OpenAI, Anthropic, Local, Azure}

// String returns the name used in configuration files
func (k Kind) String() string {
	switch k {
	case OpenAI:
		return "openai"
	case Anthropic:
		return "anthropic"
	case Local:
		return "local"
	case Azure:
		return "azure"
	default:
		return "unknown"
	}
}

// Label returns the provider's display name
func (k Kind) Label() string {
	switch k {
	case OpenAI:
		return "OpenAI"
	case Anthropic:
		return "Anthropic"
	case Local:
		return "Ollama"
	case Azure:
		return "Azure"
	default:
		return "Unknown"
	}
}

// ParseKind maps a configured provider name to its Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "anthropic":
		return Anthropic, nil
	case "local", "ollama":
		return Local, nil
	case "azure":
		return Azure, nil
	default:
		return 0, apperr.Config("unsupported provider: %s", name)
	}
}

// Info describes a provider's defaults and requirements
type Info struct {
	Kind            Kind
	DefaultBaseURL  string
	DefaultModel    string
	RequiresKey     bool
	RequiresBaseURL bool
}

// Describe returns the defaults and requirements of k
func Describe(k Kind) Info {
	switch k {
	case OpenAI:
		return Info{Kind: k, DefaultBaseURL: "https://api.openai.com", DefaultModel: "gpt-4", RequiresKey: true}
	case Anthropic:
		return Info{Kind: k, DefaultBaseURL: "https://api.anthropic.com", DefaultModel: "claude-3-sonnet-20240229", RequiresKey: true}
	case Local:
		return Info{Kind: k, DefaultBaseURL: "http://localhost:11434", DefaultModel: "codellama"}
	case Azure:
		return Info{Kind: k, DefaultModel: "gpt-4", RequiresKey: true, RequiresBaseURL: true}
	default:
		return Info{Kind: k}
	}
}
