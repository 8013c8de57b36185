package validation

import (
	"strconv"
	"strings"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
)

// Config keys accepted by `config set` and `profile set`
const (
	KeyProvider    = "provider"
	KeyModel       = "model"
	KeyAPIKey      = "api_key"
	KeyBaseURL     = "base_url"
	KeyTemperature = "temperature"
	KeyMaxTokens   = "max_tokens"
)

// Keys lists the settable keys in display order
var Keys = []string{KeyProvider, KeyModel, KeyAPIKey, KeyBaseURL, KeyTemperature, KeyMaxTokens}

const (
	minTemperature = 0.0
	maxTemperature = 2.0
)

// Validator validates configuration values
type Validator struct {
	input *InputValidator
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{input: NewInputValidator()}
}

// IsKnownKey reports whether key names a configuration field
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ApplyKey parses value for key and stores it in cfg.
// cfg is left untouched when the key or value is rejected.
func (v *Validator) ApplyKey(cfg *models.Configuration, key, value string) error {
	switch key {
	case KeyProvider:
		provider := strings.ToLower(strings.TrimSpace(value))
		if provider == "" {
			return apperr.Config("provider cannot be empty")
		}
		cfg.Provider = provider
	case KeyModel:
		if err := v.input.ValidateModelName(value); err != nil {
			return err
		}
		cfg.Model = strings.TrimSpace(value)
	case KeyAPIKey:
		cfg.APIKey = strings.TrimSpace(value)
	case KeyBaseURL:
		baseURL := strings.TrimSpace(value)
		if err := v.input.ValidateURL(baseURL); err != nil {
			return err
		}
		cfg.BaseURL = baseURL
	case KeyTemperature:
		temperature, err := ParseTemperature(value)
		if err != nil {
			return err
		}
		cfg.Temperature = temperature
	case KeyMaxTokens:
		maxTokens, err := ParseMaxTokens(value)
		if err != nil {
			return err
		}
		cfg.MaxTokens = maxTokens
	default:
		return apperr.Config("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// ParseTemperature parses a sampling temperature in [0, 2]
func ParseTemperature(value string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, apperr.Config("invalid temperature %q: must be a number", value)
	}
	if t < minTemperature || t > maxTemperature {
		return 0, apperr.Config("invalid temperature %v: must be between %v and %v", t, minTemperature, maxTemperature)
	}
	return t, nil
}

// ParseMaxTokens parses a positive token limit
func ParseMaxTokens(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, apperr.Config("invalid max_tokens %q: must be an integer", value)
	}
	if n <= 0 {
		return 0, apperr.Config("invalid max_tokens %d: must be positive", n)
	}
	return n, nil
}

// Normalize fills zero-valued fields with defaults, for profiles written by
// older versions or edited by hand
func Normalize(cfg *models.Configuration) {
	def := models.DefaultConfiguration()
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature < minTemperature || cfg.Temperature > maxTemperature {
		cfg.Temperature = def.Temperature
	}
}
