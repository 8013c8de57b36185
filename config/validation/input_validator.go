package validation

import (
	"strings"

	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/utils"
)

// maxProfileNameLen bounds profile names so listings stay readable
const maxProfileNameLen = 50

// InputValidator validates user input
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateProfileName checks if a profile name is valid
func (iv *InputValidator) ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Config("profile name cannot be empty")
	}
	if strings.ContainsAny(name, "<>\"'&/\\") {
		return apperr.Config("profile name %q contains invalid characters", name)
	}
	if len(name) > maxProfileNameLen {
		return apperr.Config("profile name is too long (max %d characters)", maxProfileNameLen)
	}
	return nil
}

// ValidateURL checks if a base URL is valid. Empty clears the override.
func (iv *InputValidator) ValidateURL(url string) error {
	if url != "" && !utils.ValidateURL(url) {
		return apperr.Config("invalid URL format: %s", url)
	}
	return nil
}

// ValidateModelName checks if a model name is valid
func (iv *InputValidator) ValidateModelName(model string) error {
	if strings.TrimSpace(model) == "" {
		return apperr.Config("model name cannot be empty")
	}
	if strings.ContainsAny(model, "<>\"'&\\") {
		return apperr.Config("model name contains invalid characters")
	}
	return nil
}
