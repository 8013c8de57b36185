package provider

import (
	"net/http"
	"strings"
)

// Error category constants for provider failures
const (
	CategoryAuthFailure        = "authentication_failure"
	CategoryModelNotFound      = "model_not_found"
	CategoryRateLimit          = "rate_limit"
	CategoryFormatIncompatible = "format_incompatibility"
	CategoryServerError        = "server_error"
	CategoryEndpointNotFound   = "endpoint_not_found"
	CategoryUnknown            = "unknown_error"
)

var categoryHints = map[string]string{
	CategoryAuthFailure:        "Authentication failed. Check the API key with: lexi config set api_key <key>",
	CategoryModelNotFound:      "Model not found. Check the model name with: lexi config set model <model>",
	CategoryRateLimit:          "Rate limit exceeded. Please try again later.",
	CategoryFormatIncompatible: "The response did not contain generated text.",
	CategoryServerError:        "The provider reported a server error. Please try again later.",
	CategoryEndpointNotFound:   "API endpoint not found. Check base_url.",
	CategoryUnknown:            "The provider rejected the request.",
}

// Categorize classifies a failed response by status code and body.
//
// - 401, 403 → authentication_failure
// - 404 → model_not_found (if body mentions a model) or endpoint_not_found
// - 429 → rate_limit
// - 2xx → format_incompatibility (the body lacked the generated text)
// - 500+ → server_error
func Categorize(statusCode int, body []byte) string {
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return CategoryAuthFailure
	case statusCode == http.StatusNotFound:
		if strings.Contains(strings.ToLower(string(body)), "model") {
			return CategoryModelNotFound
		}
		return CategoryEndpointNotFound
	case statusCode == http.StatusTooManyRequests:
		return CategoryRateLimit
	case statusCode >= 200 && statusCode < 300:
		return CategoryFormatIncompatible
	case statusCode >= http.StatusInternalServerError:
		return CategoryServerError
	default:
		return CategoryUnknown
	}
}

// Hint returns a user-facing suggestion for a category
func Hint(category string) string {
	if hint, ok := categoryHints[category]; ok {
		return hint
	}
	return categoryHints[CategoryUnknown]
}
