package utils

// maskVisible is the number of leading key characters shown in listings
const maskVisible = 8

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= maskVisible {
		return key + "..."
	}
	return key[:maskVisible] + "..."
}

// OrNotSet returns value, or a placeholder when it is empty
func OrNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
