package models

// DefaultProfile is the profile that always exists
const DefaultProfile = "default"

// Configuration represents the settings of a single profile
type Configuration struct {
	Provider    string  `json:"provider"` // openai, anthropic, local, azure
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"` // Optional endpoint override
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfiguration returns the settings a new profile starts with
func DefaultConfiguration() Configuration {
	return Configuration{
		Provider:    "openai",
		Model:       "gpt-4",
		Temperature: 0.1,
		MaxTokens:   2000,
	}
}

// File represents the structure of the config file
type File struct {
	ActiveProfile string                   `json:"active_profile"`
	Profiles      map[string]Configuration `json:"profiles"`
}

// NewFile returns a profile set holding only the default profile
func NewFile() *File {
	return &File{
		ActiveProfile: DefaultProfile,
		Profiles: map[string]Configuration{
			DefaultProfile: DefaultConfiguration(),
		},
	}
}

// Active returns the active profile's configuration
func (f *File) Active() Configuration {
	if cfg, ok := f.Profiles[f.ActiveProfile]; ok {
		return cfg
	}
	return DefaultConfiguration()
}
