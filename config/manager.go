package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/config/storage"
	"github.com/nvpkp/lexi/config/validation"
	"github.com/nvpkp/lexi/internal/apperr"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "LEXI_CONFIG"

// Manager manages configuration profiles stored in a single JSON file
type Manager struct {
	configPath string
	mu         sync.Mutex // Mutex to protect concurrent access
}

// DefaultPath returns $LEXI_CONFIG, or ~/.lexi/config.json
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".lexi", "config.json"), nil
}

// NewManager creates a Manager bound to configPath
func NewManager(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// NewConfigManager creates a Manager for the default config location
func NewConfigManager() (*Manager, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewManager(configPath), nil
}

// GetConfigPath returns the path to the config file
func (cm *Manager) GetConfigPath() string {
	return cm.configPath
}

func (cm *Manager) lockPath() string {
	return cm.configPath + ".lock"
}

// acquire takes the advisory lock guarding the config file.
// Writers hold it exclusively for the whole read-modify-write cycle.
func (cm *Manager) acquire(exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(cm.configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(cm.lockPath(), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	lock := lockFileShared
	if exclusive {
		lock = lockFileExclusive
	}
	if err := lock(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to lock config file: %w", err)
	}

	return func() {
		if err := unlockFile(file); err != nil {
			log.Warn().Err(err).Str("path", cm.lockPath()).Msg("failed to unlock config file")
		}
		file.Close()
	}, nil
}

// loadConfigFile reads the config file, filling defaults for anything missing.
// The boolean result reports whether the file used the single-profile layout.
func (cm *Manager) loadConfigFile() (*models.File, bool, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewFile(), false, nil
		}
		return nil, false, apperr.Config("failed to read config file %s: %v", cm.configPath, err)
	}

	switch storage.DetectLayout(data) {
	case storage.LayoutEmpty:
		return models.NewFile(), false, nil

	case storage.LayoutLegacy:
		cfg := models.DefaultConfiguration()
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, false, apperr.Config("failed to parse config file %s: %v", cm.configPath, err)
		}
		validation.Normalize(&cfg)
		log.Debug().Str("path", cm.configPath).Msg("read single-profile config as 'default'")
		file := models.NewFile()
		file.Profiles[models.DefaultProfile] = cfg
		return file, true, nil

	case storage.LayoutProfiles:
		file, err := decodeProfiles(data)
		if err != nil {
			return nil, false, apperr.Config("failed to parse config file %s: %v", cm.configPath, err)
		}
		return file, false, nil

	default:
		return nil, false, apperr.Config("failed to parse config file %s: not a JSON object", cm.configPath)
	}
}

// decodeProfiles decodes the profile layout, decoding each profile over the
// defaults so fields absent from the file keep their default values
func decodeProfiles(data []byte) (*models.File, error) {
	var raw struct {
		ActiveProfile string                     `json:"active_profile"`
		Profiles      map[string]json.RawMessage `json:"profiles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	file := &models.File{
		ActiveProfile: raw.ActiveProfile,
		Profiles:      make(map[string]models.Configuration, len(raw.Profiles)+1),
	}
	for name, msg := range raw.Profiles {
		cfg := models.DefaultConfiguration()
		if err := json.Unmarshal(msg, &cfg); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		validation.Normalize(&cfg)
		file.Profiles[name] = cfg
	}

	if _, ok := file.Profiles[models.DefaultProfile]; !ok {
		file.Profiles[models.DefaultProfile] = models.DefaultConfiguration()
	}
	if _, ok := file.Profiles[file.ActiveProfile]; !ok {
		if file.ActiveProfile != "" {
			log.Warn().Str("profile", file.ActiveProfile).Msg("active profile missing, falling back to 'default'")
		}
		file.ActiveProfile = models.DefaultProfile
	}

	return file, nil
}

// saveConfigFile writes the profile set. A single-profile file is backed up
// before it is replaced by the profile layout.
func (cm *Manager) saveConfigFile(configFile *models.File, legacy bool) error {
	data, err := json.MarshalIndent(configFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := storage.AtomicWrite(cm.configPath, data, legacy); err != nil {
		return err
	}
	if legacy {
		log.Info().Str("path", cm.configPath).Msg("upgraded config file to profile layout")
	}
	return nil
}

// view runs fn against a freshly loaded profile set under a shared lock.
// A missing config file reads as defaults without creating anything.
func (cm *Manager) view(fn func(f *models.File) error) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !storage.FileExists(cm.configPath) {
		return fn(models.NewFile())
	}

	unlock, err := cm.acquire(false)
	if err != nil {
		return err
	}
	defer unlock()

	configFile, _, err := cm.loadConfigFile()
	if err != nil {
		return err
	}
	return fn(configFile)
}

// update runs fn against the profile set and persists it when fn succeeds
func (cm *Manager) update(fn func(f *models.File) error) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	unlock, err := cm.acquire(true)
	if err != nil {
		return err
	}
	defer unlock()

	configFile, legacy, err := cm.loadConfigFile()
	if err != nil {
		return err
	}
	if err := fn(configFile); err != nil {
		return err
	}
	return cm.saveConfigFile(configFile, legacy)
}

// Load returns the whole profile set
func (cm *Manager) Load() (*models.File, error) {
	var out *models.File
	err := cm.view(func(f *models.File) error {
		out = f
		return nil
	})
	return out, err
}

// Profile is a named configuration as shown by listings
type Profile struct {
	Name   string
	Active bool
	Config models.Configuration
}

// List returns all profiles sorted by name
func (cm *Manager) List() ([]Profile, error) {
	configFile, err := cm.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(configFile.Profiles))
	for name := range configFile.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, Profile{
			Name:   name,
			Active: name == configFile.ActiveProfile,
			Config: configFile.Profiles[name],
		})
	}
	return profiles, nil
}

// Get returns a profile's configuration by name
func (cm *Manager) Get(name string) (models.Configuration, error) {
	configFile, err := cm.Load()
	if err != nil {
		return models.Configuration{}, err
	}

	cfg, ok := configFile.Profiles[name]
	if !ok {
		return models.Configuration{}, profileNotFound(name)
	}
	return cfg, nil
}

// GetActiveName returns the active profile name
func (cm *Manager) GetActiveName() (string, error) {
	configFile, err := cm.Load()
	if err != nil {
		return "", err
	}
	return configFile.ActiveProfile, nil
}

// GetActive returns the active profile name and configuration
func (cm *Manager) GetActive() (string, models.Configuration, error) {
	configFile, err := cm.Load()
	if err != nil {
		return "", models.Configuration{}, err
	}
	return configFile.ActiveProfile, configFile.Active(), nil
}

// SetActive switches the active profile
func (cm *Manager) SetActive(name string) error {
	return cm.update(func(f *models.File) error {
		if _, ok := f.Profiles[name]; !ok {
			return apperr.Config("profile '%s' does not exist. Create it first with: lexi profile create %s", name, name)
		}
		f.ActiveProfile = name
		return nil
	})
}

// Create adds a profile with default settings and makes it active.
// It reports false, changing nothing, when the profile already exists.
func (cm *Manager) Create(name string) (bool, error) {
	if err := validation.NewInputValidator().ValidateProfileName(name); err != nil {
		return false, err
	}

	created := false
	err := cm.update(func(f *models.File) error {
		if _, ok := f.Profiles[name]; ok {
			return nil
		}
		f.Profiles[name] = models.DefaultConfiguration()
		f.ActiveProfile = name
		created = true
		return nil
	})
	return created, err
}

// Remove deletes a profile. Removing the active profile makes 'default'
// active again, which is reported by the boolean result.
func (cm *Manager) Remove(name string) (bool, error) {
	if name == models.DefaultProfile {
		return false, apperr.Config("cannot delete the default profile")
	}

	switched := false
	err := cm.update(func(f *models.File) error {
		if _, ok := f.Profiles[name]; !ok {
			return profileNotFound(name)
		}
		delete(f.Profiles, name)
		if f.ActiveProfile == name {
			f.ActiveProfile = models.DefaultProfile
			switched = true
		}
		return nil
	})
	return switched, err
}

// UpdateKey sets a single key on the named profile
func (cm *Manager) UpdateKey(name, key, value string) error {
	validator := validation.NewValidator()
	return cm.update(func(f *models.File) error {
		cfg, ok := f.Profiles[name]
		if !ok {
			return apperr.Config("profile '%s' does not exist. Create it first with: lexi profile create %s", name, name)
		}
		if err := validator.ApplyKey(&cfg, key, value); err != nil {
			return err
		}
		f.Profiles[name] = cfg
		return nil
	})
}

// UpdateActiveKey sets a single key on the active profile and returns its name
func (cm *Manager) UpdateActiveKey(key, value string) (string, error) {
	validator := validation.NewValidator()
	var name string
	err := cm.update(func(f *models.File) error {
		name = f.ActiveProfile
		cfg := f.Profiles[name]
		if err := validator.ApplyKey(&cfg, key, value); err != nil {
			return err
		}
		f.Profiles[name] = cfg
		return nil
	})
	return name, err
}

func profileNotFound(name string) error {
	return apperr.Config("profile '%s' does not exist", name)
}
