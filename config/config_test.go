package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
)

// setupTestConfig creates a test config manager with a temporary directory
func setupTestConfig(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), ".lexi", "config.json"))
}

// readConfigFile reads and parses the config file from disk
func readConfigFile(t *testing.T, cm *Manager) models.File {
	t.Helper()
	data, err := os.ReadFile(cm.GetConfigPath())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	var f models.File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("Failed to parse config file: %v", err)
	}
	return f
}

func TestLoadDefaults(t *testing.T) {
	cm := setupTestConfig(t)

	f, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.ActiveProfile != models.DefaultProfile {
		t.Errorf("ActiveProfile = %q, want %q", f.ActiveProfile, models.DefaultProfile)
	}
	if len(f.Profiles) != 1 {
		t.Fatalf("len(Profiles) = %d, want 1", len(f.Profiles))
	}
	if got := f.Profiles[models.DefaultProfile]; got != models.DefaultConfiguration() {
		t.Errorf("default profile = %+v", got)
	}
}

func TestReadsCreateNothing(t *testing.T) {
	root := t.TempDir()
	cm := NewManager(filepath.Join(root, ".lexi", "config.json"))

	if _, _, err := cm.GetActive(); err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if _, err := cm.List(); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := cm.GetActiveName(); err != nil {
		t.Fatalf("GetActiveName() error = %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("read-only calls created %v", entries)
	}

	// The first mutation creates the file and its lock
	if _, err := cm.Create("work"); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{cm.GetConfigPath(), cm.GetConfigPath() + ".lock"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s after Create: %v", p, err)
		}
	}
}

func TestProfileLifecycle(t *testing.T) {
	cm := setupTestConfig(t)

	created, err := cm.Create("work")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created {
		t.Fatal("Create() reported existing profile")
	}

	active, err := cm.GetActiveName()
	if err != nil {
		t.Fatal(err)
	}
	if active != "work" {
		t.Errorf("active = %q, want work", active)
	}

	if err := cm.UpdateKey("work", "provider", "anthropic"); err != nil {
		t.Fatalf("UpdateKey() error = %v", err)
	}
	if err := cm.SetActive("default"); err != nil {
		t.Fatalf("SetActive(default) error = %v", err)
	}
	if err := cm.SetActive("work"); err != nil {
		t.Fatalf("SetActive(work) error = %v", err)
	}

	name, cfg, err := cm.GetActive()
	if err != nil {
		t.Fatal(err)
	}
	if name != "work" || cfg.Provider != "anthropic" {
		t.Errorf("GetActive() = %q %+v, want work/anthropic", name, cfg)
	}

	// The default profile is untouched
	def, err := cm.Get("default")
	if err != nil {
		t.Fatal(err)
	}
	if def.Provider != "openai" {
		t.Errorf("default provider = %q, want openai", def.Provider)
	}
}

func TestCreateExisting(t *testing.T) {
	cm := setupTestConfig(t)

	if _, err := cm.Create("work"); err != nil {
		t.Fatal(err)
	}
	if err := cm.UpdateKey("work", "model", "gpt-4o"); err != nil {
		t.Fatal(err)
	}
	if err := cm.SetActive("default"); err != nil {
		t.Fatal(err)
	}

	created, err := cm.Create("work")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created {
		t.Error("Create() should report false for an existing profile")
	}

	cfg, _ := cm.Get("work")
	if cfg.Model != "gpt-4o" {
		t.Errorf("existing profile overwritten: %+v", cfg)
	}
	active, _ := cm.GetActiveName()
	if active != "default" {
		t.Errorf("active switched to %q on no-op create", active)
	}
}

func TestRemove(t *testing.T) {
	t.Run("active profile falls back to default", func(t *testing.T) {
		cm := setupTestConfig(t)
		if _, err := cm.Create("work"); err != nil {
			t.Fatal(err)
		}

		switched, err := cm.Remove("work")
		if err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if !switched {
			t.Error("Remove() should report switching back to default")
		}

		f := readConfigFile(t, cm)
		if f.ActiveProfile != "default" {
			t.Errorf("active_profile = %q, want default", f.ActiveProfile)
		}
		if _, ok := f.Profiles["work"]; ok {
			t.Error("profile 'work' still present")
		}
	})

	t.Run("inactive profile keeps active", func(t *testing.T) {
		cm := setupTestConfig(t)
		if _, err := cm.Create("a"); err != nil {
			t.Fatal(err)
		}
		if _, err := cm.Create("b"); err != nil {
			t.Fatal(err)
		}
		switched, err := cm.Remove("a")
		if err != nil {
			t.Fatal(err)
		}
		if switched {
			t.Error("Remove() of inactive profile reported a switch")
		}
		active, _ := cm.GetActiveName()
		if active != "b" {
			t.Errorf("active = %q, want b", active)
		}
	})

	t.Run("default cannot be deleted", func(t *testing.T) {
		cm := setupTestConfig(t)
		_, err := cm.Remove("default")
		if !apperr.Is(err, apperr.KindConfig) {
			t.Errorf("Remove(default) error = %v, want config error", err)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		cm := setupTestConfig(t)
		_, err := cm.Remove("ghost")
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("Remove(ghost) error = %v", err)
		}
	})
}

func TestSetActiveMissing(t *testing.T) {
	cm := setupTestConfig(t)
	err := cm.SetActive("ghost")
	if !apperr.Is(err, apperr.KindConfig) {
		t.Fatalf("SetActive(ghost) error = %v, want config error", err)
	}
	if _, statErr := os.Stat(cm.GetConfigPath()); !os.IsNotExist(statErr) {
		t.Error("failed mutation should not write the config file")
	}
}

func TestUpdateKeyErrors(t *testing.T) {
	cm := setupTestConfig(t)

	if err := cm.UpdateKey("ghost", "model", "x"); !apperr.Is(err, apperr.KindConfig) {
		t.Errorf("UpdateKey on missing profile error = %v", err)
	}
	if err := cm.UpdateKey("default", "color", "x"); !apperr.Is(err, apperr.KindConfig) {
		t.Errorf("UpdateKey with unknown key error = %v", err)
	}
}

func TestUpdateActiveKey(t *testing.T) {
	cm := setupTestConfig(t)
	if _, err := cm.Create("local"); err != nil {
		t.Fatal(err)
	}

	name, err := cm.UpdateActiveKey("provider", "local")
	if err != nil {
		t.Fatalf("UpdateActiveKey() error = %v", err)
	}
	if name != "local" {
		t.Errorf("profile = %q, want local", name)
	}
	if _, err := cm.UpdateActiveKey("max_tokens", "512"); err != nil {
		t.Fatal(err)
	}

	cfg, _ := cm.Get("local")
	if cfg.Provider != "local" || cfg.MaxTokens != 512 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLegacyConfig(t *testing.T) {
	cm := setupTestConfig(t)
	if err := os.MkdirAll(filepath.Dir(cm.GetConfigPath()), 0755); err != nil {
		t.Fatal(err)
	}
	legacy := `{"provider":"anthropic","model":"claude-3-haiku","api_key":"sk-ant-123"}`
	if err := os.WriteFile(cm.GetConfigPath(), []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	name, cfg, err := cm.GetActive()
	if err != nil {
		t.Fatalf("GetActive() error = %v", err)
	}
	if name != "default" {
		t.Errorf("active = %q, want default", name)
	}
	if cfg.Provider != "anthropic" || cfg.APIKey != "sk-ant-123" {
		t.Errorf("legacy fields lost: %+v", cfg)
	}
	// Missing fields are default-filled
	if cfg.MaxTokens != 2000 || cfg.Temperature != 0.1 {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	// The first mutation rewrites the file in the profile layout
	if _, err := cm.Create("work"); err != nil {
		t.Fatal(err)
	}
	f := readConfigFile(t, cm)
	if f.Profiles["default"].Model != "claude-3-haiku" {
		t.Errorf("default profile after upgrade = %+v", f.Profiles["default"])
	}
	backups, _ := filepath.Glob(cm.GetConfigPath() + ".backup-*")
	if len(backups) != 1 {
		t.Errorf("expected one backup of the legacy file, got %v", backups)
	}
}

func TestDanglingActiveProfile(t *testing.T) {
	cm := setupTestConfig(t)
	if err := os.MkdirAll(filepath.Dir(cm.GetConfigPath()), 0755); err != nil {
		t.Fatal(err)
	}
	data := `{"active_profile":"gone","profiles":{"work":{"provider":"azure"}}}`
	if err := os.WriteFile(cm.GetConfigPath(), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	f, err := cm.Load()
	if err != nil {
		t.Fatal(err)
	}
	if f.ActiveProfile != "default" {
		t.Errorf("ActiveProfile = %q, want default", f.ActiveProfile)
	}
	if _, ok := f.Profiles["default"]; !ok {
		t.Error("default profile not restored")
	}
	if f.Profiles["work"].Model != "gpt-4" {
		t.Errorf("missing model not default-filled: %+v", f.Profiles["work"])
	}
}

func TestInvalidConfigFile(t *testing.T) {
	cm := setupTestConfig(t)
	if err := os.MkdirAll(filepath.Dir(cm.GetConfigPath()), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cm.GetConfigPath(), []byte(`["not", "an", "object"]`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := cm.Load(); !apperr.Is(err, apperr.KindConfig) {
		t.Errorf("Load() error = %v, want config error", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/lexi-test/config.json")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != "/tmp/lexi-test/config.json" {
		t.Errorf("DefaultPath() = %q", p)
	}

	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", "/home/someone")
	p, err = DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/home/someone", ".lexi", "config.json") {
		t.Errorf("DefaultPath() = %q", p)
	}
}

// *For any* sequence of profile creations and deletions, the active profile
// resolves to an existing entry and the default profile survives.
func TestPropertyProfileInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	names := []string{"default", "work", "home", "azure", "local"}

	properties.Property("active profile always resolves", prop.ForAll(
		func(ops []bool, picks []int) bool {
			cm := NewManager(filepath.Join(t.TempDir(), "config.json"))
			for i, create := range ops {
				name := names[picks[i]]
				if create {
					if _, err := cm.Create(name); err != nil {
						return false
					}
				} else {
					_, _ = cm.Remove(name)
				}
			}

			f, err := cm.Load()
			if err != nil {
				return false
			}
			_, hasDefault := f.Profiles["default"]
			_, hasActive := f.Profiles[f.ActiveProfile]
			return hasDefault && hasActive
		},
		gen.SliceOfN(8, gen.Bool()),
		gen.SliceOfN(8, gen.IntRange(0, len(names)-1)),
	))

	properties.TestingRun(t)
}
