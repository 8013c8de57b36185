package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWrite replaces filePath with data so readers never observe a partial file
func AtomicWrite(filePath string, data []byte, createBackup bool) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if createBackup && FileExists(filePath) {
		bm := NewBackupManager(DefaultBackupRetention)
		if _, err := bm.CreateBackup(filePath); err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
	}

	// Create temporary file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	tmpFile.Close()

	// The file holds API keys
	if err := os.Chmod(tmpFile.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filePath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	if createBackup {
		bm := NewBackupManager(DefaultBackupRetention)
		// Non-fatal, the update itself succeeded
		_ = bm.CleanupOldBackups(filePath)
	}

	return nil
}

// Layout describes the shape of a config file on disk
type Layout int

const (
	LayoutEmpty    Layout = iota // missing or zero-length file
	LayoutProfiles               // {"active_profile": ..., "profiles": {...}}
	LayoutLegacy                 // fields of a single configuration at the top level
	LayoutInvalid                // not a JSON object
)

// legacyFields are the top-level keys written by the single-profile format
var legacyFields = []string{"provider", "model", "api_key", "base_url", "temperature", "max_tokens"}

// DetectLayout inspects raw config bytes without decoding them into structs
func DetectLayout(data []byte) Layout {
	if len(data) == 0 || len(gjson.ParseBytes(data).Raw) == 0 {
		return LayoutEmpty
	}
	if !gjson.ValidBytes(data) {
		return LayoutInvalid
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return LayoutInvalid
	}
	if root.Get("profiles").IsObject() || root.Get("active_profile").Exists() {
		return LayoutProfiles
	}
	for _, field := range legacyFields {
		if root.Get(field).Exists() {
			return LayoutLegacy
		}
	}
	// An empty object is filled with defaults like a missing file
	return LayoutEmpty
}
