package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Backup constants
const (
	// DefaultBackupRetention is the default number of backups to keep
	DefaultBackupRetention = 3
)

// BackupManager manages backup files for the config file
type BackupManager struct {
	// MaxBackups is the maximum number of backups to retain
	MaxBackups int
}

// NewBackupManager creates a new BackupManager with default settings
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{
		MaxBackups: maxBackups,
	}
}

// CreateBackup copies filePath to filePath.backup-YYYYMMDDHHMMSS-PID
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	timestamp := time.Now().Format("20060102150405")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, timestamp, os.Getpid())

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	return backupPath, nil
}

// ListBackups returns the backups of filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	backupFiles, err := filepath.Glob(filePath + ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	sort.Slice(backupFiles, func(i, j int) bool {
		iInfo, err1 := os.Stat(backupFiles[i])
		jInfo, err2 := os.Stat(backupFiles[j])
		if err1 != nil || err2 != nil {
			return backupFiles[i] < backupFiles[j]
		}
		if iInfo.ModTime().Equal(jInfo.ModTime()) {
			return backupFiles[i] < backupFiles[j]
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	return backupFiles, nil
}

// CleanupOldBackups removes all but the newest MaxBackups backups
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	excess := len(backupFiles) - bm.MaxBackups
	for i := 0; i < excess; i++ {
		if err := os.Remove(backupFiles[i]); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old backup %s: %w", backupFiles[i], err)
		}
	}

	return nil
}

// copyFile copies a file from src to dst, keeping src's permissions
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
