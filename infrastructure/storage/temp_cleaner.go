package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelpilot/infrastructure/logger"
)

// TempCleaner removes per-project render directories after publishing. It
// refuses to touch anything outside the configured work dir.
type TempCleaner struct {
	workDir string
}

func NewTempCleaner(workDir string) *TempCleaner {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		abs = workDir
	}
	return &TempCleaner{workDir: abs}
}

func (c *TempCleaner) Remove(projectDir string) error {
	if projectDir == "" {
		return nil
	}
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(c.workDir, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to remove %s: outside work dir %s", projectDir, c.workDir)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("failed to remove project dir: %w", err)
	}
	logger.GetLogger().WithField("project_dir", abs).Info("Removed project dir")
	return nil
}
