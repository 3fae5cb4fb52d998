// Package filex holds small filesystem helpers for staging uploads.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EnsureSubdDir creates dirName (relative to the working directory unless
// absolute) and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// StagingPath returns a fresh path inside dir that keeps the lower-cased
// extension of the client-supplied name. The client name itself is never
// used, so it cannot escape dir.
func StagingPath(dir, clientName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(clientName)))
	if len(ext) > 10 {
		ext = ""
	}
	return filepath.Join(dir, uuid.NewString()+ext)
}
