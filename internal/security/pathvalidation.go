// Package security validates filesystem paths derived from untrusted input.
// Candidate database names come from scraped device output, so anything
// joined onto a local directory must be proven to stay inside it.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that path resolves to a location inside
// safeDir, rejecting traversal via . and .. components.
func ValidatePathWithinDirectory(path, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	rel, err := filepath.Rel(absSafeDir, absPath)
	if err != nil {
		return fmt.Errorf("failed to relativize %q against %q: %w", absPath, absSafeDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes directory %q", path, safeDir)
	}
	return nil
}

// SafeBaseName reduces an untrusted remote path to a bare file name suitable
// for joining onto a local directory. It strips directory components and
// rejects names that are empty or refer to the directory itself.
func SafeBaseName(remote string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(remote, "\\", "/"))
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return "", fmt.Errorf("remote path %q has no usable file name", remote)
	}
	return base, nil
}
