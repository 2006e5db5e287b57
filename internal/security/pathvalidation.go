package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that filePath resolves inside safeDir.
// Symlinks are resolved for both the path (or its nearest existing parent)
// and the directory, so a link pointing outside safeDir is rejected too.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	canonicalPath := absPath
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		canonicalPath = resolved
	} else {
		// Walk up to the first existing parent so /dir/link/missing.jpg is
		// judged by where link points.
		checkPath := absPath
		for {
			parentDir := filepath.Dir(checkPath)
			if parentDir == checkPath {
				break
			}
			if resolved, err := filepath.EvalSymlinks(parentDir); err == nil {
				relToParent, _ := filepath.Rel(parentDir, absPath)
				canonicalPath = filepath.Join(resolved, relToParent)
				break
			}
			checkPath = parentDir
		}
	}

	canonicalSafeDir, err := filepath.EvalSymlinks(absSafeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory symlinks: %w", err)
	}

	relPath, err := filepath.Rel(canonicalSafeDir, canonicalPath)
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}
	return nil
}

// ResolveWithinDirectory joins a relative reference onto baseDir (absolute
// references are taken as-is) and validates the result stays inside baseDir.
func ResolveWithinDirectory(ref, baseDir string) (string, error) {
	if strings.ContainsRune(ref, 0) {
		return "", fmt.Errorf("path contains NUL byte")
	}
	path := ref
	if !filepath.IsAbs(ref) {
		path = filepath.Join(baseDir, ref)
	}
	if err := ValidatePathWithinDirectory(path, baseDir); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeFilename makes a safe file name from an arbitrary string. Characters
// other than ASCII letters, digits, dot, underscore and dash become a single
// underscore, and the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128

	s = filepath.Base(filepath.ToSlash(s))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			if !lastUnderscore {
				b.WriteRune(r)
			}
			lastUnderscore = true
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
