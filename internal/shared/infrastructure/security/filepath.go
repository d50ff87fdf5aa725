// Package security guards the files taskmatch reads on behalf of the user.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never expected in a fixture path.
const forbiddenChars = ";&|$`(){}<>!\n\r"

var (
	ErrEmptyPath     = errors.New("file path cannot be empty")
	ErrForbiddenPath = errors.New("file path contains a forbidden character")
	ErrNotRegular    = errors.New("not a regular file")
	ErrTooLarge      = errors.New("file exceeds size limit")
)

// ValidateFilePath returns the absolute, cleaned and symlink-resolved form of
// path. A path that does not exist yet is returned cleaned but unresolved.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w %q: %s", ErrForbiddenPath, path[i], path)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// SafeOpen validates path and opens it for reading. Anything but a regular
// file is refused, as is a file larger than maxBytes when maxBytes > 0.
func SafeOpen(path string, maxBytes int64) (*os.File, error) {
	resolved, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved) // #nosec G304 -- validated above
	if err != nil {
		return nil, err
	}
	if err := checkFile(f, maxBytes); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func checkFile(f *os.File, maxBytes int64) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotRegular
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return fmt.Errorf("%w of %d bytes", ErrTooLarge, maxBytes)
	}
	return nil
}
