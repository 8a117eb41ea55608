package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadLastFile returns the sheet path stored in the session file, or "" when
// no session has been saved yet.
func LoadLastFile(session string) (string, error) {
	data, err := os.ReadFile(session)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("config: read session %s: %w", session, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveLastFile records sheet as the last opened file.
func SaveLastFile(session, sheet string) error {
	if err := os.MkdirAll(filepath.Dir(session), 0755); err != nil {
		return fmt.Errorf("config: write session %s: %w", session, err)
	}
	if err := os.WriteFile(session, []byte(sheet), 0644); err != nil {
		return fmt.Errorf("config: write session %s: %w", session, err)
	}
	return nil
}
