package cryptox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreatePepper loads the password pepper from file, generating and
// persisting a new one when the file does not exist yet. Losing the file
// invalidates every stored password hash.
func LoadOrCreatePepper(file string) ([]byte, error) {
	if file == "" {
		return nil, fmt.Errorf("cryptox: pepper file path required")
	}
	file = filepath.Clean(file)

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		pepper := strings.TrimSpace(string(data))
		if pepper == "" {
			return nil, fmt.Errorf("cryptox: pepper file %s is empty", file)
		}
		return []byte(pepper), nil
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	pepper, err := GenerateToken(TokenSize256)
	if err != nil {
		return nil, err
	}

	// O_EXCL so two processes racing on first boot cannot clobber each other.
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return LoadOrCreatePepper(file)
		}
		return nil, fmt.Errorf("cryptox: write pepper: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(pepper); err != nil {
		return nil, fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return []byte(pepper), nil
}
