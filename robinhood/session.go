package robinhood

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "rbl-robinhood-session"

// SaveSession persists the session token to a temp file so subsequent
// invocations can skip the login prompt.
func SaveSession(token string) error {
	path := filepath.Join(os.TempDir(), sessionFile)
	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session token.
func LoadSession() (string, error) {
	path := filepath.Join(os.TempDir(), sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("robinhood session not found. Please run 'rbl login' first: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("robinhood session file is empty. Please run 'rbl login' again")
	}
	return token, nil
}
