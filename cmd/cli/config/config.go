package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crucial707/hrms/cmd/cli/client"
)

const (
	defaultAPIURL   = "http://localhost:8080"
	sessionFileName = ".hrms_session.json"
)

// ErrNoSession means no login has been saved.
var ErrNoSession = errors.New("not logged in: run `hrms auth login` first")

// APIURL returns the base URL for the HRMS API.
// It can be overridden with the HRMS_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("HRMS_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SessionPath is where the login session is stored. HRMS_SESSION_FILE overrides it.
func SessionPath() string {
	if v := os.Getenv("HRMS_SESSION_FILE"); v != "" {
		return v
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return sessionFileName
	}
	return filepath.Join(dir, sessionFileName)
}

// SaveSession writes s with owner-only permissions.
func SaveSession(s client.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(SessionPath(), data, 0o600)
}

// LoadSession reads the saved session. The base URL is refreshed from
// HRMS_API_URL when that is set.
func LoadSession() (client.Session, error) {
	var s client.Session
	data, err := os.ReadFile(SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return s, ErrNoSession
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("corrupt session file %s: %w", SessionPath(), err)
	}
	if s.Token == "" {
		return s, ErrNoSession
	}
	if v := os.Getenv("HRMS_API_URL"); v != "" || s.BaseURL == "" {
		s.BaseURL = APIURL()
	}
	return s, nil
}

// ClearSession removes the saved session. A missing file is not an error.
func ClearSession() error {
	err := os.Remove(SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
