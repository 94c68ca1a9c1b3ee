package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/merocrm/mero-crm/pkg/crmclient"
)

// loadSession reads the saved session. A missing file yields an empty one.
func loadSession(path string) (*crmclient.Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return crmclient.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var state crmclient.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return crmclient.RestoreSession(state), nil
}

// saveSession writes the session readable by the current user only
func saveSession(path string, s *crmclient.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.State(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
