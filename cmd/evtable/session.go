package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evtable/evtable"
)

// Session is the working state shared between CLI invocations: the URL
// derivation table and the extraction work table.
type Session struct {
	URLs evtable.URLTable `json:"urls"`
	Work evtable.Table    `json:"work"`
}

// SessionStore persists a Session as a JSON file.
type SessionStore struct {
	Path string
}

// Load reads the session file. A missing file yields an empty session.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", s.Path, err)
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("parse session %q: %w", s.Path, err)
	}
	return sess, nil
}

// Save writes the session file, creating its directory if needed.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("write session %q: %w", s.Path, err)
	}
	return nil
}
