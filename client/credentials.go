// Package client is the CineCircle session client: it signs users in against
// an auth API, persists the issued credentials, and exposes the current-user
// state to the embedding application.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// User is the client-side view of an authenticated account.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Credentials is the persisted auth state: access token, optional refresh
// token and the serialized user record. It is written wholesale on every auth
// state change and cleared wholesale on logout.
type Credentials struct {
	AccessToken  string `json:"cinecircle_token"`
	RefreshToken string `json:"cinecircle_refresh_token,omitempty"`
	User         *User  `json:"cinecircle_user,omitempty"`
}

// Empty reports whether no usable credentials are present.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" || c.User == nil
}

// Store persists credentials between application runs.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}

// FileStore keeps credentials in a JSON file, the desktop analogue of the
// browser's local storage.
type FileStore struct {
	path string
}

// NewFileStore constructs a store backed by the given file path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("client: credentials path required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt state is treated as absent state.
		return Credentials{}, nil
	}
	return creds, nil
}

func (s *FileStore) Save(creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
