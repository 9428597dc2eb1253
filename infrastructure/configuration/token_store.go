package configuration

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// DefaultTokenPath is where the OAuth callback persists the user's token.
const DefaultTokenPath = "token.json"

// TokenStore persists the OAuth token between restarts as a JSON file.
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = DefaultTokenPath
	}
	return &TokenStore{path: path}
}

func (s *TokenStore) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return &token, nil
}

// Delete removes the stored token; a missing file is not an error.
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
