package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyToken  = "auth.token"
	keyLabel  = "auth.label"
	keyAPIKey = "youtube.api_key"

	// AdoptedLabel names a session taken over from a verification link
	AdoptedLabel = "verified member"
)

// legacyKeys are local usage counters written by older clients. The server
// owns the counter, so they are dropped whenever the session is saved.
var legacyKeys = []string{"usage.count", "usage.paid"}

// Session is the locally cached login
type Session struct {
	Token string `json:"token" yaml:"token"`
	Label string `json:"label" yaml:"label"`
}

// SessionStore keeps at most one session and the user's YouTube API key in the
// CLI config file. It never talks to the network.
type SessionStore struct {
	v    *viper.Viper
	path string
}

// NewSessionStore binds the store to v and persists it at path
func NewSessionStore(v *viper.Viper, path string) *SessionStore {
	v.SetConfigFile(path)
	return &SessionStore{v: v, path: path}
}

// Path returns the config file location
func (s *SessionStore) Path() string {
	return s.path
}

// Current returns the cached session, if any
func (s *SessionStore) Current() (Session, bool) {
	token := strings.TrimSpace(s.v.GetString(keyToken))
	if token == "" {
		return Session{}, false
	}
	return Session{Token: token, Label: s.v.GetString(keyLabel)}, true
}

// Set replaces the cached session
func (s *SessionStore) Set(token, label string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty session token")
	}
	s.v.Set(keyToken, token)
	s.v.Set(keyLabel, label)
	return s.save()
}

// Clear forgets the cached session. The API key is kept.
func (s *SessionStore) Clear() error {
	s.v.Set(keyToken, "")
	s.v.Set(keyLabel, "")
	return s.save()
}

// SetAPIKey caches the YouTube Data API key
func (s *SessionStore) SetAPIKey(key string) error {
	s.v.Set(keyAPIKey, strings.TrimSpace(key))
	return s.save()
}

// APIKey returns the cached YouTube Data API key
func (s *SessionStore) APIKey() string {
	return strings.TrimSpace(s.v.GetString(keyAPIKey))
}

// AdoptFromURL takes over a session token handed out in a link fragment
// (#access_token=...). It returns the link with the fragment removed, so
// adopting the returned link again is a no-op.
func (s *SessionStore) AdoptFromURL(raw string) (string, bool, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw, false, fmt.Errorf("parse link: %w", err)
	}
	if u.Fragment == "" {
		return u.String(), false, nil
	}

	values, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return raw, false, fmt.Errorf("parse link fragment: %w", err)
	}
	token := values.Get("access_token")
	if token == "" {
		return u.String(), false, nil
	}

	if err := s.Set(token, AdoptedLabel); err != nil {
		return raw, false, err
	}

	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true, nil
}

// save writes the settings without the legacy keys and reloads them
func (s *SessionStore) save() error {
	settings := s.v.AllSettings()
	for _, k := range legacyKeys {
		deleteNested(settings, strings.Split(k, "."))
	}

	out := viper.New()
	if err := out.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("prepare config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := out.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}

	if err := s.v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reload config: %w", err)
	}
	return nil
}

func deleteNested(m map[string]interface{}, path []string) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		delete(m, path[0])
		return
	}
	child, ok := m[path[0]].(map[string]interface{})
	if !ok {
		return
	}
	deleteNested(child, path[1:])
	if len(child) == 0 {
		delete(m, path[0])
	}
}
