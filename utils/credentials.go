package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SoerenFox/pytr-Modified/utils/log"
	"gopkg.in/yaml.v2"
)

const (
	credentialsFile = "credentials.yml"
	cookiesFile     = "cookies.json"
	keyFile         = "device_key.pem"
	registryFile    = "downloads.msgpack.sz"
)

// Settings holds the stored login credentials and preferences.
type Settings struct {
	PhoneNo string `yaml:"phone_no"`
	PIN     string `yaml:"pin"`
	Locale  string `yaml:"locale,omitempty"`
}

// ConfigDir returns the pytr configuration directory. PYTR_HOME
// overrides the default of $HOME/.pytr.
func ConfigDir() string {
	if dir := os.Getenv("PYTR_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warn("cannot determine home directory: %v", err)
		return ".pytr"
	}
	return filepath.Join(home, ".pytr")
}

// CredentialsPath returns the credentials file location under dir.
func CredentialsPath(dir string) string { return filepath.Join(dir, credentialsFile) }

// CookiesPath returns the web session cookie file location under dir.
func CookiesPath(dir string) string { return filepath.Join(dir, cookiesFile) }

// KeyPath returns the app login device key location under dir.
func KeyPath(dir string) string { return filepath.Join(dir, keyFile) }

// RegistryPath returns the document download registry location under dir.
func RegistryPath(dir string) string { return filepath.Join(dir, registryFile) }

// LoadSettings reads the stored credentials from dir. A missing file
// yields os.ErrNotExist.
func LoadSettings(dir string) (*Settings, error) {
	data, err := os.ReadFile(CredentialsPath(dir))
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	if s.PhoneNo == "" || s.PIN == "" {
		return nil, errors.New("credentials file is missing phone_no or pin")
	}
	return s, nil
}

// Save writes the credentials to dir with restrictive permissions.
func (s *Settings) Save(dir string) error {
	if !strings.HasPrefix(s.PhoneNo, "+") {
		return fmt.Errorf("phone number %q not in international format", s.PhoneNo)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	path := CredentialsPath(dir)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	log.Info("credentials stored in %s", path)
	return nil
}
