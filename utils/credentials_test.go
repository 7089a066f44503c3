package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	s := &Settings{PhoneNo: "+491234567890", PIN: "1337", Locale: "de"}
	require.NoError(t, s.Save(dir))

	info, err := os.Stat(CredentialsPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSettingsSaveRejectsNationalFormat(t *testing.T) {
	s := &Settings{PhoneNo: "01234567890", PIN: "1337"}
	err := s.Save(t.TempDir())
	assert.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSettingsIncomplete(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(CredentialsPath(dir), []byte("phone_no: \"+49123\"\n"), 0o600))
	_, err := LoadSettings(dir)
	assert.Error(t, err)
}

func TestConfigDirOverride(t *testing.T) {
	t.Setenv("PYTR_HOME", "/tmp/pytr-test-home")
	assert.Equal(t, "/tmp/pytr-test-home", ConfigDir())
}
