package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "rtui-test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "rtui-test", []byte(passphrase))
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func TestPlainTextCredentials(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	require.NoError(t, store.Load(dir))
	assert.Equal(t, "", store.Get(ProviderOpenAI))

	require.NoError(t, store.Set(ProviderOpenAI, "sk-1"))
	require.NoError(t, store.Save(dir))

	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := NewCredentialStore(SecurityPlainText, "")
	require.NoError(t, reloaded.Load(dir))
	assert.Equal(t, "sk-1", reloaded.Get(ProviderOpenAI))

	require.NoError(t, reloaded.Delete(ProviderOpenAI))
	assert.Equal(t, "", reloaded.Get(ProviderOpenAI))
	assert.Error(t, reloaded.Set("", "x"))
}

func TestSSHEncryptedCredentials(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, "")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	require.NoError(t, store.Set(ProviderAnthropic, "sk-ant"))
	require.NoError(t, store.Save(dir))

	raw, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-ant")

	reloaded := NewCredentialStore(SecuritySSHKey, keyPath)
	require.NoError(t, reloaded.Load(dir))
	assert.Equal(t, "sk-ant", reloaded.Get(ProviderAnthropic))
}

func TestSSHEncryptedKeyNeedsPassphrase(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, "hunter2")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	require.NoError(t, store.Set(ProviderOpenAI, "sk-1"))
	assert.ErrorIs(t, store.Save(dir), ErrPassphraseRequired)

	store.SetPassphrase("hunter2")
	require.NoError(t, store.Save(dir))

	wrong := NewCredentialStore(SecuritySSHKey, keyPath)
	wrong.SetPassphrase("nope")
	assert.Error(t, wrong.Load(dir))

	right := NewCredentialStore(SecuritySSHKey, keyPath)
	right.SetPassphrase("hunter2")
	require.NoError(t, right.Load(dir))
	assert.Equal(t, "sk-1", right.Get(ProviderOpenAI))
}

func TestSSHMethodRequiresKeyPath(t *testing.T) {
	store := NewCredentialStore(SecuritySSHKey, "")
	require.NoError(t, store.Set(ProviderOpenAI, "sk-1"))
	assert.Error(t, store.Save(t.TempDir()))
}

func TestUnknownSecurityMethod(t *testing.T) {
	store := NewCredentialStore("vault", "")
	assert.Error(t, store.Load(t.TempDir()))
	assert.Error(t, store.Save(t.TempDir()))
}
