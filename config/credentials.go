package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

const (
	plainCredentialsFile     = "credentials.toml"
	encryptedCredentialsFile = "credentials.enc"
)

// CredentialStore holds provider API keys, either in a 0600 TOML file or
// AES-GCM encrypted with a key derived from an SSH private key.
type CredentialStore struct {
	mu          sync.RWMutex
	method      SecurityMethod
	credentials map[string]string // provider id -> API key
	sshKeyPath  string
	passphrase  string
	cipher      *sshCipher
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
		sshKeyPath:  sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for an encrypted SSH key. It must be
// called before Load or Save.
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passphrase = passphrase
	c.cipher = nil
}

func (c *CredentialStore) Method() SecurityMethod {
	return c.method
}

func (c *CredentialStore) Load(dataDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		creds map[string]string
		err   error
	)
	switch c.method {
	case SecurityPlainText:
		creds, err = loadPlainText(filepath.Join(dataDir, plainCredentialsFile))
	case SecuritySSHKey:
		creds, err = c.loadEncrypted(filepath.Join(dataDir, encryptedCredentialsFile))
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
	if err != nil {
		return err
	}
	if creds == nil {
		creds = make(map[string]string)
	}
	c.credentials = creds
	return nil
}

func (c *CredentialStore) Save(dataDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.method {
	case SecurityPlainText:
		return savePlainText(filepath.Join(dataDir, plainCredentialsFile), c.credentials)
	case SecuritySSHKey:
		return c.saveEncrypted(filepath.Join(dataDir, encryptedCredentialsFile))
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

func (c *CredentialStore) Get(providerID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials[providerID]
}

func (c *CredentialStore) Set(providerID, apiKey string) error {
	if providerID == "" {
		return fmt.Errorf("provider id is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credentials[providerID] = apiKey
	return nil
}

func (c *CredentialStore) Delete(providerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.credentials, providerID)
	return nil
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

func loadPlainText(path string) (map[string]string, error) {
	if !FileExists(path) {
		return nil, nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return cf.Credentials, nil
}

func savePlainText(path string, creds map[string]string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{Credentials: creds}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

func (c *CredentialStore) ensureCipher() error {
	if c.cipher != nil {
		return nil
	}
	if c.sshKeyPath == "" {
		return fmt.Errorf("security.ssh_key_path is required for the %s method", SecuritySSHKey)
	}
	sc, err := newSSHCipher(c.sshKeyPath, c.passphrase)
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	c.cipher = sc
	return nil
}

func (c *CredentialStore) loadEncrypted(path string) (map[string]string, error) {
	if !FileExists(path) {
		return nil, nil
	}
	if err := c.ensureCipher(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}
	plain, err := c.cipher.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds map[string]string
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}
	return creds, nil
}

func (c *CredentialStore) saveEncrypted(path string) error {
	if err := c.ensureCipher(); err != nil {
		return err
	}

	data, err := json.Marshal(c.credentials)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	sealed, err := c.cipher.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}
	return nil
}
