package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
)

const keyDerivationMessage = "rtui-credentials-key-derivation-v1"

// ErrPassphraseRequired is returned when the configured SSH key is encrypted
// and no passphrase was supplied.
var ErrPassphraseRequired = errors.New("SSH key is encrypted - passphrase required")

// sshCipher seals data with AES-256-GCM. The key is the SHA-256 of a
// signature over a fixed message, so it needs an SSH key with a deterministic
// signature scheme (ed25519, rsa).
type sshCipher struct {
	aead cipher.AEAD
}

func newSSHCipher(keyPath, passphrase string) (*sshCipher, error) {
	signer, err := loadSigner(ExpandPath(keyPath), passphrase)
	if err != nil {
		return nil, err
	}

	key, err := deriveAESKey(signer)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sshCipher{aead: aead}, nil
}

func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key (wrong passphrase?): %w", err)
	}
	return signer, nil
}

func deriveAESKey(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, []byte(keyDerivationMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}

// Encrypt returns [nonce][ciphertext+tag].
func (s *sshCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *sshCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	plaintext, err := s.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}
