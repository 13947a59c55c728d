// Package cryptoutil seals short secrets, such as stored session tokens, at rest.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// Encryptor seals and opens string values.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

const (
	// Versioned prefix to allow future key or algorithm rotation.
	cipherPrefixV1 = "v1:"
	plainPrefix    = "plain:"

	passphraseInfo = "wiqayah-admin-console/session-tokens/v1"
)

// ErrUnknownCiphertext is returned for values no Encryptor produced.
var ErrUnknownCiphertext = errors.New("unknown ciphertext version")

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

// NewAESGCMEncryptor constructs an encryptor. Key must be 32 bytes.
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMEncryptor{aead: aead}, nil
}

// NewEncryptorFromKey accepts a 64 character hex key or any passphrase, from
// which a 32 byte key is derived with HKDF-SHA256.
func NewEncryptorFromKey(key string) (*AESGCMEncryptor, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("encryption key is required")
	}
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return NewAESGCMEncryptor(decoded)
	}
	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(key), nil, []byte(passphraseInfo)), derived); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return NewAESGCMEncryptor(derived)
}

// Encrypt seals plaintext with a random nonce and returns a versioned base64 string.
func (e *AESGCMEncryptor) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// nonce||ciphertext
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value created by Encrypt. Values written by PlainEncryptor
// are accepted so a key can be introduced without dropping live sessions.
func (e *AESGCMEncryptor) Decrypt(ciphertext string) (string, error) {
	if strings.HasPrefix(ciphertext, plainPrefix) {
		return PlainEncryptor{}.Decrypt(ciphertext)
	}
	if !strings.HasPrefix(ciphertext, cipherPrefixV1) {
		return "", ErrUnknownCiphertext
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext[len(cipherPrefixV1):])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	n := e.aead.NonceSize()
	if len(data) < n {
		return "", errors.New("ciphertext too short")
	}
	pt, err := e.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// PlainEncryptor only encodes; it is used when no key is configured.
type PlainEncryptor struct{}

func (PlainEncryptor) Encrypt(plaintext string) (string, error) {
	return plainPrefix + base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

func (PlainEncryptor) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, plainPrefix) {
		return "", ErrUnknownCiphertext
	}
	b, err := base64.StdEncoding.DecodeString(ciphertext[len(plainPrefix):])
	if err != nil {
		return "", fmt.Errorf("decode plain value: %w", err)
	}
	return string(b), nil
}
