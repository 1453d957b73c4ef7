// Package crypto implements the reversible encryption behind
// GET /get-decrypted-password. Values are sealed with AES-256-GCM and stored
// base64-encoded, nonce prepended, so a row carries everything needed to open
// it except the key.
//
// Registration writes bcrypt hashes into the same column; those rows fail GCM
// authentication and Open returns ErrDecryptionFailed. Only rows written by an
// older deployment that encrypted symmetrically (pgp_sym_encrypt) open
// successfully. Both paths are part of the published contract.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrKeyLengthInvalid is returned when a master key is not exactly 32 bytes (required for AES-256).
	ErrKeyLengthInvalid = errors.New("crypto: key must be exactly 32 bytes for AES-256")
	// ErrCiphertextCorrupted is returned when the stored value fails base64 decoding
	// or is too short to carry a nonce.
	ErrCiphertextCorrupted = errors.New("crypto: ciphertext is corrupted or tampered")
	// ErrDecryptionFailed is returned when GCM authentication fails. A bcrypt hash
	// in the password column produces this error.
	ErrDecryptionFailed = errors.New("crypto: decryption operation failed")
	// ErrSaltTooShort is returned for derivation salts under 16 bytes.
	ErrSaltTooShort = errors.New("crypto: salt must be at least 16 bytes")
)

// derivationSalt is fixed so that the same PASSWORD_ENCRYPTION_KEY string maps
// to the same AES key on every instance and across restarts. Rows sealed by one
// deployment must stay openable by the next.
var derivationSalt = []byte("network-onboarding.pwd.v1")

const derivationIterations = 100000

// PasswordCipher seals and opens stored password values with a fixed 32-byte key.
type PasswordCipher struct {
	masterKey []byte
}

// NewPasswordCipher creates a cipher from a raw 32-byte key.
func NewPasswordCipher(masterKey []byte) (*PasswordCipher, error) {
	if len(masterKey) != 32 {
		return nil, ErrKeyLengthInvalid
	}
	pc := &PasswordCipher{masterKey: make([]byte, 32)}
	copy(pc.masterKey, masterKey)
	return pc, nil
}

// DerivePasswordCipher stretches a passphrase into an AES-256 key with
// PBKDF2-SHA256. Iteration counts below 10000 are raised to the default.
func DerivePasswordCipher(passphrase string, salt []byte, iterations int) (*PasswordCipher, error) {
	if len(salt) < 16 {
		return nil, ErrSaltTooShort
	}
	if iterations < 10000 {
		iterations = derivationIterations
	}
	return NewPasswordCipher(pbkdf2.Key([]byte(passphrase), salt, iterations, 32, sha256.New))
}

// CipherForKey builds the cipher for a configured PASSWORD_ENCRYPTION_KEY.
// A value of exactly 32 bytes is used as the AES key directly; anything else
// is treated as a passphrase and stretched with the deployment-wide salt.
func CipherForKey(key string) (*PasswordCipher, error) {
	if len(key) == 32 {
		return NewPasswordCipher([]byte(key))
	}
	return DerivePasswordCipher(key, derivationSalt, derivationIterations)
}

func (pc *PasswordCipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(pc.masterKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext). The empty
// string round-trips as itself.
func (pc *PasswordCipher) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := pc.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(aead.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

// Open reverses Seal. Stored values that were never sealed with this key,
// bcrypt hashes included, fail with ErrCiphertextCorrupted or ErrDecryptionFailed.
func (pc *PasswordCipher) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCiphertextCorrupted
	}

	aead, err := pc.aead()
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrCiphertextCorrupted
	}

	plaintext, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
