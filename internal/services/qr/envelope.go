package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrDecryptionFailed covers every way a token can fail to open: bad hex,
// wrong segment count, truncated ciphertext, bad padding. Callers get one
// uniform failure so the error itself is not an oracle.
var ErrDecryptionFailed = errors.New("decryption failed")

// Envelope seals machine payloads into the printed QR wire format
// "<hex-IV>:<hex-ciphertext>" using AES-256-CBC with a per-call random IV.
// The format carries no MAC because stickers already in the field use it;
// decrypted bytes are untrusted until payload validation passes.
type Envelope struct {
	key [32]byte
}

// NewEnvelope derives the 256-bit cipher key from the configured secret.
// SHA-256 replaces the older truncate-or-pad derivation without changing the
// wire shape.
func NewEnvelope(secret string) *Envelope {
	return &Envelope{key: sha256.Sum256([]byte(secret))}
}

// Seal encrypts plaintext and returns the wire-format token.
func (e *Envelope) Seal(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(e.key[:])
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Open decrypts a wire-format token and returns the plaintext.
func (e *Envelope) Open(token string) ([]byte, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return nil, ErrDecryptionFailed
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return nil, ErrDecryptionFailed
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(e.key[:])
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecryptionFailed
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-padLen], nil
}
