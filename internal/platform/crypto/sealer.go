// Package crypto seals sensitive employee fields before they are stored.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Stored values carry a one byte prefix so rows written before a key was
// configured stay readable after one is.
const (
	formatPlain  byte = 0
	formatAESGCM byte = 1
)

var (
	ErrKeyMissing  = errors.New("value is encrypted but no DATA_ENCRYPTION_KEY is configured")
	ErrBadKey      = errors.New("DATA_ENCRYPTION_KEY must decode to 32 bytes (hex or base64)")
	ErrCorruptData = errors.New("sealed value is corrupt")
)

// Sealer encrypts with AES-256-GCM. A Sealer without a key, including a nil
// *Sealer, stores values in plain form.
type Sealer struct {
	aead cipher.AEAD
}

func New(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Configured() bool {
	return s != nil && s.aead != nil
}

// Seal returns nil for an empty value so the column can stay NULL.
func (s *Sealer) Seal(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	if !s.Configured() {
		return append([]byte{formatPlain}, value...), nil
	}
	out := make([]byte, 1+s.aead.NonceSize(), 1+s.aead.NonceSize()+len(value)+s.aead.Overhead())
	out[0] = formatAESGCM
	if _, err := io.ReadFull(rand.Reader, out[1:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return s.aead.Seal(out, out[1:], []byte(value), nil), nil
}

func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	switch sealed[0] {
	case formatPlain:
		return string(sealed[1:]), nil
	case formatAESGCM:
		if !s.Configured() {
			return "", ErrKeyMissing
		}
		body := sealed[1:]
		if len(body) < s.aead.NonceSize() {
			return "", ErrCorruptData
		}
		nonce, data := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
		plain, err := s.aead.Open(nil, nonce, data, nil)
		if err != nil {
			return "", ErrCorruptData
		}
		return string(plain), nil
	default:
		return "", ErrCorruptData
	}
}

func decodeKey(key string) ([]byte, error) {
	candidates := []func(string) ([]byte, error){
		hex.DecodeString,
		base64.StdEncoding.DecodeString,
		base64.RawStdEncoding.DecodeString,
	}
	for _, decode := range candidates {
		if raw, err := decode(key); err == nil && len(raw) == 32 {
			return raw, nil
		}
	}
	return nil, ErrBadKey
}
