package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// MinSecretLength is the shortest secret NewCookieStore accepts.
const MinSecretLength = 32

// CookieStore keeps the token in the browser, sealed with XChaCha20-Poly1305
// so the raw bearer token never reaches client-side script or logs.
type CookieStore struct {
	aead cipher.AEAD
	opts CookieOptions
}

func NewCookieStore(secret []byte, opts CookieOptions) (*CookieStore, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	}

	key := sha256.Sum256(secret)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cookie cipher: %w", err)
	}

	return &CookieStore{aead: aead, opts: opts.withDefaults()}, nil
}

// Token returns "" for a missing, tampered or foreign cookie.
func (s *CookieStore) Token(ctx context.Context) (string, error) {
	b, err := bindingFrom(ctx)
	if err != nil {
		return "", err
	}

	value := b.cookie(s.opts.Name)
	if value == "" {
		return "", nil
	}

	token, err := s.open(value)
	if err != nil {
		return "", nil
	}
	return token, nil
}

func (s *CookieStore) Save(ctx context.Context, token string) error {
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}

	sealed, err := s.seal(token)
	if err != nil {
		return err
	}
	b.set(s.opts, sealed)
	return nil
}

func (s *CookieStore) Clear(ctx context.Context) error {
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}
	b.set(s.opts, "")
	return nil
}

func (s *CookieStore) seal(token string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(token)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(token), []byte(s.opts.Name))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *CookieStore) open(value string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode cookie: %w", err)
	}
	if len(data) < s.aead.NonceSize() {
		return "", errors.New("cookie too short")
	}

	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(s.opts.Name))
	if err != nil {
		return "", fmt.Errorf("open cookie: %w", err)
	}
	return string(plain), nil
}
