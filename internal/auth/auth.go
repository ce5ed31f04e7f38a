package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidKey = errors.New("invalid API key")
	ErrBadHash    = errors.New("invalid API key hash")
)

// KeySet validates API keys against bcrypt hashes. Keys that verified once
// are remembered by digest so bcrypt runs once per key.
type KeySet struct {
	hashes   [][]byte
	verified map[[sha256.Size]byte]bool
	mu       sync.RWMutex
}

// NewKeySet creates a key set from bcrypt hashes
func NewKeySet(hashes []string) (*KeySet, error) {
	ks := &KeySet{verified: make(map[[sha256.Size]byte]bool)}
	for i, h := range hashes {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("%w at index %d: %v", ErrBadHash, i, err)
		}
		ks.hashes = append(ks.hashes, []byte(h))
	}
	return ks, nil
}

// Len returns the number of configured keys
func (ks *KeySet) Len() int {
	return len(ks.hashes)
}

// Validate checks a presented key
func (ks *KeySet) Validate(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	digest := sha256.Sum256([]byte(key))

	ks.mu.RLock()
	ok := ks.verified[digest]
	ks.mu.RUnlock()
	if ok {
		return nil
	}

	for _, h := range ks.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			ks.mu.Lock()
			ks.verified[digest] = true
			ks.mu.Unlock()
			return nil
		}
	}
	return ErrInvalidKey
}

// GenerateAPIKey generates a new random API key
func GenerateAPIKey() (string, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(keyBytes), nil
}

// HashKey hashes a key for the server.api_key_hashes setting
func HashKey(key string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash API key: %w", err)
	}
	return string(hash), nil
}

// KeyFromRequest reads "Authorization: Bearer <key>" or X-API-Key
func KeyFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.Header.Get("X-API-Key")
}

// Middleware rejects requests without a valid key. Paths in public are
// served without one.
func (ks *KeySet) Middleware(public ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if err := ks.Validate(KeyFromRequest(r)); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="textwrap"`)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or missing API key"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
