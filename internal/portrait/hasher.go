// Package portrait resolves a member's portrait image URL into a
// content-addressed identifier. Only the hash is stored; raw image bytes
// never reach the database. SHA-1 matches the identifiers already present in
// the live schema.
package portrait

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Fetcher retrieves raw bytes. Implemented by the fetch client.
type Fetcher interface {
	GetRaw(ctx context.Context, url string) ([]byte, error)
}

// Hasher fetches portraits and hashes their content.
type Hasher struct {
	fetcher Fetcher
}

// NewHasher creates a portrait hasher.
func NewHasher(fetcher Fetcher) *Hasher {
	return &Hasher{fetcher: fetcher}
}

// Hash downloads the image at url and returns the SHA-1 hex digest of its
// bytes.
func (h *Hasher) Hash(ctx context.Context, url string) (string, error) {
	body, err := h.fetcher.GetRaw(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch portrait: %w", err)
	}

	sum := sha1.Sum(body)
	return hex.EncodeToString(sum[:]), nil
}
