package core

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex digits
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Hasher accumulates data into a Hash
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty SHA-256 hasher
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// WriteString adds s followed by a separator
func (h *Hasher) WriteString(s string) {
	h.h.Write([]byte(s))
	h.h.Write([]byte{0})
}

// Sum returns the hash of everything written
func (h *Hasher) Sum() Hash {
	return Hash(hex.EncodeToString(h.h.Sum(nil)))
}
