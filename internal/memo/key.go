package memo

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key identifies one memoized result.
type Key string

// NewKey derives a key from a namespace (usually the memoized function's
// name) and its ordered argument parts.
func NewKey(namespace string, parts ...string) Key {
	h := sha256.New()
	var lenBuf [binary.MaxVarintLen64]byte

	write := func(s string) {
		n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
		_, _ = h.Write(lenBuf[:n])
		_, _ = h.Write([]byte(s))
	}

	write(namespace)
	n := binary.PutUvarint(lenBuf[:], uint64(len(parts)))
	_, _ = h.Write(lenBuf[:n])
	for _, p := range parts {
		write(p)
	}

	sum := h.Sum(nil)
	return Key(namespace + ":" + hex.EncodeToString(sum[:16]))
}
