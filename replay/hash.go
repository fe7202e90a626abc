// Package replay implements deterministic replay verification of rendered
// frames.
//
// In record mode every rendered frame is hashed and, unless it repeats the
// previous frame, appended to an expected-hash queue. In verify mode each
// frame's hash is checked against the head of a queue recorded earlier.
package replay

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the width of a frame hash in bytes.
const HashSize = 4

// ErrInvalidHash is the sentinel wrapped by every ParseError.
var ErrInvalidHash = errors.New("replay: invalid hash")

// Hash identifies the exact byte content of one rendered frame. It is a
// BLAKE2b-256 digest truncated to HashSize bytes; the width only affects
// the false-positive rate of verification.
type Hash [HashSize]byte

// Sum hashes a frame.
func Sum(frame []byte) Hash {
	full := blake2b.Sum256(frame)
	var h Hash
	copy(h[:], full[:HashSize])
	return h
}

// String renders the hash as lowercase hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseError describes a malformed hash string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("replay: invalid hash %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidHash
}

// ParseHash parses the hex form produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s)%2 != 0 {
		return h, &ParseError{Input: s, Reason: "odd number of hex digits"}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, &ParseError{Input: s, Reason: "invalid hex digit"}
	}
	if len(b) != HashSize {
		return h, &ParseError{Input: s, Reason: fmt.Sprintf("expected %d bytes, got %d", HashSize, len(b))}
	}
	copy(h[:], b)
	return h, nil
}
