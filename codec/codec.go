// Package codec provides the lossless compressors used to store snapshot
// pixel buffers.
//
// Every codec is deterministic and satisfies Decode(Encode(b)) == b for all
// inputs, including the empty buffer. The choice of codec is a space/CPU
// trade-off only; snapshots record which codec produced their bytes.
package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownCodec is returned by Lookup for an unregistered codec name.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec compresses and decompresses raw byte buffers.
//
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the registry name of the codec.
	Name() string

	// Encode appends the compressed form of src to dst[:0] and returns it.
	Encode(dst, src []byte) ([]byte, error)

	// Decode appends the decompressed form of src to dst[:0] and returns it.
	Decode(dst, src []byte) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{}
)

// Register makes a codec available by name. Registering a name twice
// replaces the previous codec.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name()] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names returns the registered codec names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Default is the codec used when none is configured.
var Default Codec = Snappy

func init() {
	for _, c := range []Codec{Snappy, S2, Zstd, Flate, None} {
		Register(c)
	}
}

// MustEncode compresses src with c and panics on failure.
//
// Snapshot buffers are always produced by this program, so a codec error
// means a broken invariant rather than bad input.
func MustEncode(c Codec, src []byte) []byte {
	out, err := c.Encode(nil, src)
	if err != nil {
		panic(fmt.Sprintf("codec: %s: compressing %d bytes: %v", c.Name(), len(src), err))
	}
	return out
}

// MustDecode decompresses src with c and panics on failure.
func MustDecode(c Codec, src []byte) []byte {
	out, err := c.Decode(nil, src)
	if err != nil {
		panic(fmt.Sprintf("codec: %s: decompressing %d bytes: %v", c.Name(), len(src), err))
	}
	return out
}
