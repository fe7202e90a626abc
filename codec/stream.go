package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Zstd is Zstandard at the default level. Slower than snappy but
// considerably smaller for long histories.
var Zstd Codec = &zstdCodec{}

// Flate is raw DEFLATE at the best-speed level.
var Flate Codec = flateCodec{level: flate.BestSpeed}

type zstdCodec struct {
	once sync.Once
	enc  *zstd.Encoder
	dec  *zstd.Decoder
	err  error
}

func (z *zstdCodec) init() error {
	z.once.Do(func() {
		z.enc, z.err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if z.err != nil {
			return
		}
		z.dec, z.err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return z.err
}

func (z *zstdCodec) Name() string { return "zstd" }

func (z *zstdCodec) Encode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("codec: zstd: %w", err)
	}
	return z.enc.EncodeAll(src, dst[:0]), nil
}

func (z *zstdCodec) Decode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	if err := z.init(); err != nil {
		return nil, fmt.Errorf("codec: zstd: %w", err)
	}
	return z.dec.DecodeAll(src, dst[:0])
}

type flateCodec struct {
	level int
}

func (flateCodec) Name() string { return "flate" }

func (f flateCodec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w, err := flate.NewWriter(buf, f.level)
	if err != nil {
		return nil, fmt.Errorf("codec: flate: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("codec: flate: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: flate: close: %w", err)
	}
	return buf.Bytes(), nil
}

func (flateCodec) Decode(dst, src []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer func() { _ = r.Close() }()

	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("codec: flate: read: %w", err)
	}
	return buf.Bytes(), nil
}
