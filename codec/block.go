package codec

import (
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
)

// Snappy is the snappy block format. It is the default codec: fast, with a
// good ratio on the large flat runs typical of pixel art.
var Snappy Codec = snappyCodec{}

// S2 is the S2 block format, a snappy extension with better ratios.
var S2 Codec = s2Codec{}

// None stores buffers uncompressed.
var None Codec = noneCodec{}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Encode(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst[:0], src), nil
}

func (snappyCodec) Decode(dst, src []byte) ([]byte, error) {
	return snappy.Decode(dst[:0], src)
}

type s2Codec struct{}

func (s2Codec) Name() string { return "s2" }

func (s2Codec) Encode(dst, src []byte) ([]byte, error) {
	return s2.EncodeBetter(dst[:0], src), nil
}

func (s2Codec) Decode(dst, src []byte) ([]byte, error) {
	return s2.Decode(dst[:0], src)
}

type noneCodec struct{}

func (noneCodec) Name() string { return "none" }

func (noneCodec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

func (noneCodec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
