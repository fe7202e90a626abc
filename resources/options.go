package resources

import (
	"github.com/gogpu/pixhist/cache"
	"github.com/gogpu/pixhist/codec"
	"github.com/gogpu/pixhist/metrics"
	"github.com/gogpu/pixhist/replay"
)

// Option configures a Table or Manager during creation.
//
// Example:
//
//	rm := resources.NewManager(
//		resources.WithCodec(codec.Zstd),
//		resources.WithCache(cache.NewPixels(8)),
//	)
type Option func(*options)

type options struct {
	codec    codec.Codec
	pixels   *cache.Pixels
	metrics  *metrics.Collectors
	mode     replay.Mode
	expected []replay.Hash
}

func defaultOptions() options {
	return options{
		codec: codec.Default,
		mode:  replay.ModeOff,
	}
}

// WithCodec sets the codec used to compress snapshots.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCache enables caching of decompressed snapshots across undo/redo.
func WithCache(p *cache.Pixels) Option {
	return func(o *options) {
		o.pixels = p
	}
}

// WithMetrics records table activity in m.
func WithMetrics(m *metrics.Collectors) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithReplay sets the initial replay mode and expected-hash queue.
func WithReplay(mode replay.Mode, expected []replay.Hash) Option {
	return func(o *options) {
		o.mode = mode
		o.expected = expected
	}
}
