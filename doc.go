// Package pixhist is the snapshot history and replay-verification core of a
// pixel-art editor.
//
// # Overview
//
// Every editable canvas ("view") owns a history of compressed snapshots of
// its full pixel buffer. The history supports undo and redo, keeps a live
// decompressed copy of the current snapshot for rendering, and discards the
// redo tail when a new edit is pushed after an undo.
//
// On top of the view store sits a replay verifier: rendered frames are hashed
// and either recorded into an expected-hash queue, or checked against a queue
// recorded by a previous run, so that an automated session can be replayed and
// compared bit-for-bit.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/pixhist"
//		"github.com/gogpu/pixhist/history"
//		"github.com/gogpu/pixhist/resources"
//	)
//
//	ids := pixhist.NewIDAllocator()
//	rm := resources.NewManager()
//
//	id := ids.Next()
//	rm.AddBlankView(id, 32, 32)
//
//	rm.Write(func(t *resources.Table) {
//		t.Push(id, edited, history.NewExtent(32, 32, 1))
//		t.Undo(id)
//	})
//
// # Architecture
//
// The module is organized into:
//   - codec: lossless compression of raw pixel buffers
//   - history: snapshots, extents and the per-view undo/redo history
//   - replay: frame hashes, digest files and the record/verify protocol
//   - resources: the lock-guarded view table, image load and export
//   - cache: sharded LRU of decompressed snapshot pixels
//   - config, metrics: session settings and Prometheus collectors
//
// # Pixel Format
//
// Pixels are stored in memory as 4-byte BGRA samples. Conversion to and from
// the RGBA order used by image files happens on load and export only.
package pixhist

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
