// Package history stores a view's pixel buffer as a sequence of compressed
// snapshots with an undo/redo cursor.
//
// A History always holds at least one snapshot. Pushing after an undo
// truncates the redo tail: branching history is not supported. Alongside the
// compressed sequence, a History keeps a decompressed copy of the snapshot at
// the cursor ("live pixels") so the renderer never pays for decompression.
// The two representations are synchronized only at Push, Undo, Redo and
// Revert.
//
// A History is not safe for concurrent use; resources.Manager provides the
// locking.
package history
