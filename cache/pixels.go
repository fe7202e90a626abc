package cache

import (
	"github.com/gogpu/pixhist"
	"github.com/gogpu/pixhist/history"
)

// Key identifies one snapshot of one view.
type Key struct {
	View     pixhist.ViewID
	Snapshot history.SnapshotID
}

// KeyHasher mixes both halves of a key so that consecutive snapshots of
// one view spread across shards.
func KeyHasher(k Key) uint64 {
	h := uint64(k.View)<<48 ^ uint64(k.Snapshot)
	// splitmix64 finalizer
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// Pixels caches decompressed snapshot buffers for every open view.
type Pixels struct {
	*ShardedCache[Key, []byte]
}

// NewPixels creates a pixel cache with capacity entries per shard.
func NewPixels(capacity int) *Pixels {
	return &Pixels{NewSharded[Key, []byte](capacity, KeyHasher)}
}

// ForView returns the history.Cache of one view.
func (p *Pixels) ForView(id pixhist.ViewID) history.Cache {
	return viewCache{p: p, view: id}
}

// DropView removes every cached snapshot of view id.
func (p *Pixels) DropView(id pixhist.ViewID) int {
	return p.DeleteFunc(func(k Key) bool { return k.View == id })
}

type viewCache struct {
	p    *Pixels
	view pixhist.ViewID
}

func (v viewCache) Load(id history.SnapshotID) ([]byte, bool) {
	return v.p.Get(Key{View: v.view, Snapshot: id})
}

func (v viewCache) Store(id history.SnapshotID, pixels []byte) {
	v.p.Set(Key{View: v.view, Snapshot: id}, pixels)
}

func (v viewCache) Evict(id history.SnapshotID) {
	v.p.Delete(Key{View: v.view, Snapshot: id})
}
