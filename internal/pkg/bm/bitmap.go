package bm

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

func New() *Bitmap {
	return &Bitmap{
		bm: roaring.New(),
	}
}

// Bitmap is thread-safe bitmap wrapper
type Bitmap struct {
	bm *roaring.Bitmap
	m  sync.RWMutex
}

func (b *Bitmap) Count() uint64 {
	b.m.RLock()
	v := b.bm.GetCardinality()
	b.m.RUnlock()
	return v
}

func (b *Bitmap) Set(i uint32) {
	b.m.Lock()
	b.bm.Add(i)
	b.m.Unlock()
}

func (b *Bitmap) Unset(i uint32) {
	b.m.Lock()
	b.bm.Remove(i)
	b.m.Unlock()
}

func (b *Bitmap) Get(i uint32) bool {
	b.m.RLock()
	v := b.bm.Contains(i)
	b.m.RUnlock()
	return v
}

// TryAdd atomically claims i, returning false if it was already present.
func (b *Bitmap) TryAdd(i uint32) bool {
	b.m.Lock()
	v := b.bm.CheckedAdd(i)
	b.m.Unlock()
	return v
}

func (b *Bitmap) ToArray() []uint32 {
	b.m.RLock()
	v := b.bm.ToArray()
	b.m.RUnlock()
	return v
}
