// Package depset implements sets of interned indices on top of roaring
// bitmaps. The engine unions such sets constantly over a stable, dense
// index space, which is the workload roaring is built for; correctness
// only needs an ordered set.
package depset

import "github.com/RoaringBitmap/roaring/v2"

// Index constrains the element type to the interned index types.
type Index interface {
	~uint32
}

// Set is a mutable set of indices. The zero value is not usable; create
// sets with New or Singleton.
type Set[T Index] struct {
	bm *roaring.Bitmap
}

func New[T Index]() Set[T] {
	return Set[T]{bm: roaring.New()}
}

func Singleton[T Index](i T) Set[T] {
	s := New[T]()
	s.Add(i)
	return s
}

func (s Set[T]) Add(i T) {
	s.bm.Add(uint32(i))
}

func (s Set[T]) Remove(i T) {
	s.bm.Remove(uint32(i))
}

func (s Set[T]) Contains(i T) bool {
	return s.bm.Contains(uint32(i))
}

// UnionWith adds every element of other to s.
func (s Set[T]) UnionWith(other Set[T]) {
	s.bm.Or(other.bm)
}

// DifferenceWith removes every element of other from s.
func (s Set[T]) DifferenceWith(other Set[T]) {
	s.bm.AndNot(other.bm)
}

func (s Set[T]) Len() int {
	return int(s.bm.GetCardinality())
}

func (s Set[T]) IsEmpty() bool {
	return s.bm.IsEmpty()
}

func (s Set[T]) Clone() Set[T] {
	return Set[T]{bm: s.bm.Clone()}
}

func (s Set[T]) Equal(other Set[T]) bool {
	return s.bm.Equals(other.bm)
}

// ForEach calls f for every element in ascending order.
func (s Set[T]) ForEach(f func(T)) {
	it := s.bm.Iterator()
	for it.HasNext() {
		f(T(it.Next()))
	}
}

// Slice returns the elements in ascending order.
func (s Set[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	s.ForEach(func(i T) { out = append(out, i) })
	return out
}
