// Package buffer implements a generic growable contiguous store.
//
// A Buffer has exactly one mutation primitive, Splice, which deletes a
// sub-range and inserts a sequence in one step. Insert, delete, replace,
// append and truncate are all spelled as splices; Set is the one convenience
// that overwrites in place or extends by exactly one element.
//
// Contract violations (out-of-range indices, negative counts) panic through
// package invariant. Buffers are not safe for concurrent use.
package buffer

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/aledsdavies/pipeparse/core/invariant"
)

// Buffer is a growable store of T with an explicit length and capacity.
// The store always holds exactly capacity slots and length <= capacity.
type Buffer[T comparable] struct {
	length   int
	capacity int
	store    []T
}

// New creates a Buffer with length 0 and capacity zeroed slots.
func New[T comparable](capacity int) *Buffer[T] {
	invariant.NonNegative(capacity, "capacity")

	return &Buffer[T]{
		capacity: capacity,
		store:    make([]T, capacity),
	}
}

// Len returns the number of live elements.
func (b *Buffer[T]) Len() int {
	return b.length
}

// Cap returns the number of allocated element slots.
func (b *Buffer[T]) Cap() int {
	return b.capacity
}

// ElemSize returns the size in bytes of one element.
func (b *Buffer[T]) ElemSize() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Ref returns the location of the element at index.
func (b *Buffer[T]) Ref(index int) *T {
	invariant.Index(index, b.length, "index")
	return &b.store[index]
}

// Get returns a copy of the element at index.
func (b *Buffer[T]) Get(index int) T {
	return *b.Ref(index)
}

// Set overwrites the element at index, or appends when index == Len().
// Any other index is a contract violation.
func (b *Buffer[T]) Set(index int, value T) {
	invariant.InRange(index, 0, b.length, "index")

	if index < b.length {
		b.Splice(index, 1, []T{value})
		return
	}
	b.Splice(index, 0, []T{value})
}

// Splice removes deleteCount elements starting at index and inserts items in
// their place. The resulting length is Len() - deleteCount + len(items).
func (b *Buffer[T]) Splice(index, deleteCount int, items []T) {
	invariant.NonNegative(index, "index")
	invariant.NonNegative(deleteCount, "delete count")
	invariant.Precondition(index+deleteCount <= b.length,
		"splice range [%d, %d) exceeds length %d", index, index+deleteCount, b.length)

	// Items taken from this buffer's own store would be overwritten by the
	// shift below before they are copied in.
	if overlaps(items, b.store) {
		items = slices.Clone(items)
	}

	insertCount := len(items)
	oldLength := b.length
	newLength := oldLength - deleteCount + insertCount

	if newLength > b.capacity {
		b.ensureCapacity(newLength)
	}

	// Move the trailing block to open or close the gap; copy handles overlap.
	blockStart := index + deleteCount
	if blockStart < oldLength && insertCount != deleteCount {
		copy(b.store[index+insertCount:newLength], b.store[blockStart:oldLength])
	}

	copy(b.store[index:index+insertCount], items)

	// Clear slots vacated by a shrink so released values are not retained.
	if newLength < oldLength {
		clear(b.store[newLength:oldLength])
	}

	b.length = newLength
	invariant.Postcondition(b.length <= b.capacity,
		"length %d exceeds capacity %d", b.length, b.capacity)
}

// overlaps reports whether a and b share any backing memory.
func overlaps[T any](a, b []T) bool {
	if len(a) == 0 || cap(b) == 0 {
		return false
	}
	size := unsafe.Sizeof(a[0])
	if size == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	aEnd := aStart + uintptr(len(a))*size
	bEnd := bStart + uintptr(cap(b))*size
	return aStart < bEnd && bStart < aEnd
}

// Slice returns the live elements. The slice aliases the store and is only
// valid until the next mutation; callers must not write through it.
func (b *Buffer[T]) Slice() []T {
	return b.store[:b.length:b.length]
}

// Equals reports whether both buffers hold the same elements in order.
func (b *Buffer[T]) Equals(other *Buffer[T]) bool {
	if b.length != other.length {
		return false
	}
	for i := 0; i < b.length; i++ {
		if b.store[i] != other.store[i] {
			return false
		}
	}
	return true
}

// Equal compares buffers of possibly different element types. Buffers whose
// element types differ are never equal, even when their bytes coincide.
func Equal[A, B comparable](a *Buffer[A], b *Buffer[B]) bool {
	if a.ElemSize() != b.ElemSize() {
		return false
	}
	if reflect.TypeOf((*A)(nil)).Elem() != reflect.TypeOf((*B)(nil)).Elem() {
		return false
	}
	return a.Equals(any(b).(*Buffer[A]))
}

// Release drops the store and resets length and capacity to zero.
// The Buffer must not be used afterwards.
func (b *Buffer[T]) Release() {
	b.store = nil
	b.length = 0
	b.capacity = 0
}

// ensureCapacity grows the store to twice the required length.
func (b *Buffer[T]) ensureCapacity(required int) {
	if required <= b.capacity {
		return
	}

	newCapacity := required * 2
	store := make([]T, newCapacity)
	copy(store, b.store[:b.length])

	b.store = store
	b.capacity = newCapacity
}
