// Package text provides Text, a growable byte string built on buffer.Buffer
// that keeps a hidden zero terminator after its visible content, and
// WordList, an ordered owning list of Text values.
//
// The backing buffer always holds Len()+1 bytes and the byte at Len() is
// always 0. Every mutation entry point re-checks that relationship; no method
// can delete or overwrite the terminator.
package text

import (
	"strings"

	"github.com/aledsdavies/pipeparse/core/buffer"
	"github.com/aledsdavies/pipeparse/core/invariant"
)

// Terminator is the hidden byte stored after the visible content.
const Terminator byte = 0

// Text is a growable single-byte string with a hidden terminator.
type Text struct {
	buf *buffer.Buffer[byte]
}

// New creates an empty Text with room for capacity visible bytes.
func New(capacity int) *Text {
	invariant.NonNegative(capacity, "capacity")

	t := &Text{buf: buffer.New[byte](capacity + 1)}
	t.buf.Set(0, Terminator)
	t.check()
	return t
}

// From builds a Text from s one byte at a time, stopping at the first
// terminator byte in s.
func From(s string) *Text {
	t := New(0)
	for i := 0; i < len(s) && s[i] != Terminator; i++ {
		t.buf.Splice(i, 0, []byte{s[i]})
	}
	t.check()
	return t
}

// Len returns the visible length.
func (t *Text) Len() int {
	return t.buf.Len() - 1
}

// Raw returns the visible bytes followed by the terminator. The view aliases
// the store, is only valid until the next mutation and must not be written.
func (t *Text) Raw() []byte {
	return t.buf.Slice()
}

// String returns the visible content.
func (t *Text) String() string {
	return string(t.buf.Slice()[:t.Len()])
}

// Ref returns the address of the byte at index. index == Len() addresses the
// terminator.
func (t *Text) Ref(index int) *byte {
	return t.buf.Ref(index)
}

// Splice deletes deleteCount visible bytes at index and inserts the first
// insertCount bytes of source. The deletion may not reach the terminator and
// insertCount may not exceed the terminated length of source.
func (t *Text) Splice(index, deleteCount int, source string, insertCount int) {
	invariant.NonNegative(index, "index")
	invariant.NonNegative(deleteCount, "delete count")
	invariant.NonNegative(insertCount, "insert count")
	invariant.Precondition(index+deleteCount <= t.Len(),
		"splice range [%d, %d) reaches the terminator at %d", index, index+deleteCount, t.Len())

	available := terminatedLen(source)
	invariant.Precondition(insertCount <= available,
		"insert count %d exceeds source length %d", insertCount, available)

	t.buf.Splice(index, deleteCount, []byte(source[:insertCount]))
	t.check()
}

// Append adds source to the end one byte at a time until its terminator.
func (t *Text) Append(source string) {
	for i := 0; i < len(source) && source[i] != Terminator; i++ {
		t.buf.Splice(t.Len(), 0, []byte{source[i]})
	}
	t.check()
}

// AppendByte adds a single byte to the end.
func (t *Text) AppendByte(b byte) {
	t.Set(t.Len(), b)
}

// Get returns the visible byte at index. The terminator is not readable.
func (t *Text) Get(index int) byte {
	invariant.Index(index, t.Len(), "index")
	return t.buf.Get(index)
}

// Set overwrites the byte at index, or extends the Text by one when
// index == Len().
func (t *Text) Set(index int, value byte) {
	invariant.InRange(index, 0, t.Len(), "index")

	if index == t.Len() {
		t.buf.Splice(index, 0, []byte{value})
	} else {
		t.buf.Set(index, value)
	}
	t.check()
}

// Equals reports whether both Texts have the same visible content.
func (t *Text) Equals(other *Text) bool {
	return t.buf.Equals(other.buf)
}

// Release frees the underlying buffer. The Text must not be used afterwards.
func (t *Text) Release() {
	t.buf.Release()
}

// check enforces the hidden terminator layout.
func (t *Text) check() {
	invariant.Invariant(t.buf.Len() >= 1, "text lost its terminator slot")
	invariant.Invariant(*t.buf.Ref(t.buf.Len()-1) == Terminator,
		"byte at visible length %d is not the terminator", t.Len())
}

// terminatedLen returns the length of s up to its first terminator byte.
func terminatedLen(s string) int {
	if i := strings.IndexByte(s, Terminator); i >= 0 {
		return i
	}
	return len(s)
}
