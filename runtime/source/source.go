// Package source supplies the character sources the tokenizer reads from.
//
// The tokenizer only borrows a source: it never mutates it beyond consuming
// characters and never releases it.
package source

import (
	"fmt"
	"io"

	"github.com/aledsdavies/pipeparse/core/invariant"
)

// CharSource yields single-byte characters in order.
type CharSource interface {
	// HasNext reports whether another character is available.
	HasNext() bool
	// Peek returns the next character without consuming it.
	Peek() byte
	// Next consumes and returns the next character.
	Next() byte
}

// Bytes is an in-memory CharSource over a byte slice.
// It also tracks the line and column of the next character.
type Bytes struct {
	data   []byte
	pos    int
	line   int
	column int
}

// NewBytes creates a source over data. The slice is not copied.
func NewBytes(data []byte) *Bytes {
	return &Bytes{data: data, line: 1, column: 1}
}

// NewString creates a source over s.
func NewString(s string) *Bytes {
	return NewBytes([]byte(s))
}

// FromReader reads r to completion and returns a source over its content.
func FromReader(r io.Reader) (*Bytes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return NewBytes(data), nil
}

func (b *Bytes) HasNext() bool {
	return b.pos < len(b.data)
}

func (b *Bytes) Peek() byte {
	invariant.Precondition(b.HasNext(), "peek past end of source at offset %d", b.pos)
	return b.data[b.pos]
}

func (b *Bytes) Next() byte {
	ch := b.Peek()
	b.pos++
	if ch == '\n' {
		b.line++
		b.column = 1
	} else {
		b.column++
	}
	return ch
}

// Offset returns the 0-based byte offset of the next character.
func (b *Bytes) Offset() int { return b.pos }

// Line returns the 1-based line of the next character.
func (b *Bytes) Line() int { return b.line }

// Column returns the 1-based column of the next character.
func (b *Bytes) Column() int { return b.column }

// Positioner is implemented by sources that can report where the next
// character sits. The tokenizer uses it for token positions when available.
type Positioner interface {
	Offset() int
	Line() int
	Column() int
}
