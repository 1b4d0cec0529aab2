package text

import (
	"strings"

	"github.com/aledsdavies/pipeparse/core/buffer"
	"github.com/aledsdavies/pipeparse/core/invariant"
)

// WordList is an ordered list of Text values, such as a command's argument
// words. It owns every Text pushed onto it.
type WordList struct {
	words *buffer.Buffer[*Text]
}

// NewWordList creates an empty list with room for capacity words.
func NewWordList(capacity int) *WordList {
	return &WordList{words: buffer.New[*Text](capacity)}
}

// WordsFrom builds a list from plain strings.
func WordsFrom(words ...string) *WordList {
	wl := NewWordList(len(words))
	for _, w := range words {
		wl.Push(From(w))
	}
	return wl
}

// Push appends word and takes ownership of it.
func (wl *WordList) Push(word *Text) {
	invariant.NotNil(word, "word")
	wl.words.Set(wl.words.Len(), word)
}

// Len returns the number of words.
func (wl *WordList) Len() int {
	return wl.words.Len()
}

// At returns the word at index. The list keeps ownership.
func (wl *WordList) At(index int) *Text {
	return wl.words.Get(index)
}

// Strings returns the visible content of every word in order.
func (wl *WordList) Strings() []string {
	out := make([]string, wl.Len())
	for i, w := range wl.words.Slice() {
		out[i] = w.String()
	}
	return out
}

// String joins the words with single spaces.
func (wl *WordList) String() string {
	return strings.Join(wl.Strings(), " ")
}

// Equals reports whether both lists hold equal words in the same order.
func (wl *WordList) Equals(other *WordList) bool {
	if wl.Len() != other.Len() {
		return false
	}
	for i := 0; i < wl.Len(); i++ {
		if !wl.At(i).Equals(other.At(i)) {
			return false
		}
	}
	return true
}

// Release releases every word and then the list itself.
func (wl *WordList) Release() {
	for _, w := range wl.words.Slice() {
		w.Release()
	}
	wl.words.Release()
}
