package lexer

import (
	"fmt"

	"github.com/aledsdavies/pipeparse/core/text"
)

// Kind represents the lexical token kinds
type Kind int

const (
	END  Kind = iota // end of input
	WORD             // maximal run of non-separator bytes
	PIPE             // |
)

var kindNames = [...]string{
	END:  "END",
	WORD: "WORD",
	PIPE: "PIPE",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position represents a position in the source
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token. The lexeme is owned by whoever holds the token:
// the tokenizer while it is buffered, the caller once Next returns it.
type Token struct {
	Kind     Kind
	Lexeme   *text.Text
	Position Position
}

// String returns the lexeme content (for testing and debugging)
func (t Token) String() string {
	if t.Lexeme == nil {
		return ""
	}
	return t.Lexeme.String()
}

// Release frees the lexeme.
func (t Token) Release() {
	if t.Lexeme != nil {
		t.Lexeme.Release()
	}
}
