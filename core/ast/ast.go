package ast

import (
	"fmt"

	"github.com/aledsdavies/pipeparse/core/invariant"
	"github.com/aledsdavies/pipeparse/core/text"
)

// Diagnostics carried by ErrorNode. They are static; nodes reference them
// and never own them.
const (
	MsgEndOfStream  = "end of text stream"
	MsgExpectedWord = "expected a word token"
)

// Kind tags the three node variants.
type Kind int

const (
	KindError Kind = iota
	KindCommand
	KindPipe
)

var kindNames = [...]string{
	KindError:   "error",
	KindCommand: "command",
	KindPipe:    "pipe",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position represents source location information
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node represents any node in the pipeline AST
type Node interface {
	Kind() Kind
	Position() Position
	String() string
}

// ErrorNode replaces the whole result of a parse that could not begin.
type ErrorNode struct {
	Message string
	Pos     Position
}

func (e *ErrorNode) Kind() Kind         { return KindError }
func (e *ErrorNode) Position() Position { return e.Pos }
func (e *ErrorNode) String() string     { return "error: " + e.Message }

// CommandNode is one pipeline stage: an argv-style word list.
type CommandNode struct {
	Words *text.WordList
	Pos   Position
}

func (c *CommandNode) Kind() Kind         { return KindCommand }
func (c *CommandNode) Position() Position { return c.Pos }
func (c *CommandNode) String() string     { return c.Words.String() }

// Args returns the words as plain strings.
func (c *CommandNode) Args() []string {
	return c.Words.Strings()
}

// PipeNode connects two stages; Left runs before Right. Chains lean right,
// so a | b | c is Pipe(a, Pipe(b, c)).
type PipeNode struct {
	Left  Node
	Right Node
	Pos   Position
}

func (p *PipeNode) Kind() Kind         { return KindPipe }
func (p *PipeNode) Position() Position { return p.Pos }
func (p *PipeNode) String() string {
	return p.Left.String() + " | " + p.Right.String()
}

// NewError creates an error node referencing a static diagnostic.
func NewError(message string) *ErrorNode {
	return &ErrorNode{Message: message}
}

// NewCommand creates a command node that takes ownership of words.
func NewCommand(words *text.WordList) *CommandNode {
	invariant.NotNil(words, "words")
	return &CommandNode{Words: words}
}

// NewPipe creates a pipe node that takes ownership of both stages.
func NewPipe(left, right Node) *PipeNode {
	invariant.NotNil(left, "left")
	invariant.NotNil(right, "right")
	return &PipeNode{Left: left, Right: right, Pos: left.Position()}
}

// Release frees everything n owns: a command's words, or both stages of a
// pipe (left first). Error messages are not owned. It always returns nil so
// callers can write n = ast.Release(n).
func Release(n Node) Node {
	switch n := n.(type) {
	case nil:
	case *ErrorNode:
	case *CommandNode:
		n.Words.Release()
	case *PipeNode:
		n.Left = Release(n.Left)
		n.Right = Release(n.Right)
	default:
		invariant.Invariant(false, "unknown node type %T", n)
	}
	return nil
}
