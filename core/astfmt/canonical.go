// Package astfmt serializes pipeline ASTs.
//
// Every encoding goes through Document, a plain-data mirror of the tree. The
// CBOR form is canonical (sorted keys, shortest integers) and leaves out
// source positions, so two inputs that differ only in layout share a digest.
// JSON and YAML exports keep positions for tooling.
package astfmt

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/pipeparse/core/ast"
	"github.com/aledsdavies/pipeparse/core/text"
)

// Version is the document format version.
const Version uint8 = 1

// Document is the serializable form of a parse result.
type Document struct {
	Version uint8 `json:"version" yaml:"version" cbor:"version"`
	Root    *Node `json:"root" yaml:"root" cbor:"root"`
}

// Node mirrors one AST node. Type is "error", "command" or "pipe".
type Node struct {
	Type    string    `json:"type" yaml:"type" cbor:"type"`
	Words   []string  `json:"words,omitempty" yaml:"words,omitempty" cbor:"words,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty" cbor:"message,omitempty"`
	Left    *Node     `json:"left,omitempty" yaml:"left,omitempty" cbor:"left,omitempty"`
	Right   *Node     `json:"right,omitempty" yaml:"right,omitempty" cbor:"right,omitempty"`
	Pos     *Position `json:"pos,omitempty" yaml:"pos,omitempty" cbor:"-"`
}

// Position is the serialized source location.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// Canonicalize converts an AST into its serializable form.
func Canonicalize(root ast.Node) (*Document, error) {
	node, err := toNode(root)
	if err != nil {
		return nil, err
	}
	return &Document{Version: Version, Root: node}, nil
}

func toNode(n ast.Node) (*Node, error) {
	switch n := n.(type) {
	case *ast.ErrorNode:
		return &Node{Type: ast.KindError.String(), Message: n.Message, Pos: toPosition(n.Pos)}, nil
	case *ast.CommandNode:
		return &Node{Type: ast.KindCommand.String(), Words: n.Args(), Pos: toPosition(n.Pos)}, nil
	case *ast.PipeNode:
		left, err := toNode(n.Left)
		if err != nil {
			return nil, fmt.Errorf("pipe left: %w", err)
		}
		right, err := toNode(n.Right)
		if err != nil {
			return nil, fmt.Errorf("pipe right: %w", err)
		}
		return &Node{Type: ast.KindPipe.String(), Left: left, Right: right, Pos: toPosition(n.Pos)}, nil
	default:
		return nil, fmt.Errorf("unknown node type: %T", n)
	}
}

func toPosition(p ast.Position) *Position {
	return &Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// ToAST rebuilds an AST from the document. The caller owns the result and
// releases it with ast.Release.
func (d *Document) ToAST() (ast.Node, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("unsupported document version %d (want %d)", d.Version, Version)
	}
	return fromNode(d.Root)
}

func fromNode(n *Node) (ast.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("missing node")
	}

	var pos ast.Position
	if n.Pos != nil {
		pos = ast.Position{Line: n.Pos.Line, Column: n.Pos.Column, Offset: n.Pos.Offset}
	}

	switch n.Type {
	case ast.KindError.String():
		node := ast.NewError(n.Message)
		node.Pos = pos
		return node, nil
	case ast.KindCommand.String():
		node := ast.NewCommand(text.WordsFrom(n.Words...))
		node.Pos = pos
		return node, nil
	case ast.KindPipe.String():
		left, err := fromNode(n.Left)
		if err != nil {
			return nil, fmt.Errorf("pipe left: %w", err)
		}
		right, err := fromNode(n.Right)
		if err != nil {
			ast.Release(left)
			return nil, fmt.Errorf("pipe right: %w", err)
		}
		return ast.NewPipe(left, right), nil
	default:
		return nil, fmt.Errorf("unknown node type %q", n.Type)
	}
}

// MarshalBinary produces deterministic CBOR encoding of the document.
// This ensures byte-for-byte stability across multiple runs.
func (d *Document) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias avoids recursing into MarshalBinary
	type documentAlias Document
	data, err := encMode.Marshal((*documentAlias)(d))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes CBOR produced by MarshalBinary.
func (d *Document) UnmarshalBinary(data []byte) error {
	type documentAlias Document
	if err := cbor.Unmarshal(data, (*documentAlias)(d)); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}
	return nil
}

// MarshalBinary canonicalizes root and encodes it as CBOR.
func MarshalBinary(root ast.Node) ([]byte, error) {
	doc, err := Canonicalize(root)
	if err != nil {
		return nil, err
	}
	return doc.MarshalBinary()
}
