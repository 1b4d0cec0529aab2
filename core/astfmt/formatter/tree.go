// Package formatter renders pipeline ASTs for humans.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/pipeparse/core/ast"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// FormatTree renders the AST as a tree, one node per line:
//
//	pipe (1:1)
//	├─ ls -la (1:1)
//	└─ wc (1:10)
func FormatTree(w io.Writer, root ast.Node, useColor bool) {
	if root == nil {
		_, _ = fmt.Fprintf(w, "(no pipeline)\n")
		return
	}

	_, _ = fmt.Fprintf(w, "%s\n", renderLabel(root, useColor))
	renderChildren(w, root, "", useColor)
}

// renderChildren renders the stages below a pipe with tree characters
func renderChildren(w io.Writer, n ast.Node, indent string, useColor bool) {
	pipe, ok := n.(*ast.PipeNode)
	if !ok {
		return
	}

	children := []ast.Node{pipe.Left, pipe.Right}
	for i, child := range children {
		isLast := i == len(children)-1

		var prefix, next string
		if isLast {
			prefix = indent + "└─ "
			next = indent + "   "
		} else {
			prefix = indent + "├─ "
			next = indent + "│  "
		}

		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize(prefix, ColorGray, useColor), renderLabel(child, useColor))
		renderChildren(w, child, next, useColor)
	}
}

// renderLabel renders one node without its children
func renderLabel(n ast.Node, useColor bool) string {
	pos := Colorize("("+n.Position().String()+")", ColorGray, useColor)

	switch n := n.(type) {
	case *ast.PipeNode:
		return Colorize("pipe", ColorYellow, useColor) + " " + pos
	case *ast.CommandNode:
		return renderCommand(n, useColor) + " " + pos
	case *ast.ErrorNode:
		return Colorize("error: "+n.Message, ColorRed, useColor) + " " + pos
	default:
		return fmt.Sprintf("(unknown node type: %T)", n)
	}
}

// renderCommand renders the program name highlighted, then its arguments
func renderCommand(cmd *ast.CommandNode, useColor bool) string {
	args := cmd.Args()
	if len(args) == 0 {
		return Colorize("(empty command)", ColorGray, useColor)
	}

	name := Colorize(args[0], ColorBlue, useColor)
	if len(args) == 1 {
		return name
	}
	return name + " " + strings.Join(args[1:], " ")
}
