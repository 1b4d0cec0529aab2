package formatter

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/pipeparse/core/ast"
)

// FormatInline renders the AST on a single line. Without color the result
// equals root.String().
func FormatInline(root ast.Node, useColor bool) string {
	if root == nil {
		return ""
	}

	var b strings.Builder
	writeInline(&b, root, useColor)
	return b.String()
}

func writeInline(b *strings.Builder, n ast.Node, useColor bool) {
	switch n := n.(type) {
	case *ast.PipeNode:
		writeInline(b, n.Left, useColor)
		b.WriteString(" " + Colorize("|", ColorGray, useColor) + " ")
		writeInline(b, n.Right, useColor)
	case *ast.CommandNode:
		if useColor && n.Words.Len() > 0 {
			b.WriteString(renderCommand(n, useColor))
		} else {
			b.WriteString(n.String())
		}
	case *ast.ErrorNode:
		b.WriteString(Colorize(n.String(), ColorRed, useColor))
	default:
		fmt.Fprintf(b, "(unknown node type: %T)", n)
	}
}

// FormatStages lists the commands of a pipeline in execution order.
//
// Format:
//
//	stage 1: <command>
//	stage 2: <command>
//	error: <message>    (when the parse failed)
func FormatStages(root ast.Node) string {
	var b strings.Builder
	for i, stage := range ast.Stages(root) {
		fmt.Fprintf(&b, "stage %d: %s\n", i+1, stage.String())
	}
	if e := ast.FirstError(root); e != nil {
		fmt.Fprintf(&b, "%s at %s\n", e.String(), e.Pos.String())
	}
	return b.String()
}
