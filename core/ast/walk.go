package ast

// Walk visits n and its descendants in pre-order, left stage before right.
// Returning false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if p, ok := n.(*PipeNode); ok {
		Walk(p.Left, fn)
		Walk(p.Right, fn)
	}
}

// Stages flattens a pipeline into its commands in execution order.
// Error nodes are skipped; use FirstError to find them.
func Stages(n Node) []*CommandNode {
	var out []*CommandNode
	Walk(n, func(n Node) bool {
		if c, ok := n.(*CommandNode); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FirstError returns the first error node in execution order, or nil.
func FirstError(n Node) *ErrorNode {
	var found *ErrorNode
	Walk(n, func(n Node) bool {
		if found != nil {
			return false
		}
		if e, ok := n.(*ErrorNode); ok {
			found = e
		}
		return true
	})
	return found
}

// Depth returns the number of stages along the right spine, so a single
// command has depth 1 and a | b | c has depth 3.
func Depth(n Node) int {
	depth := 0
	for n != nil {
		depth++
		p, ok := n.(*PipeNode)
		if !ok {
			break
		}
		n = p.Right
	}
	return depth
}
