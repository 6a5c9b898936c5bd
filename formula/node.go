package formula

import "fmt"

type Op int

const (
	OpAnd Op = iota
	OpOr
)

func (op Op) String() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}

// Node is an element of a parsed formula.
type Node interface {
	String() string
	eval(values map[string]bool) bool
}

type Operand struct {
	Name   string
	Offset int
}

func (n *Operand) String() string { return n.Name }

func (n *Operand) eval(values map[string]bool) bool { return values[n.Name] }

type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (n *Binary) String() string {
	return fmt.Sprintf("%s %s %s", n.Left, n.Op, n.Right)
}

func (n *Binary) eval(values map[string]bool) bool {
	if n.Op == OpAnd {
		return n.Left.eval(values) && n.Right.eval(values)
	}
	return n.Left.eval(values) || n.Right.eval(values)
}

// Group is a parenthesised sub-formula.
type Group struct {
	Inner  Node
	Offset int
}

func (n *Group) String() string { return "(" + n.Inner.String() + ")" }

func (n *Group) eval(values map[string]bool) bool { return n.Inner.eval(values) }

// Walk calls fn for n and every node below it, depth first.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n := n.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Group:
		Walk(n.Inner, fn)
	}
}
