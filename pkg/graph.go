package claro

import (
	"fmt"
	"strings"
)

// Graph is a directed-tree rendering of an AST: one node per syntax
// node, labelled by its tag, one edge per parent-child relationship.
// It serialises to JSON as-is and renders to Graphviz DOT via DOT().
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type GraphNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// NewGraph builds the graph for a program. Statement lists belonging to
// the program root or a control statement are inlined under it; an else
// branch gets a synthetic "Statements" grouping node so the two arms
// stay distinguishable.
func NewGraph(ast *AST) *Graph {
	g := &Graph{}

	root := g.add("Program")
	for _, stmt := range ast.Statements {
		g.visit(stmt, root)
	}

	return g
}

func (g *Graph) add(label string) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, GraphNode{
		ID:    id,
		Label: label,
	})

	return id
}

func (g *Graph) link(parent, child int) {
	g.Edges = append(g.Edges, GraphEdge{
		From: parent,
		To:   child,
	})
}

func (g *Graph) visit(expr Expr, parent int) {
	switch e := expr.(type) {
	case *NumberLit:
		g.leaf(parent, fmt.Sprintf("number(%s)", Number{V: e.Value}))
	case *Ident:
		g.leaf(parent, fmt.Sprintf("id(%s)", e.Name))
	case *BinaryExpr:
		id := g.add(string(e.Operation))
		g.link(parent, id)
		g.visit(e.Op1, id)
		g.visit(e.Op2, id)
	case *UnaryExpr:
		label := "uminus"
		if e.Operation == UnaryNot {
			label = "NOT"
		}

		id := g.add(label)
		g.link(parent, id)
		g.visit(e.Operand, id)
	case *AssignStmt:
		id := g.add(fmt.Sprintf("assign(%s)", e.Name))
		g.link(parent, id)
		g.visit(e.Value, id)
	case *IfStmt:
		label := "if"
		if e.Else != nil {
			label = "if_else"
		}

		id := g.add(label)
		g.link(parent, id)
		g.visit(e.Cond, id)

		if e.Else == nil {
			g.statements(e.Then, id, false)
			return
		}

		g.statements(e.Then, id, true)
		g.statements(e.Else, id, true)
	case *WhileStmt:
		id := g.add("while")
		g.link(parent, id)
		g.visit(e.Cond, id)
		g.statements(e.Body, id, false)
	case *ErrorExpr:
		id := g.add(fmt.Sprintf("error(%s)", e.Operation))
		g.link(parent, id)
		for _, op := range e.Operands {
			g.visit(op, id)
		}
	case *BadExpr:
		g.leaf(parent, "bad")
	}
}

// statements inlines a block under its parent, or wraps it in a
// synthetic grouping node when the context needs the block kept
// together.
func (g *Graph) statements(stmts []Expr, parent int, grouped bool) {
	target := parent
	if grouped {
		target = g.add("Statements")
		g.link(parent, target)
	}

	for _, stmt := range stmts {
		g.visit(stmt, target)
	}
}

func (g *Graph) leaf(parent int, label string) {
	id := g.add(label)
	g.link(parent, id)
}

// DOT renders the graph as a Graphviz digraph, top to bottom.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph AST {\n")
	b.WriteString("\trankdir=TB;\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "\tn%d [label=%q];\n", n.ID, n.Label)
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "\tn%d -> n%d;\n", e.From, e.To)
	}

	b.WriteString("}\n")
	return b.String()
}
