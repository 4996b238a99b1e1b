package ast

// Inspect traverses the tree rooted at node in depth-first order, calling
// fn for each node. If fn returns false, the children of that node are
// skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}

// Children returns the direct child nodes of node, in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}
	addBlock := func(b *BlockStmt) {
		if b != nil {
			out = append(out, b)
		}
	}

	switch n := node.(type) {
	case *Program:
		if n.Hotkeys != nil {
			out = append(out, n.Hotkeys)
		}
		for _, c := range n.Constants {
			out = append(out, c)
		}
		for _, f := range n.Flows {
			out = append(out, f)
		}
		for _, i := range n.Interrupts {
			out = append(out, i)
		}
	case *FlowDecl:
		addBlock(n.Body)
	case *InterruptDecl:
		addBlock(n.Body)
	case *BlockStmt:
		out = append(out, n.Statements...)
	case *ExprStmt:
		add(n.Expr)
	case *LetStmt:
		add(n.Initializer)
	case *ConstStmt:
		add(n.Initializer)
	case *AssignStmt:
		add(n.Target)
		add(n.Value)
	case *IfStmt:
		add(n.Condition)
		addBlock(n.ThenBranch)
		for _, b := range n.ElifBranches {
			add(b.Condition)
			addBlock(b.Body)
		}
		addBlock(n.ElseBranch)
	case *WhileStmt:
		add(n.Condition)
		addBlock(n.Body)
	case *ForStmt:
		add(n.Iterable)
		addBlock(n.Body)
	case *ReturnStmt:
		add(n.Value)
	case *TryStmt:
		addBlock(n.TryBlock)
		addBlock(n.CatchBlock)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *CallExpr:
		out = append(out, n.Args...)
		for _, v := range n.Kwargs {
			add(v)
		}
	case *ArrayExpr:
		out = append(out, n.Elements...)
	}
	return out
}

// FindByID returns the node with the given id, or nil.
func FindByID(root Node, id string) Node {
	var found Node
	Inspect(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Meta().ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
