package ast

import "testing"

func TestSpanMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{
			name: "same line",
			a:    Span{1, 2, 1, 5},
			b:    Span{1, 8, 1, 12},
			want: Span{1, 2, 1, 12},
		},
		{
			name: "across lines",
			a:    Span{2, 4, 2, 9},
			b:    Span{4, 0, 5, 3},
			want: Span{2, 4, 5, 3},
		},
		{
			name: "contained",
			a:    Span{1, 0, 6, 1},
			b:    Span{3, 2, 3, 8},
			want: Span{1, 0, 6, 1},
		},
		{
			name: "same start line smaller col wins",
			a:    Span{2, 7, 2, 9},
			b:    Span{2, 1, 2, 3},
			want: Span{2, 1, 2, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Merge(tt.b)
			if got != tt.want {
				t.Errorf("Merge = %+v, want %+v", got, tt.want)
			}
			if rev := tt.b.Merge(tt.a); rev != got {
				t.Errorf("Merge not symmetric: %+v vs %+v", rev, got)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{1, 0, 5, 10}

	if !outer.Contains(Span{2, 0, 3, 4}) {
		t.Error("inner span not contained")
	}
	if !outer.Contains(outer) {
		t.Error("span does not contain itself")
	}
	if outer.Contains(Span{1, 0, 5, 11}) {
		t.Error("contains span ending past the outer end")
	}
	if outer.Contains(Span{0, 9, 2, 0}) {
		t.Error("contains span starting before the outer start")
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{3, 2, 3, 9}).String(); got != "3:2-9" {
		t.Errorf("single-line String = %q", got)
	}
	if got := (Span{3, 2, 5, 1}).String(); got != "3:2-5:1" {
		t.Errorf("multi-line String = %q", got)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 8 {
			t.Fatalf("id %q has length %d, want 8", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestInspectAndFindByID(t *testing.T) {
	lit := &Literal{NodeMeta: NewMeta(Span{1, 10, 1, 13}), Value: 100, LiteralType: LitInt}
	call := &CallExpr{NodeMeta: NewMeta(Span{1, 2, 1, 14}), Callee: "click", Args: []Node{lit}}
	body := &BlockStmt{NodeMeta: NewMeta(Span{1, 0, 3, 1}), Statements: []Node{
		&ExprStmt{NodeMeta: NewMeta(Span{1, 2, 1, 15}), Expr: call},
	}}
	flow := &FlowDecl{NodeMeta: NewMeta(Span{1, 0, 3, 1}), Name: "main", Body: body}
	program := &Program{NodeMeta: NewMeta(Span{1, 0, 3, 1}), Flows: []*FlowDecl{flow}}

	var callees []string
	Inspect(program, func(n Node) bool {
		if c, ok := n.(*CallExpr); ok {
			callees = append(callees, c.Callee)
		}
		return true
	})
	if len(callees) != 1 || callees[0] != "click" {
		t.Errorf("callees = %v", callees)
	}

	found := FindByID(program, lit.ID)
	if found != Node(lit) {
		t.Errorf("FindByID returned %v", found)
	}
	if FindByID(program, "zzzzzzzz") != nil {
		t.Error("FindByID returned a node for an unknown id")
	}
}

func TestInspectPrune(t *testing.T) {
	call := &CallExpr{NodeMeta: NewMeta(Span{}), Callee: "click"}
	body := &BlockStmt{NodeMeta: NewMeta(Span{}), Statements: []Node{
		&ExprStmt{NodeMeta: NewMeta(Span{}), Expr: call},
	}}
	flow := &FlowDecl{NodeMeta: NewMeta(Span{}), Name: "main", Body: body}

	visited := 0
	Inspect(flow, func(n Node) bool {
		visited++
		_, isBlock := n.(*BlockStmt)
		return !isBlock
	})
	if visited != 2 {
		t.Errorf("visited %d nodes, want 2 (flow and pruned block)", visited)
	}
}

func TestProgramMainFlow(t *testing.T) {
	a := &FlowDecl{NodeMeta: NewMeta(Span{}), Name: "setup"}
	b := &FlowDecl{NodeMeta: NewMeta(Span{}), Name: "main"}

	p := &Program{NodeMeta: NewMeta(Span{}), Flows: []*FlowDecl{a, b}}
	if got := p.MainFlow(); got != b {
		t.Errorf("MainFlow = %v, want the flow named main", got)
	}

	p = &Program{NodeMeta: NewMeta(Span{}), Flows: []*FlowDecl{a}}
	if got := p.MainFlow(); got != a {
		t.Errorf("MainFlow = %v, want first flow fallback", got)
	}

	p = &Program{NodeMeta: NewMeta(Span{})}
	if p.MainFlow() != nil {
		t.Error("MainFlow on empty program should be nil")
	}
}
