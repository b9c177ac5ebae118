package lang

// ExprVisitor inspects an Expr tree one node at a time. Each method can
// return an error to halt the walk early; Walk returns that error to its
// caller. If a method returns nil the walk continues to the next node.
type ExprVisitor interface {
	VisitBoolLiteral(n *BoolLiteral) error
	VisitStringLiteral(n *StringLiteral) error
	VisitIdent(n *Ident) error
	VisitFuncCall(n *FuncCall) error
	VisitBinaryOp(n *BinaryOp) error
	VisitNot(n *Not) error
	VisitAnd(n *And) error
	VisitOr(n *Or) error
}

// BaseVisitor satisfies ExprVisitor with no-op methods. Embed it to
// implement only the visit methods a caller cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitBoolLiteral(*BoolLiteral) error     { return nil }
func (BaseVisitor) VisitStringLiteral(*StringLiteral) error { return nil }
func (BaseVisitor) VisitIdent(*Ident) error                 { return nil }
func (BaseVisitor) VisitFuncCall(*FuncCall) error           { return nil }
func (BaseVisitor) VisitBinaryOp(*BinaryOp) error           { return nil }
func (BaseVisitor) VisitNot(*Not) error                     { return nil }
func (BaseVisitor) VisitAnd(*And) error                     { return nil }
func (BaseVisitor) VisitOr(*Or) error                       { return nil }

// nodeCounter is an ExprVisitor that counts every node it visits. Used by
// Program.NodeCount to report compiled expression size without threading a
// counter through the evaluator.
type nodeCounter struct {
	BaseVisitor
	count int
}

func (c *nodeCounter) VisitBoolLiteral(n *BoolLiteral) error     { c.count++; return nil }
func (c *nodeCounter) VisitStringLiteral(n *StringLiteral) error { c.count++; return nil }
func (c *nodeCounter) VisitIdent(n *Ident) error                 { c.count++; return nil }
func (c *nodeCounter) VisitFuncCall(n *FuncCall) error           { c.count++; return nil }
func (c *nodeCounter) VisitBinaryOp(n *BinaryOp) error           { c.count++; return nil }
func (c *nodeCounter) VisitNot(n *Not) error                     { c.count++; return nil }
func (c *nodeCounter) VisitAnd(n *And) error                     { c.count++; return nil }
func (c *nodeCounter) VisitOr(n *Or) error                       { c.count++; return nil }

// Walk visits every node of e, post-order (children before parent), and
// finally e itself.
func Walk(e Expr, v ExprVisitor) error {
	switch n := e.(type) {
	case *BoolLiteral:
		return v.VisitBoolLiteral(n)
	case *StringLiteral:
		return v.VisitStringLiteral(n)
	case *Ident:
		return v.VisitIdent(n)
	case *FuncCall:
		for _, arg := range n.Args {
			if err := Walk(arg, v); err != nil {
				return err
			}
		}
		return v.VisitFuncCall(n)
	case *BinaryOp:
		if err := Walk(n.Left, v); err != nil {
			return err
		}
		if err := Walk(n.Right, v); err != nil {
			return err
		}
		return v.VisitBinaryOp(n)
	case *Not:
		if err := Walk(n.Child, v); err != nil {
			return err
		}
		return v.VisitNot(n)
	case *And:
		if err := Walk(n.Left, v); err != nil {
			return err
		}
		if err := Walk(n.Right, v); err != nil {
			return err
		}
		return v.VisitAnd(n)
	case *Or:
		if err := Walk(n.Left, v); err != nil {
			return err
		}
		if err := Walk(n.Right, v); err != nil {
			return err
		}
		return v.VisitOr(n)
	default:
		panic("lang: Walk: unhandled AST node type")
	}
}
