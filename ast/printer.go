package ast

import (
	"fmt"
	"strings"
)

// Printer renders an AST as a parenthesized prefix dump, in the style
// sam-decook-lox's node String() methods use (e.g. "(+ 1 2)" for a
// binary expression, "(group ...)" for grouping). The output is not Lox
// source: the parser does not accept it back, and PrintStmt omits
// function bodies and class methods.
type Printer struct{}

func (p *Printer) PrintExpr(e Expr) string {
	s, _ := e.Accept(p)
	return s.(string)
}

func (p *Printer) PrintStmt(s Stmt) string {
	var sb strings.Builder
	p.printStmtTo(&sb, s, 0)
	return sb.String()
}

func (p *Printer) parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		sb.WriteString(p.PrintExpr(e))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (p *Printer) VisitLiteral(e *Literal) (any, error) {
	if e.Value == nil {
		return "nil", nil
	}
	return fmt.Sprintf("%v", e.Value), nil
}

func (p *Printer) VisitGrouping(e *Grouping) (any, error) {
	return p.parenthesize("group", e.Expression), nil
}

func (p *Printer) VisitUnary(e *Unary) (any, error) {
	return p.parenthesize(e.Op.Lexeme, e.Right), nil
}

func (p *Printer) VisitBinary(e *Binary) (any, error) {
	return p.parenthesize(e.Op.Lexeme, e.Left, e.Right), nil
}

func (p *Printer) VisitLogical(e *Logical) (any, error) {
	return p.parenthesize(e.Op.Lexeme, e.Left, e.Right), nil
}

func (p *Printer) VisitVariable(e *Variable) (any, error) {
	return e.Name.Lexeme, nil
}

func (p *Printer) VisitAssign(e *Assign) (any, error) {
	return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, p.PrintExpr(e.Value)), nil
}

func (p *Printer) VisitCall(e *Call) (any, error) {
	return p.parenthesize("call", append([]Expr{e.Callee}, e.Args...)...), nil
}

func (p *Printer) VisitGet(e *Get) (any, error) {
	return fmt.Sprintf("(get %s %s)", p.PrintExpr(e.Object), e.Name.Lexeme), nil
}

func (p *Printer) VisitSet(e *Set) (any, error) {
	return fmt.Sprintf("(set %s %s %s)", p.PrintExpr(e.Object), e.Name.Lexeme, p.PrintExpr(e.Value)), nil
}

func (p *Printer) VisitThis(e *This) (any, error) {
	return "this", nil
}

func (p *Printer) VisitSuper(e *Super) (any, error) {
	return fmt.Sprintf("(super %s)", e.Method.Lexeme), nil
}

func (p *Printer) printStmtTo(sb *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	switch st := s.(type) {
	case *Expression:
		sb.WriteString(indent + p.PrintExpr(st.Expression) + ";")
	case *Print:
		sb.WriteString(indent + "(print " + p.PrintExpr(st.Expression) + ")")
	case *Var:
		if st.Initializer != nil {
			sb.WriteString(fmt.Sprintf("%s(var %s %s)", indent, st.Name.Lexeme, p.PrintExpr(st.Initializer)))
		} else {
			sb.WriteString(fmt.Sprintf("%s(var %s)", indent, st.Name.Lexeme))
		}
	case *Block:
		sb.WriteString(indent + "{\n")
		for _, decl := range st.Statements {
			p.printStmtTo(sb, decl, depth+1)
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "}")
	case *If:
		sb.WriteString(fmt.Sprintf("%s(if %s\n", indent, p.PrintExpr(st.Condition)))
		p.printStmtTo(sb, st.Then, depth+1)
		if st.Else != nil {
			sb.WriteString("\n")
			p.printStmtTo(sb, st.Else, depth+1)
		}
		sb.WriteString(")")
	case *While:
		sb.WriteString(fmt.Sprintf("%s(while %s\n", indent, p.PrintExpr(st.Condition)))
		p.printStmtTo(sb, st.Body, depth+1)
		sb.WriteString(")")
	case *Break:
		sb.WriteString(indent + "(break)")
	case *Function:
		sb.WriteString(fmt.Sprintf("%s(fun %s(", indent, st.Name.Lexeme))
		for i, param := range st.Params {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(param.Lexeme)
		}
		sb.WriteString(")")
	case *Return:
		if st.Value != nil {
			sb.WriteString(indent + "(return " + p.PrintExpr(st.Value) + ")")
		} else {
			sb.WriteString(indent + "(return)")
		}
	case *Class:
		sb.WriteString(fmt.Sprintf("%s(class %s)", indent, st.Name.Lexeme))
	default:
		sb.WriteString(indent + "<unknown stmt>")
	}
}
