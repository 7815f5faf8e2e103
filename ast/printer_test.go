package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdecook/glox/token"
)

func tok(typ token.Type, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: 1}
}

func TestPrintExprBinaryAndGrouping(t *testing.T) {
	p := &Printer{}
	// -123 * (45.67) rendered like the book's canonical example.
	expr := &Binary{
		Left:  &Unary{Op: tok(token.Minus, "-"), Right: &Literal{Value: 123.0}},
		Op:    tok(token.Star, "*"),
		Right: &Grouping{Expression: &Literal{Value: 45.67}},
	}
	assert.Equal(t, "(* (- 123) (group 45.67))", p.PrintExpr(expr))
}

func TestPrintExprLiteralNil(t *testing.T) {
	p := &Printer{}
	assert.Equal(t, "nil", p.PrintExpr(&Literal{Value: nil}))
}

func TestPrintExprVariableAndAssign(t *testing.T) {
	p := &Printer{}
	assign := &Assign{Name: tok(token.Identifier, "x"), Value: &Literal{Value: 1.0}}
	assert.Equal(t, "(= x 1)", p.PrintExpr(assign))
}

func TestPrintExprCall(t *testing.T) {
	p := &Printer{}
	call := &Call{
		Callee: &Variable{Name: tok(token.Identifier, "f")},
		Paren:  tok(token.RightParen, ")"),
		Args:   []Expr{&Literal{Value: 1.0}, &Literal{Value: 2.0}},
	}
	assert.Equal(t, "(call f 1 2)", p.PrintExpr(call))
}

func TestPrintStmtExpressionAndPrint(t *testing.T) {
	p := &Printer{}
	assert.Equal(t, "1;", p.PrintStmt(&Expression{Expression: &Literal{Value: 1.0}}))
	assert.Equal(t, "(print 1)", p.PrintStmt(&Print{Expression: &Literal{Value: 1.0}}))
}
