// Package parser implements the recursive-descent, precedence-climbing
// parser described in spec.md §4.2: token stream in, a slice of
// ast.Stmt out, with panic-mode synchronization so a single malformed
// statement does not abort the whole parse.
//
// Grounded on sam-decook-lox/codecrafters/cmd/parser.go for the overall
// recursive-descent shape (match/check/consume/advance helpers,
// left-associative binary-operator loops) — but completed against
// spec.md where the teacher's WIP version was partial or wrong: classes,
// get/set, this/super, the 255-argument cap, break, and real
// synchronize-and-continue error recovery (the teacher's parser called
// os.Exit(65) on the first error).
package parser

import (
	"fmt"

	"github.com/sdecook/glox/ast"
	"github.com/sdecook/glox/loxerr"
	"github.com/sdecook/glox/token"
)

const maxArgs = 255

// Parser consumes a token stream and produces statements.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*loxerr.Signal
}

// New creates a Parser over tokens (which must end with an EOF token).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// parseError is used internally to unwind out of a statement/expression
// parse to the nearest synchronize point; it always carries a Signal
// already appended to p.errors.
type parseError struct{ signal *loxerr.Signal }

func (parseError) Error() string { return "parse error" }

// Parse runs the parser to completion, returning every top-level
// declaration it could recover and any accumulated parse errors. A
// non-empty error slice means the overall parse failed (spec.md §4.2).
func (p *Parser) Parse() ([]ast.Stmt, []*loxerr.Signal) {
	var stmts []ast.Stmt
	for !p.atEnd() {
		stmt, err := p.safeDeclaration()
		if err == nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errors
}

// ParseExpression parses a single bare expression rather than a full
// program.
func (p *Parser) ParseExpression() (expr ast.Expr, errs []*loxerr.Signal) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			expr, errs = nil, p.errors
		}
	}()
	e, err := p.expression()
	if err != nil {
		return nil, p.errors
	}
	return e, p.errors
}

func (p *Parser) safeDeclaration() (stmt ast.Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			p.synchronize()
			err = pe
		}
	}()
	return p.declaration(), nil
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		p.consume(token.Identifier, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous()}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method").(*ast.Function))
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) ast.Stmt {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expressionMustParse()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")

	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.Break):
		return p.breakStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{Statements: p.block()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expressionMustParse()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expressionMustParse()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) breakStmt() ast.Stmt {
	kw := p.previous()
	p.consume(token.Semicolon, "Expect ';' after 'break'.")
	return &ast.Break{Keyword: kw}
}

func (p *Parser) returnStmt() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expressionMustParse()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expressionMustParse()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expressionMustParse()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

// forStmt desugars `for (init; cond; incr) body` into an (optionally
// initializer-wrapping) block containing a while loop, per spec.md
// §4.2: "for desugars: initializer becomes a leading statement inside an
// outer block; the while loop body becomes the user body followed by
// the increment expression statement; an absent condition becomes
// literal true."
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expressionMustParse()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expressionMustParse()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	body = &ast.While{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// ---- Expressions (precedence climbing, highest to lowest binding) ----

func (p *Parser) expressionMustParse() ast.Expr {
	e, err := p.expression()
	if err != nil {
		panic(err)
	}
	return e
}

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return value, nil
		}
	}

	return expr, nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.Slash, token.Star)
}

// binaryLevel implements one left-associative precedence level: parse
// one operand with next, then fold in any number of (op, operand) pairs
// whose operator is in ops.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops ...token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}, nil
	case p.match(token.True):
		return &ast.Literal{Value: true}, nil
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}, nil
	case p.match(token.Number):
		return &ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.String):
		return &ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}, nil
	case p.match(token.Super):
		kw := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return &ast.Super{Keyword: kw, Method: method}, nil
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}, nil
	}

	return nil, p.errorAt(p.peek(), "Expect expression.")
}

// ---- Token-stream helpers ----

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	return !p.atEnd() && p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) consume(t token.Type, msg string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), msg))
}

// errorAt records a parse error anchored on tok and returns it wrapped
// as a parseError for panic/recover-based unwinding to the nearest
// synchronize point, matching the parser's panic-mode design (spec.md
// §4.2). Go's panic/recover plays the role the book's exception-based
// Java implementation uses for the same purpose.
func (p *Parser) errorAt(tok token.Token, msg string) parseError {
	sig := loxerr.NewParseError(tok, msg)
	p.errors = append(p.errors, sig)
	return parseError{signal: sig}
}

// synchronize discards tokens until it reaches a likely statement
// boundary: just past a consumed ';', or just before a token that
// starts a new statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}

		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}
