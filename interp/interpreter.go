// Package interp implements the AST-walking evaluator: statement
// execution, expression evaluation, the environment chain, closures,
// method binding, inheritance, and return/break unwinding (spec.md §4.4).
//
// Grounded on sam-decook-lox/codecrafters/cmd/evaluate.go and run.go for
// the per-node-type dispatch and operator semantics, generalized onto
// the ast.ExprVisitor/StmtVisitor interfaces (rather than per-node
// Evaluate/Run methods) so the evaluator, resolver, and printer share one
// dispatch mechanism — and completed with classes/super/this,
// break-as-signal, and the native-function table that the teacher's WIP
// evaluator special-cased or omitted (see SPEC_FULL.md).
package interp

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdecook/glox/ast"
	"github.com/sdecook/glox/loxerr"
	"github.com/sdecook/glox/object"
	"github.com/sdecook/glox/token"
)

// Interpreter executes a resolved program. It holds the current
// environment (swapped on block/function/call entry and exit), a pinned
// reference to the global environment, and the resolver's depth map.
type Interpreter struct {
	Globals *object.Environment
	env     *object.Environment
	locals  map[ast.Expr]int
	Stdout  io.Writer
}

// New creates an Interpreter with a fresh global environment seeded with
// the built-in natives (just `clock`, per spec.md's Non-goals), writing
// `print` output to os.Stdout.
func New() *Interpreter {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput is New but with `print` output redirected to w — used by
// tests that capture stdout.
func NewWithOutput(w io.Writer) *Interpreter {
	globals := object.NewEnvironment(nil)
	it := &Interpreter{Globals: globals, env: globals, locals: map[ast.Expr]int{}, Stdout: w}
	registerNatives(globals)
	return it
}

func registerNatives(env *object.Environment) {
	env.Define("clock", &object.Native{
		Name:   "clock",
		NArity: 0,
		Fn: func(args []object.Value) (object.Value, error) {
			return object.Number{Value: float64(time.Now().UnixMilli())}, nil
		},
	})
}

// SetLocals installs the resolver's scope-depth annotations; it must be
// called after resolution and before Run/EvaluateExpr.
func (it *Interpreter) SetLocals(locals map[ast.Expr]int) {
	it.locals = locals
}

// Run executes every statement in program in order.
func (it *Interpreter) Run(program []ast.Stmt) error {
	for _, stmt := range program {
		if err := it.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execute(s ast.Stmt) error {
	return s.Accept(it)
}

func (it *Interpreter) evaluate(e ast.Expr) (object.Value, error) {
	v, err := e.Accept(it)
	if err != nil {
		return nil, err
	}
	return v.(object.Value), nil
}

// EvaluateExpr evaluates a single bare expression rather than a
// statement list.
func (it *Interpreter) EvaluateExpr(e ast.Expr) (object.Value, error) {
	return it.evaluate(e)
}

// Stringify renders v in its display form for `print` (spec.md §6).
func Stringify(v object.Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}

func runtimeErr(tok token.Token, msg string) error {
	return loxerr.NewRuntimeError(tok, msg)
}

// ---- Statement visitor ----

func (it *Interpreter) VisitExpression(s *ast.Expression) error {
	_, err := it.evaluate(s.Expression)
	return err
}

func (it *Interpreter) VisitPrint(s *ast.Print) error {
	v, err := it.evaluate(s.Expression)
	if err != nil {
		return err
	}
	fmt.Fprintln(it.Stdout, Stringify(v))
	return nil
}

func (it *Interpreter) VisitVar(s *ast.Var) error {
	var value object.Value = object.NilValue
	if s.Initializer != nil {
		v, err := it.evaluate(s.Initializer)
		if err != nil {
			return err
		}
		value = v
	}
	it.env.Define(s.Name.Lexeme, value)
	return nil
}

func (it *Interpreter) VisitBlock(s *ast.Block) error {
	return it.executeBlock(s.Statements, object.NewEnvironment(it.env))
}

// executeBlock runs stmts in a fresh child environment, restoring the
// caller's environment on the way out even when unwinding via an error
// or a Return/Break signal.
func (it *Interpreter) executeBlock(stmts []ast.Stmt, env *object.Environment) error {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, stmt := range stmts {
		if err := it.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) VisitIf(s *ast.If) error {
	cond, err := it.evaluate(s.Condition)
	if err != nil {
		return err
	}
	if object.Truthy(cond) {
		return it.execute(s.Then)
	} else if s.Else != nil {
		return it.execute(s.Else)
	}
	return nil
}

func (it *Interpreter) VisitWhile(s *ast.While) error {
	for {
		cond, err := it.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !object.Truthy(cond) {
			return nil
		}
		if err := it.execute(s.Body); err != nil {
			if loxerr.IsBreak(err) {
				return nil
			}
			return err
		}
	}
}

func (it *Interpreter) VisitBreak(s *ast.Break) error {
	return loxerr.NewBreak()
}

func (it *Interpreter) VisitFunction(s *ast.Function) error {
	fn := &object.Function{
		Name:        s.Name.Lexeme,
		Params:      paramNames(s.Params),
		Declaration: s,
		Closure:     it.env,
	}
	it.env.Define(s.Name.Lexeme, fn)
	return nil
}

func paramNames(params []token.Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return names
}

func (it *Interpreter) VisitReturn(s *ast.Return) error {
	var value object.Value = object.NilValue
	if s.Value != nil {
		v, err := it.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	return loxerr.NewReturn(value)
}

func (it *Interpreter) VisitClass(s *ast.Class) error {
	var superclass *object.Class
	if s.Superclass != nil {
		sup, err := it.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sup.(*object.Class)
		if !ok {
			return runtimeErr(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	it.env.Define(s.Name.Lexeme, object.NilValue)

	classEnv := it.env
	if s.Superclass != nil {
		classEnv = object.NewEnvironment(it.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &object.Function{
			Name:          m.Name.Lexeme,
			Params:        paramNames(m.Params),
			Declaration:   m,
			Closure:       classEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &object.Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	it.env.Assign(s.Name.Lexeme, class)
	return nil
}

// ---- Expression visitor ----

func (it *Interpreter) VisitLiteral(e *ast.Literal) (any, error) {
	return literalValue(e.Value), nil
}

func literalValue(v any) object.Value {
	switch val := v.(type) {
	case nil:
		return object.NilValue
	case bool:
		return object.BoolOf(val)
	case float64:
		return object.Number{Value: val}
	case string:
		return object.String{Value: val}
	default:
		return object.NilValue
	}
}

func (it *Interpreter) VisitGrouping(e *ast.Grouping) (any, error) {
	return it.evaluate(e.Expression)
}

func (it *Interpreter) VisitUnary(e *ast.Unary) (any, error) {
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case token.Bang:
		return object.BoolOf(!object.Truthy(right)), nil
	case token.Minus:
		n, ok := right.(object.Number)
		if !ok {
			return nil, runtimeErr(e.Op, "Operand must be a number.")
		}
		return object.Number{Value: -n.Value}, nil
	}
	panic("unreachable: unary operator " + e.Op.Type.String())
}

func (it *Interpreter) VisitLogical(e *ast.Logical) (any, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == token.Or {
		if object.Truthy(left) {
			return left, nil
		}
	} else {
		if !object.Truthy(left) {
			return left, nil
		}
	}
	return it.evaluate(e.Right)
}

func (it *Interpreter) VisitBinary(e *ast.Binary) (any, error) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case token.Plus:
		if ls, lok := left.(object.String); lok {
			if rs, rok := right.(object.String); rok {
				return object.String{Value: ls.Value + rs.Value}, nil
			}
		}
		if ln, lok := left.(object.Number); lok {
			if rn, rok := right.(object.Number); rok {
				return object.Number{Value: ln.Value + rn.Value}, nil
			}
		}
		return nil, runtimeErr(e.Op, "Operands must be two numbers or two strings.")

	case token.Minus:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.Number{Value: a - b}, nil

	case token.Star:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.Number{Value: a * b}, nil

	case token.Slash:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.Number{Value: a / b}, nil

	case token.Greater:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(a > b), nil

	case token.GreaterEqual:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(a >= b), nil

	case token.Less:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(a < b), nil

	case token.LessEqual:
		a, b, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return object.BoolOf(a <= b), nil

	case token.EqualEqual:
		return object.BoolOf(object.Equal(left, right)), nil

	case token.BangEqual:
		return object.BoolOf(!object.Equal(left, right)), nil
	}

	panic("unreachable: binary operator " + e.Op.Type.String())
}

func numberOperands(op token.Token, left, right object.Value) (float64, float64, error) {
	ln, lok := left.(object.Number)
	rn, rok := right.(object.Number)
	if !lok || !rok {
		return 0, 0, runtimeErr(op, "Operands must be numbers.")
	}
	return ln.Value, rn.Value, nil
}

func (it *Interpreter) VisitVariable(e *ast.Variable) (any, error) {
	v, err := it.lookupVariable(e.Name, e)
	return v, err
}

func (it *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (object.Value, error) {
	if dist, ok := it.locals[expr]; ok {
		return it.env.GetAt(dist, name.Lexeme), nil
	}
	if v, ok := it.Globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, runtimeErr(name, "Undefined variable '"+name.Lexeme+"'.")
}

func (it *Interpreter) VisitAssign(e *ast.Assign) (any, error) {
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if dist, ok := it.locals[ast.Expr(e)]; ok {
		it.env.AssignAt(dist, e.Name.Lexeme, value)
		return value, nil
	}
	if it.Globals.Assign(e.Name.Lexeme, value) {
		return value, nil
	}
	return nil, runtimeErr(e.Name, "Undefined variable '"+e.Name.Lexeme+"'.")
}

func (it *Interpreter) VisitCall(e *ast.Call) (any, error) {
	callee, err := it.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := it.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		return nil, runtimeErr(e.Paren, "Can only call functions and classes.")
	}

	if len(args) != callable.Arity() {
		return nil, runtimeErr(e.Paren, fmt.Sprintf(
			"Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	return it.callValue(callable, args, e.Paren)
}

func (it *Interpreter) callValue(callable object.Callable, args []object.Value, site token.Token) (object.Value, error) {
	switch c := callable.(type) {
	case *object.Function:
		return it.callFunction(c, args)
	case *object.Class:
		return it.instantiate(c, args, site)
	case *object.Native:
		return c.Call(args)
	default:
		return nil, runtimeErr(site, "Can only call functions and classes.")
	}
}

func (it *Interpreter) callFunction(fn *object.Function, args []object.Value) (object.Value, error) {
	callEnv := object.NewEnvironment(fn.Closure)
	for i, name := range fn.Params {
		callEnv.Define(name, args[i])
	}

	err := it.executeBlock(fn.Declaration.Body, callEnv)
	if value, isReturn := loxerr.IsReturn(err); isReturn {
		if fn.IsInitializer {
			return fn.Closure.GetAt(0, "this"), nil
		}
		return value.(object.Value), nil
	}
	if err != nil {
		return nil, err
	}

	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this"), nil
	}
	return object.NilValue, nil
}

func (it *Interpreter) instantiate(class *object.Class, args []object.Value, site token.Token) (object.Value, error) {
	instance := object.NewInstance(class)
	if init := class.FindMethod("init"); init != nil {
		if _, err := it.callFunction(init.Bind(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (it *Interpreter) VisitGet(e *ast.Get) (any, error) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*object.Instance)
	if !ok {
		return nil, runtimeErr(e.Name, "Only instances have properties.")
	}
	v, found := inst.Get(e.Name.Lexeme)
	if !found {
		return nil, runtimeErr(e.Name, "Undefined property '"+e.Name.Lexeme+"'.")
	}
	return v, nil
}

func (it *Interpreter) VisitSet(e *ast.Set) (any, error) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*object.Instance)
	if !ok {
		return nil, runtimeErr(e.Name, "Only instances have fields.")
	}
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Lexeme, value)
	return value, nil
}

func (it *Interpreter) VisitThis(e *ast.This) (any, error) {
	return it.lookupVariable(e.Keyword, e)
}

func (it *Interpreter) VisitSuper(e *ast.Super) (any, error) {
	dist, ok := it.locals[ast.Expr(e)]
	if !ok {
		panic("unreachable: unresolved super expression")
	}

	superVal := it.env.GetAt(dist, "super")
	superclass, ok := superVal.(*object.Class)
	if !ok {
		panic("unreachable: 'super' bound to non-class value")
	}

	thisVal := it.env.GetAt(dist-1, "this")
	instance, ok := thisVal.(*object.Instance)
	if !ok {
		panic("unreachable: 'this' bound to non-instance value")
	}

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, runtimeErr(e.Method, "Undefined property '"+e.Method.Lexeme+"'.")
	}
	return method.Bind(instance), nil
}
