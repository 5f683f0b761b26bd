// Package eval implements Orangensaft's tree-walking evaluator: statement
// execution, expression evaluation, and (in prompt.go) prompt rendering
// and tool orchestration. Grounded on the teacher's type-switch dispatch
// style over its ExprNode/StmtNode hierarchies (e.g.
// internal/compiler/typechecker/inference.go's inferExpr).
package eval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/provider"
	"github.com/orangensaft-lang/orangensaft/internal/schema"
	"github.com/orangensaft-lang/orangensaft/internal/stdlib"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// ToolGate is consulted by the CLI driver before a tool call discovered in
// a prompt is actually dispatched; returning false fails that one call
// with a recorded tool-result error rather than aborting the prompt. A nil
// gate allows every call (the default for check/run without interactive
// confirmation).
type ToolGate func(name string, args map[string]value.Value) bool

// ToolRoundHook is notified after each provider round-trip inside a
// prompt's tool-calling loop, so a CLI driver can surface round progress
// (e.g. updating a spinner's message) without the evaluator importing any
// UI package itself.
type ToolRoundHook func(round, maxRounds int)

// Evaluator holds everything one program execution needs: the root
// environment (pre-populated with stdlib), the provider backing prompt
// evaluation, and the round/call limits scoped to each prompt evaluation
// per spec.md §9.
type Evaluator struct {
	Root          *value.Env
	Provider      provider.Provider
	MaxToolRounds int
	MaxToolCalls  int
	Gate          ToolGate
	OnRound       ToolRoundHook
	Logger        *zap.Logger

	file string
}

// New builds an Evaluator over a fresh root environment with stdlib
// installed.
func New(file string, prov provider.Provider, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	root := value.NewEnv()
	stdlib.Install(root)
	return &Evaluator{
		Root:          root,
		Provider:      prov,
		MaxToolRounds: 10,
		MaxToolCalls:  20,
		Logger:        logger,
		file:          file,
	}
}

// returnSignal unwinds execBlock/execStmt up to the enclosing
// callFunction: `ret e` is implemented as a distinguished error value
// rather than a language-level exception, matching the teacher's
// preference for explicit error returns over panic/recover.
type returnSignal struct{ value value.Value }

func (r *returnSignal) Error() string { return "return" }

// Run executes prog's top-level statements against the root environment.
func (e *Evaluator) Run(ctx context.Context, prog *ast.Program) error {
	err := e.execBlock(ctx, prog.Statements, e.Root)
	if _, ok := err.(*returnSignal); ok {
		// The resolver already flags top-level `ret` as a ResolveError; a
		// well-formed program never reaches here. Treat it as a no-op exit
		// rather than leaking the control-flow sentinel to the caller.
		return nil
	}
	return err
}

func (e *Evaluator) newErr(phase, code, message string, sp ast.Span) error {
	return errors.NewCompilerError(
		phase, code, message,
		errors.SourceLocation{File: e.file, Line: sp.Line, Column: sp.Col, Length: sp.End - sp.Start},
		errors.Error,
	)
}

func (e *Evaluator) execBlock(ctx context.Context, stmts []ast.Stmt, env *value.Env) error {
	for _, s := range stmts {
		if err := e.execStmt(ctx, s, env); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execStmt(ctx context.Context, stmt ast.Stmt, env *value.Env) error {
	switch s := stmt.(type) {
	case *ast.FuncDef:
		params := make([]value.FuncParam, len(s.Params))
		for i, p := range s.Params {
			params[i] = value.FuncParam{Name: p.Name, Schema: p.Schema}
		}
		env.Define(s.Name, &value.UserFunction{Name: s.Name, Def: params, Ret: s.ReturnType, Body: s.Body, Closure: env})
		return nil

	case *ast.Assign:
		return e.execAssign(ctx, s, env)

	case *ast.If:
		cond, err := e.evalExpr(ctx, s.Cond, env)
		if err != nil {
			return err
		}
		if value.Truthy(cond) {
			return e.execBlock(ctx, s.Then, env.Child())
		}
		if s.Else != nil {
			return e.execBlock(ctx, s.Else, env.Child())
		}
		return nil

	case *ast.For:
		return e.execFor(ctx, s, env)

	case *ast.Return:
		if s.Value == nil {
			return &returnSignal{value: value.NilValue}
		}
		v, err := e.evalExpr(ctx, s.Value, env)
		if err != nil {
			return err
		}
		return &returnSignal{value: v}

	case *ast.Assert:
		v, err := e.evalExpr(ctx, s.Value, env)
		if err != nil {
			return err
		}
		if !value.Truthy(v) {
			return e.newErr("assertion", errors.ErrAssertionFailed, fmt.Sprintf("assertion failed: value was %s", v), s.Sp)
		}
		return nil

	case *ast.ExprStmt:
		_, err := e.evalExpr(ctx, s.Value, env)
		return err

	default:
		return fmt.Errorf("eval: unhandled statement type %T", stmt)
	}
}

func (e *Evaluator) execAssign(ctx context.Context, s *ast.Assign, env *value.Env) error {
	var v value.Value
	var err error

	if prompt, ok := s.Value.(*ast.PromptExpr); ok {
		if s.Schema != nil {
			v, err = e.evalTypedPrompt(ctx, prompt, s.Schema, env)
		} else {
			v, err = e.evalUntypedPrompt(ctx, prompt, env)
		}
	} else {
		v, err = e.evalExpr(ctx, s.Value, env)
	}
	if err != nil {
		return err
	}

	if s.Schema != nil {
		if mismatch := schema.Validate(s.Schema, v, "$"); mismatch != nil {
			return e.newErr("schema", errors.ErrSchemaMismatch, mismatch.Error(), s.Sp)
		}
	}
	env.Assign(s.Name, v)
	return nil
}

func (e *Evaluator) execFor(ctx context.Context, s *ast.For, env *value.Env) error {
	iterable, err := e.evalExpr(ctx, s.Iterable, env)
	if err != nil {
		return err
	}

	var elems []value.Value
	switch v := iterable.(type) {
	case *value.List:
		elems = v.Elements
	case *value.Tuple:
		elems = v.Elements
	default:
		return e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("for loop requires a list or tuple, got %s", iterable.Kind()), s.Sp)
	}

	for _, elem := range elems {
		child := env.Child()
		if len(s.Targets) == 1 {
			child.Define(s.Targets[0], elem)
		} else {
			tup, ok := elem.(*value.Tuple)
			if !ok || len(tup.Elements) != len(s.Targets) {
				return e.newErr("runtime", errors.ErrBadDestructure, fmt.Sprintf("cannot destructure %s into %d names", elem.Kind(), len(s.Targets)), s.Sp)
			}
			for i, name := range s.Targets {
				child.Define(name, tup.Elements[i])
			}
		}
		if err := e.execBlock(ctx, s.Body, child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalExpr(ctx context.Context, expr ast.Expr, env *value.Env) (value.Value, error) {
	switch ex := expr.(type) {
	case *ast.IntLit:
		return value.Int(ex.Value), nil
	case *ast.FloatLit:
		return value.Float(ex.Value), nil
	case *ast.StringLit:
		return value.String(ex.Value), nil
	case *ast.BoolLit:
		return value.Bool(ex.Value), nil
	case *ast.NilLit:
		return value.NilValue, nil

	case *ast.Ident:
		v, ok := env.Get(ex.Name)
		if !ok {
			return nil, e.newErr("runtime", errors.ErrUnboundVariable, fmt.Sprintf("unbound variable %q", ex.Name), ex.Sp)
		}
		return v, nil

	case *ast.ListLit:
		elems := make([]value.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := e.evalExpr(ctx, el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &value.List{Elements: elems}, nil

	case *ast.TupleLit:
		elems := make([]value.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := e.evalExpr(ctx, el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &value.Tuple{Elements: elems}, nil

	case *ast.ObjectLit:
		names := make([]string, len(ex.Fields))
		vals := make([]value.Value, len(ex.Fields))
		for i, f := range ex.Fields {
			v, err := e.evalExpr(ctx, f.Value, env)
			if err != nil {
				return nil, err
			}
			names[i] = f.Name
			vals[i] = v
		}
		return value.NewObject(names, vals), nil

	case *ast.UnaryExpr:
		return e.evalUnary(ctx, ex, env)
	case *ast.BinaryExpr:
		return e.evalBinary(ctx, ex, env)
	case *ast.CallExpr:
		return e.evalCall(ctx, ex, env)
	case *ast.IndexExpr:
		return e.evalIndex(ctx, ex, env)
	case *ast.MemberExpr:
		return e.evalMember(ctx, ex, env)
	case *ast.TupleIndexExpr:
		return e.evalTupleIndex(ctx, ex, env)
	case *ast.PromptExpr:
		return e.evalUntypedPrompt(ctx, ex, env)

	default:
		return nil, fmt.Errorf("eval: unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalUnary(ctx context.Context, ex *ast.UnaryExpr, env *value.Env) (value.Value, error) {
	operand, err := e.evalExpr(ctx, ex.Operand, env)
	if err != nil {
		return nil, err
	}
	switch ex.Op {
	case lexer.TOKEN_MINUS:
		switch v := operand.(type) {
		case value.Int:
			return value.Int(-v), nil
		case value.Float:
			return value.Float(-v), nil
		default:
			return nil, e.newErr("runtime", errors.ErrNonNumericUnary, errors.GetErrorMessage(errors.ErrNonNumericUnary), ex.Sp)
		}
	case lexer.TOKEN_NOT:
		return value.Bool(!value.Truthy(operand)), nil
	default:
		return nil, fmt.Errorf("eval: unknown unary operator %v", ex.Op)
	}
}

func (e *Evaluator) evalBinary(ctx context.Context, ex *ast.BinaryExpr, env *value.Env) (value.Value, error) {
	if ex.Op == lexer.TOKEN_AND {
		left, err := e.evalExpr(ctx, ex.Left, env)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			return value.Bool(false), nil
		}
		right, err := e.evalExpr(ctx, ex.Right, env)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(right)), nil
	}
	if ex.Op == lexer.TOKEN_OR {
		left, err := e.evalExpr(ctx, ex.Left, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			return value.Bool(true), nil
		}
		right, err := e.evalExpr(ctx, ex.Right, env)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(right)), nil
	}

	left, err := e.evalExpr(ctx, ex.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(ctx, ex.Right, env)
	if err != nil {
		return nil, err
	}

	switch ex.Op {
	case lexer.TOKEN_PLUS:
		return e.evalAdd(left, right, ex.Sp)
	case lexer.TOKEN_MINUS:
		return e.evalArith(left, right, ex.Sp, subOp)
	case lexer.TOKEN_STAR:
		return e.evalArith(left, right, ex.Sp, mulOp)
	case lexer.TOKEN_SLASH:
		return e.evalDivide(left, right, ex.Sp)
	case lexer.TOKEN_PERCENT:
		return e.evalModulo(left, right, ex.Sp)
	case lexer.TOKEN_EQUAL_EQUAL:
		return value.Bool(value.Equal(left, right)), nil
	case lexer.TOKEN_BANG_EQUAL:
		return value.Bool(!value.Equal(left, right)), nil
	case lexer.TOKEN_LESS, lexer.TOKEN_LESS_EQUAL, lexer.TOKEN_GREATER, lexer.TOKEN_GREATER_EQUAL:
		return e.evalCompare(ex.Op, left, right, ex.Sp)
	default:
		return nil, fmt.Errorf("eval: unknown binary operator %v", ex.Op)
	}
}

func toNumeric(v value.Value) (float64, bool, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), false, true
	case value.Float:
		return float64(n), true, true
	default:
		return 0, false, false
	}
}

func (e *Evaluator) evalAdd(left, right value.Value, sp ast.Span) (value.Value, error) {
	ls, lok := left.(value.String)
	rs, rok := right.(value.String)
	if lok && rok {
		return value.String(string(ls) + string(rs)), nil
	}
	lf, lIsFloat, lNum := toNumeric(left)
	rf, rIsFloat, rNum := toNumeric(right)
	if lNum && rNum {
		if lIsFloat || rIsFloat {
			return value.Float(lf + rf), nil
		}
		return value.Int(int64(lf) + int64(rf)), nil
	}
	return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("'+' requires two numbers or two strings, got %s and %s", left.Kind(), right.Kind()), sp)
}

type arithOp int

const (
	subOp arithOp = iota
	mulOp
)

func (e *Evaluator) evalArith(left, right value.Value, sp ast.Span, op arithOp) (value.Value, error) {
	lf, lIsFloat, lNum := toNumeric(left)
	rf, rIsFloat, rNum := toNumeric(right)
	if !lNum || !rNum {
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("arithmetic requires two numbers, got %s and %s", left.Kind(), right.Kind()), sp)
	}
	isFloat := lIsFloat || rIsFloat
	var result float64
	switch op {
	case subOp:
		result = lf - rf
	case mulOp:
		result = lf * rf
	}
	if isFloat {
		return value.Float(result), nil
	}
	return value.Int(int64(result)), nil
}

func (e *Evaluator) evalDivide(left, right value.Value, sp ast.Span) (value.Value, error) {
	lf, lIsFloat, lNum := toNumeric(left)
	rf, rIsFloat, rNum := toNumeric(right)
	if !lNum || !rNum {
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("'/' requires two numbers, got %s and %s", left.Kind(), right.Kind()), sp)
	}
	if rf == 0 {
		return nil, e.newErr("runtime", errors.ErrDivisionByZero, errors.GetErrorMessage(errors.ErrDivisionByZero), sp)
	}
	if lIsFloat || rIsFloat {
		return value.Float(lf / rf), nil
	}
	li, ri := int64(lf), int64(rf)
	return value.Int(li / ri), nil // Go's int64 division truncates toward zero
}

func (e *Evaluator) evalModulo(left, right value.Value, sp ast.Span) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, "'%' requires two integers", sp)
	}
	if ri == 0 {
		return nil, e.newErr("runtime", errors.ErrModuloByZero, errors.GetErrorMessage(errors.ErrModuloByZero), sp)
	}
	return value.Int(int64(li) % int64(ri)), nil // sign follows the dividend, per Go's %
}

func (e *Evaluator) evalCompare(op lexer.TokenType, left, right value.Value, sp ast.Span) (value.Value, error) {
	lf, _, lNum := toNumeric(left)
	rf, _, rNum := toNumeric(right)
	if lNum && rNum {
		return value.Bool(compareFloats(op, lf, rf)), nil
	}
	ls, lok := left.(value.String)
	rs, rok := right.(value.String)
	if lok && rok {
		return value.Bool(compareStrings(op, string(ls), string(rs))), nil
	}
	return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("comparison requires two numbers or two strings, got %s and %s", left.Kind(), right.Kind()), sp)
}

func compareFloats(op lexer.TokenType, a, b float64) bool {
	switch op {
	case lexer.TOKEN_LESS:
		return a < b
	case lexer.TOKEN_LESS_EQUAL:
		return a <= b
	case lexer.TOKEN_GREATER:
		return a > b
	case lexer.TOKEN_GREATER_EQUAL:
		return a >= b
	default:
		return false
	}
}

func compareStrings(op lexer.TokenType, a, b string) bool {
	switch op {
	case lexer.TOKEN_LESS:
		return a < b
	case lexer.TOKEN_LESS_EQUAL:
		return a <= b
	case lexer.TOKEN_GREATER:
		return a > b
	case lexer.TOKEN_GREATER_EQUAL:
		return a >= b
	default:
		return false
	}
}

func (e *Evaluator) evalIndex(ctx context.Context, ex *ast.IndexExpr, env *value.Env) (value.Value, error) {
	obj, err := e.evalExpr(ctx, ex.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := e.evalExpr(ctx, ex.Index, env)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *value.List:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, e.newErr("runtime", errors.ErrInvalidOperand, "list index must be an int", ex.Sp)
		}
		if int(i) < 0 || int(i) >= len(o.Elements) {
			return nil, e.newErr("runtime", errors.ErrIndexOutOfRange, errors.GetErrorMessage(errors.ErrIndexOutOfRange), ex.Sp)
		}
		return o.Elements[i], nil

	case *value.Tuple:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, e.newErr("runtime", errors.ErrInvalidOperand, "tuple index must be an int", ex.Sp)
		}
		if int(i) < 0 || int(i) >= len(o.Elements) {
			return nil, e.newErr("runtime", errors.ErrIndexOutOfRange, errors.GetErrorMessage(errors.ErrIndexOutOfRange), ex.Sp)
		}
		return o.Elements[i], nil

	case value.String:
		i, ok := idx.(value.Int)
		if !ok {
			return nil, e.newErr("runtime", errors.ErrInvalidOperand, "string index must be an int", ex.Sp)
		}
		runes := []rune(string(o))
		if int(i) < 0 || int(i) >= len(runes) {
			return nil, e.newErr("runtime", errors.ErrIndexOutOfRange, errors.GetErrorMessage(errors.ErrIndexOutOfRange), ex.Sp)
		}
		return value.String(string(runes[i])), nil

	case *value.Object:
		key, ok := idx.(value.String)
		if !ok {
			return nil, e.newErr("runtime", errors.ErrInvalidOperand, "object index must be a string", ex.Sp)
		}
		fv, ok := o.Fields[string(key)]
		if !ok {
			return nil, e.newErr("runtime", errors.ErrMissingField, fmt.Sprintf("object has no field %q", string(key)), ex.Sp)
		}
		return fv, nil

	default:
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("%s is not indexable", obj.Kind()), ex.Sp)
	}
}

func (e *Evaluator) evalMember(ctx context.Context, ex *ast.MemberExpr, env *value.Env) (value.Value, error) {
	obj, err := e.evalExpr(ctx, ex.Object, env)
	if err != nil {
		return nil, err
	}
	o, ok := obj.(*value.Object)
	if !ok {
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("member access on %s, expected object", obj.Kind()), ex.Sp)
	}
	fv, ok := o.Fields[ex.Name]
	if !ok {
		return nil, e.newErr("runtime", errors.ErrMissingField, fmt.Sprintf("object has no field %q", ex.Name), ex.Sp)
	}
	return fv, nil
}

func (e *Evaluator) evalTupleIndex(ctx context.Context, ex *ast.TupleIndexExpr, env *value.Env) (value.Value, error) {
	obj, err := e.evalExpr(ctx, ex.Object, env)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*value.Tuple)
	if !ok {
		return nil, e.newErr("runtime", errors.ErrInvalidOperand, fmt.Sprintf("tuple-index access on %s, expected tuple", obj.Kind()), ex.Sp)
	}
	if ex.Index < 0 || ex.Index >= len(t.Elements) {
		return nil, e.newErr("runtime", errors.ErrIndexOutOfRange, errors.GetErrorMessage(errors.ErrIndexOutOfRange), ex.Sp)
	}
	return t.Elements[ex.Index], nil
}

func (e *Evaluator) evalCall(ctx context.Context, ex *ast.CallExpr, env *value.Env) (value.Value, error) {
	callee, err := e.evalExpr(ctx, ex.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(value.Function)
	if !ok {
		return nil, e.newErr("runtime", errors.ErrNotCallable, fmt.Sprintf("%s is not callable", callee.Kind()), ex.Sp)
	}
	args := make([]value.Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := e.evalExpr(ctx, a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.callFunction(ctx, fn, args, ex.Sp)
}

// callFunction validates arity and per-parameter schemas, dispatches to a
// builtin or re-enters the tree walker for a user function, and validates
// the result against the declared return schema.
func (e *Evaluator) callFunction(ctx context.Context, fn value.Function, args []value.Value, callSpan ast.Span) (value.Value, error) {
	params := fn.Params()
	if len(args) != len(params) {
		return nil, e.newErr("runtime", errors.ErrWrongArity, fmt.Sprintf("%s expects %d argument(s), got %d", fn.FuncName(), len(params), len(args)), callSpan)
	}
	for i, p := range params {
		if p.Schema == nil {
			continue
		}
		if mismatch := schema.Validate(p.Schema, args[i], "$"); mismatch != nil {
			return nil, e.newErr("schema", errors.ErrParamSchema, fmt.Sprintf("argument %q: %s", p.Name, mismatch.Error()), callSpan)
		}
	}

	var result value.Value
	switch f := fn.(type) {
	case *value.Builtin:
		r, err := f.Fn(args)
		if err != nil {
			return nil, e.newErr("runtime", errors.ErrInvalidOperand, err.Error(), callSpan)
		}
		result = r

	case *value.UserFunction:
		callEnv := f.Closure.Child()
		for i, p := range params {
			callEnv.Define(p.Name, args[i])
		}
		err := e.execBlock(ctx, f.Body, callEnv)
		result = value.NilValue
		if err != nil {
			rs, ok := err.(*returnSignal)
			if !ok {
				return nil, err
			}
			result = rs.value
		}

	default:
		return nil, fmt.Errorf("eval: unknown function value type %T", fn)
	}

	if fn.ReturnSchema() != nil {
		if mismatch := schema.Validate(fn.ReturnSchema(), result, "$"); mismatch != nil {
			return nil, e.newErr("schema", errors.ErrReturnSchema, mismatch.Error(), callSpan)
		}
	}
	return result, nil
}
