// Package ast defines the span-annotated Abstract Syntax Tree produced by
// the parser: statements, expressions, and schema annotations.
package ast

import "github.com/orangensaft-lang/orangensaft/internal/lexer"

// Span re-exports the lexer's source-range type so AST nodes don't need to
// import the lexer package just for positions... except they do, since Span
// is defined there. Kept as a type alias for readability at call sites.
type Span = lexer.Span

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Statements []Stmt
	Sp         Span
}

func (p *Program) Span() Span { return p.Sp }

// --- Statements ---

// FuncDef is a function definition: `f name(params) -> schema: body`.
type FuncDef struct {
	Name       string
	Params     []Param
	ReturnType SchemaExpr // nil if unannotated
	Body       []Stmt
	Sp         Span
}

func (n *FuncDef) stmtNode()  {}
func (n *FuncDef) Span() Span { return n.Sp }

// Param is one function parameter, with an optional schema annotation.
type Param struct {
	Name   string
	Schema SchemaExpr // nil if unannotated
	Sp     Span
}

// Assign is `name = expr` or `name: schema = expr`.
type Assign struct {
	Name   string
	Schema SchemaExpr // nil for untyped assignment
	Value  Expr
	Sp     Span
}

func (n *Assign) stmtNode()  {}
func (n *Assign) Span() Span { return n.Sp }

// If is `if cond: then-block (else: else-block)?`.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else clause
	Sp   Span
}

func (n *If) stmtNode()  {}
func (n *If) Span() Span { return n.Sp }

// For is `for target(s) in iterable: body`.
type For struct {
	Targets  []string
	Iterable Expr
	Body     []Stmt
	Sp       Span
}

func (n *For) stmtNode()  {}
func (n *For) Span() Span { return n.Sp }

// Return is `ret expr?`.
type Return struct {
	Value Expr // nil for a bare `ret`
	Sp    Span
}

func (n *Return) stmtNode()  {}
func (n *Return) Span() Span { return n.Sp }

// Assert is `assert expr`.
type Assert struct {
	Value Expr
	Sp    Span
}

func (n *Assert) stmtNode()  {}
func (n *Assert) Span() Span { return n.Sp }

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Value Expr
	Sp    Span
}

func (n *ExprStmt) stmtNode()  {}
func (n *ExprStmt) Span() Span { return n.Sp }

// --- Expressions ---

type IntLit struct {
	Value int64
	Sp    Span
}

func (n *IntLit) exprNode() {}
func (n *IntLit) Span() Span { return n.Sp }

type FloatLit struct {
	Value float64
	Sp    Span
}

func (n *FloatLit) exprNode() {}
func (n *FloatLit) Span() Span { return n.Sp }

type StringLit struct {
	Value string
	Sp    Span
}

func (n *StringLit) exprNode() {}
func (n *StringLit) Span() Span { return n.Sp }

type BoolLit struct {
	Value bool
	Sp    Span
}

func (n *BoolLit) exprNode() {}
func (n *BoolLit) Span() Span { return n.Sp }

type NilLit struct {
	Sp Span
}

func (n *NilLit) exprNode() {}
func (n *NilLit) Span() Span { return n.Sp }

type Ident struct {
	Name string
	Sp   Span
}

func (n *Ident) exprNode() {}
func (n *Ident) Span() Span { return n.Sp }

type ListLit struct {
	Elements []Expr
	Sp       Span
}

func (n *ListLit) exprNode() {}
func (n *ListLit) Span() Span { return n.Sp }

// TupleLit has at least two elements, per spec.md's tuple-arity invariant.
type TupleLit struct {
	Elements []Expr
	Sp       Span
}

func (n *TupleLit) exprNode() {}
func (n *TupleLit) Span() Span { return n.Sp }

// ObjectField is one `name: expr` entry of an ObjectLit, order-preserved.
type ObjectField struct {
	Name  string
	Value Expr
	Sp    Span
}

type ObjectLit struct {
	Fields []ObjectField
	Sp     Span
}

func (n *ObjectLit) exprNode() {}
func (n *ObjectLit) Span() Span { return n.Sp }

type UnaryExpr struct {
	Op      lexer.TokenType // TOKEN_MINUS or TOKEN_NOT
	Operand Expr
	Sp      Span
}

func (n *UnaryExpr) exprNode() {}
func (n *UnaryExpr) Span() Span { return n.Sp }

type BinaryExpr struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	Sp    Span
}

func (n *BinaryExpr) exprNode() {}
func (n *BinaryExpr) Span() Span { return n.Sp }

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Sp     Span
}

func (n *CallExpr) exprNode() {}
func (n *CallExpr) Span() Span { return n.Sp }

type IndexExpr struct {
	Object Expr
	Index  Expr
	Sp     Span
}

func (n *IndexExpr) exprNode() {}
func (n *IndexExpr) Span() Span { return n.Sp }

type MemberExpr struct {
	Object Expr
	Name   string
	Sp     Span
}

func (n *MemberExpr) exprNode() {}
func (n *MemberExpr) Span() Span { return n.Sp }

// TupleIndexExpr is `expr.INT`, sugar for positional tuple access.
type TupleIndexExpr struct {
	Object Expr
	Index  int
	Sp     Span
}

func (n *TupleIndexExpr) exprNode() {}
func (n *TupleIndexExpr) Span() Span { return n.Sp }

// PromptPart is one segment of a PromptExpr: literal text, or an
// interpolated sub-expression.
type PromptPart struct {
	Text string // set when Expr == nil
	Expr Expr   // set for an `{ expr }` interpolation
}

// PromptExpr is a `$ … $` prompt expression.
type PromptExpr struct {
	Parts []PromptPart
	Sp    Span
}

func (n *PromptExpr) exprNode() {}
func (n *PromptExpr) Span() Span { return n.Sp }
