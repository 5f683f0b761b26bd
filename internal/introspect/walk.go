package introspect

import (
	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/schema"
)

// SchemaInfo is one schema annotation found anywhere in a checked program.
type SchemaInfo struct {
	Kind   string            `json:"kind"` // "assignment" | "parameter" | "return"
	Name   string            `json:"name"`
	Schema *schema.JSONShape `json:"schema"`
}

// ToolInfo is one function statically discoverable as a prompt tool (a
// bare-variable interpolation naming a known function definition).
type ToolInfo struct {
	Name       string            `json:"name"`
	Parameters *schema.JSONShape `json:"parameters"`
}

// CollectSchemas walks prog and projects every schema annotation on an
// assignment, parameter, or return type.
func CollectSchemas(prog *ast.Program) []SchemaInfo {
	var out []SchemaInfo
	walkStmts(prog.Statements, func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.FuncDef:
			for _, p := range n.Params {
				if p.Schema != nil {
					out = append(out, SchemaInfo{Kind: "parameter", Name: n.Name + "." + p.Name, Schema: schema.Project(p.Schema)})
				}
			}
			if n.ReturnType != nil {
				out = append(out, SchemaInfo{Kind: "return", Name: n.Name, Schema: schema.Project(n.ReturnType)})
			}
		case *ast.Assign:
			if n.Schema != nil {
				out = append(out, SchemaInfo{Kind: "assignment", Name: n.Name, Schema: schema.Project(n.Schema)})
			}
		}
	}, nil)
	return out
}

// CollectTools walks prog for every PromptExpr interpolation that names a
// known function definition, and returns one ToolInfo per distinct name.
func CollectTools(prog *ast.Program) []ToolInfo {
	funcs := map[string][]ast.Param{}
	walkStmts(prog.Statements, func(s ast.Stmt) {
		if fd, ok := s.(*ast.FuncDef); ok {
			funcs[fd.Name] = fd.Params
		}
	}, nil)

	seen := map[string]bool{}
	var out []ToolInfo
	walkStmts(prog.Statements, nil, func(e ast.Expr) {
		prompt, ok := e.(*ast.PromptExpr)
		if !ok {
			return
		}
		for _, part := range prompt.Parts {
			ident, ok := part.Expr.(*ast.Ident)
			if !ok {
				continue
			}
			params, known := funcs[ident.Name]
			if !known || seen[ident.Name] {
				continue
			}
			seen[ident.Name] = true
			out = append(out, ToolInfo{Name: ident.Name, Parameters: toolParamsShape(params)})
		}
	})
	return out
}

func toolParamsShape(params []ast.Param) *schema.JSONShape {
	fields := make([]ast.ObjectSchemaField, len(params))
	for i, p := range params {
		sch := p.Schema
		if sch == nil {
			sch = &ast.AnySchema{}
		}
		fields[i] = ast.ObjectSchemaField{Name: p.Name, Schema: sch}
	}
	return schema.Project(&ast.ObjectSchema{Fields: fields})
}

// walkStmts recursively visits every statement and expression reachable
// from stmts, in program order, invoking onStmt/onExpr (either may be nil)
// for each node found.
func walkStmts(stmts []ast.Stmt, onStmt func(ast.Stmt), onExpr func(ast.Expr)) {
	for _, s := range stmts {
		if onStmt != nil {
			onStmt(s)
		}
		switch n := s.(type) {
		case *ast.FuncDef:
			walkStmts(n.Body, onStmt, onExpr)
		case *ast.Assign:
			walkExpr(n.Value, onStmt, onExpr)
		case *ast.If:
			walkExpr(n.Cond, onStmt, onExpr)
			walkStmts(n.Then, onStmt, onExpr)
			walkStmts(n.Else, onStmt, onExpr)
		case *ast.For:
			walkExpr(n.Iterable, onStmt, onExpr)
			walkStmts(n.Body, onStmt, onExpr)
		case *ast.Return:
			if n.Value != nil {
				walkExpr(n.Value, onStmt, onExpr)
			}
		case *ast.Assert:
			walkExpr(n.Value, onStmt, onExpr)
		case *ast.ExprStmt:
			walkExpr(n.Value, onStmt, onExpr)
		}
	}
}

func walkExpr(e ast.Expr, onStmt func(ast.Stmt), onExpr func(ast.Expr)) {
	if e == nil {
		return
	}
	if onExpr != nil {
		onExpr(e)
	}
	switch n := e.(type) {
	case *ast.ListLit:
		for _, el := range n.Elements {
			walkExpr(el, onStmt, onExpr)
		}
	case *ast.TupleLit:
		for _, el := range n.Elements {
			walkExpr(el, onStmt, onExpr)
		}
	case *ast.ObjectLit:
		for _, f := range n.Fields {
			walkExpr(f.Value, onStmt, onExpr)
		}
	case *ast.UnaryExpr:
		walkExpr(n.Operand, onStmt, onExpr)
	case *ast.BinaryExpr:
		walkExpr(n.Left, onStmt, onExpr)
		walkExpr(n.Right, onStmt, onExpr)
	case *ast.CallExpr:
		walkExpr(n.Callee, onStmt, onExpr)
		for _, a := range n.Args {
			walkExpr(a, onStmt, onExpr)
		}
	case *ast.IndexExpr:
		walkExpr(n.Object, onStmt, onExpr)
		walkExpr(n.Index, onStmt, onExpr)
	case *ast.MemberExpr:
		walkExpr(n.Object, onStmt, onExpr)
	case *ast.TupleIndexExpr:
		walkExpr(n.Object, onStmt, onExpr)
	case *ast.PromptExpr:
		for _, part := range n.Parts {
			if part.Expr != nil {
				walkExpr(part.Expr, onStmt, onExpr)
			}
		}
	}
}
