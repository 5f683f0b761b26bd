// Package introspect is a read-only debug HTTP server exposing a checked
// program's schema annotations and statically-discoverable tools as JSON,
// for `orangensaft check --serve :PORT`.
package introspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
)

// NewRouter builds the chi router backing the introspection server. prog
// is the already-checked program whose schemas/tools are served; it never
// changes after construction, since `check --serve` introspects one
// parse, not a live editing session (that's internal/lsp's job).
func NewRouter(prog *ast.Program) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/schemas", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, CollectSchemas(prog))
	})
	r.Get("/tools", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, CollectTools(prog))
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
