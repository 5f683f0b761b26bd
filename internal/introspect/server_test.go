package introspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orangensaft-lang/orangensaft/internal/introspect"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/parser"
)

func TestSchemasAndToolsEndpoints(t *testing.T) {
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b

nums: [int] = $ give numbers $
z: string = $ use {greet} with alice and bob $
`
	l := lexer.New(src, "test.orj")
	toks, lexErrs := l.ScanTokens()
	require.Empty(t, lexErrs)
	p := parser.New(toks, "test.orj")
	prog, parseErrs := p.Parse()
	require.Empty(t, parseErrs)

	srv := httptest.NewServer(introspect.NewRouter(prog))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/schemas")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var schemas []introspect.SchemaInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schemas))
	require.Len(t, schemas, 5) // a and b parameters, return type, nums assignment, z assignment

	resp2, err := http.Get(srv.URL + "/tools")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var tools []introspect.ToolInfo
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&tools))
	require.Len(t, tools, 1)
	require.Equal(t, "greet", tools[0].Name)
}
