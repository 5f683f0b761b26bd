package tooling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orangensaft-lang/orangensaft/internal/tooling"
)

func TestGetDiagnostics_CleanProgramHasNone(t *testing.T) {
	api := tooling.NewAPI()
	_, err := api.ParseFile("file:///ok.orj", "x = 1 + 2\nassert x == 3\n")
	require.NoError(t, err)
	require.Empty(t, api.GetDiagnostics("file:///ok.orj"))
}

func TestGetDiagnostics_ParseErrorReported(t *testing.T) {
	api := tooling.NewAPI()
	_, err := api.ParseFile("file:///bad.orj", "x = (1 +\n")
	require.NoError(t, err)
	diags := api.GetDiagnostics("file:///bad.orj")
	require.NotEmpty(t, diags)
	require.Equal(t, tooling.DiagnosticSeverityError, diags[0].Severity)
}

func TestGetDiagnostics_ResolveErrorReported(t *testing.T) {
	api := tooling.NewAPI()
	_, err := api.ParseFile("file:///undef.orj", "y = x + 1\n")
	require.NoError(t, err)
	diags := api.GetDiagnostics("file:///undef.orj")
	require.NotEmpty(t, diags)
	require.Equal(t, "E200", diags[0].Code)
}

func TestUpdateDocument_ReplacesSnapshot(t *testing.T) {
	api := tooling.NewAPI()
	_, err := api.ParseFile("file:///v.orj", "y = x\n")
	require.NoError(t, err)
	require.NotEmpty(t, api.GetDiagnostics("file:///v.orj"))

	_, err = api.UpdateDocument("file:///v.orj", "y = 1\n", 2)
	require.NoError(t, err)
	require.Empty(t, api.GetDiagnostics("file:///v.orj"))
}

func TestCloseDocument_ForgetsSnapshot(t *testing.T) {
	api := tooling.NewAPI()
	_, err := api.ParseFile("file:///c.orj", "x = 1\n")
	require.NoError(t, err)
	api.CloseDocument("file:///c.orj")
	require.Empty(t, api.GetDiagnostics("file:///c.orj"))
}
