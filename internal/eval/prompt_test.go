package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/eval"
	"github.com/orangensaft-lang/orangensaft/internal/provider"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// Scenario 3: an untyped prompt binds the provider's FinalText verbatim.
func TestScenario_UntypedPrompt(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.FinalText(`hello`),
	})
	err := run(t, "s = $ say hi $\nassert s == \"hello\"\n", prov)
	require.NoError(t, err)
}

// Scenario 4a: a typed prompt whose first response already conforms needs
// no repair.
func TestScenario_TypedPrompt_NoRepairNeeded(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.FinalText(`[1,2,3]`),
	})
	err := run(t, "nums: [int] = $ give numbers $\nassert nums == [1, 2, 3]\n", prov)
	require.NoError(t, err)
}

// Scenario 4b: a malformed first response triggers exactly one repair
// round; a conforming repair response succeeds.
func TestScenario_TypedPrompt_RepairSucceeds(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.FinalText(`[1,"x"]`),
		provider.FinalText(`[1,2]`),
	})
	err := run(t, "nums: [int] = $ give numbers $\nassert nums == [1, 2]\n", prov)
	require.NoError(t, err)
}

// Scenario 4c: if the repair response also fails, the error is a TypeError
// carrying the structural path of the mismatch.
func TestScenario_TypedPrompt_RepairAlsoFails(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.FinalText(`[1,"x"]`),
		provider.FinalText(`[1,"y"]`),
	})
	err := run(t, "nums: [int] = $ give numbers $\n", prov)
	require.Error(t, err)
	ce, ok := err.(errors.CompilerError)
	require.True(t, ok)
	require.Equal(t, errors.ErrPromptResultType, ce.Code)
	require.Contains(t, ce.Message, "$[1]")
}

// Scenario 5: a tool-call round followed by a FinalText round.
func TestScenario_ToolCallLoop(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.ToolCalls([]provider.ToolCall{
			{ID: "call-1", Name: "greet", ArgumentsRaw: `{"a":"alice","b":"bob"}`},
		}),
		provider.FinalText(`"alice hi bob"`),
	})
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z: string = $ use {greet} with alice and bob $
assert z == "alice hi bob"
`
	err := run(t, src, prov)
	require.NoError(t, err)
}

// Scenario 6: the provider keeps emitting tool calls forever; with
// max_tool_rounds=2 the runtime errors with cause max_tool_rounds after
// the second round.
func TestScenario_ToolCallRoundLimit(t *testing.T) {
	resps := make([]provider.PromptResponse, 0, 5)
	for i := 0; i < 5; i++ {
		resps = append(resps, provider.ToolCalls([]provider.ToolCall{
			{ID: "call", Name: "greet", ArgumentsRaw: `{"a":"x","b":"y"}`},
		}))
	}
	prov := provider.NewSequenceProvider(resps)

	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z: string = $ use {greet} with x and y $
`
	prog := mustParse(t, src)
	ev := eval.New("test.orj", prov, nil)
	ev.MaxToolRounds = 2
	err := ev.Run(context.Background(), prog)
	require.Error(t, err)
	ce, ok := err.(errors.CompilerError)
	require.True(t, ok)
	require.Equal(t, errors.ErrToolRoundsLimit, ce.Code)
}

// The cumulative tool-call limit triggers mid-round, independent of the
// round limit.
func TestScenario_ToolCallCountLimit(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.ToolCalls([]provider.ToolCall{
			{ID: "1", Name: "greet", ArgumentsRaw: `{"a":"x","b":"y"}`},
			{ID: "2", Name: "greet", ArgumentsRaw: `{"a":"x","b":"y"}`},
			{ID: "3", Name: "greet", ArgumentsRaw: `{"a":"x","b":"y"}`},
		}),
	})
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z: string = $ use {greet} with x and y $
`
	prog := mustParse(t, src)
	ev := eval.New("test.orj", prov, nil)
	ev.MaxToolCalls = 2
	err := ev.Run(context.Background(), prog)
	require.Error(t, err)
	ce, ok := err.(errors.CompilerError)
	require.True(t, ok)
	require.Equal(t, errors.ErrToolCallsLimit, ce.Code)
}

// An unknown tool name becomes a recorded tool-result error rather than
// aborting the whole prompt evaluation.
func TestToolLoop_UnknownToolNameDoesNotAbort(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.ToolCalls([]provider.ToolCall{
			{ID: "1", Name: "not_a_tool", ArgumentsRaw: `{}`},
		}),
		provider.FinalText(`done`),
	})
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z = $ use {greet} with x and y $
assert z == "done"
`
	err := run(t, src, prov)
	require.NoError(t, err)
}

// A tool call with arguments that fail the parameter schema becomes an
// error tool-result rather than aborting.
func TestToolLoop_BadToolArgumentsDoesNotAbort(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.ToolCalls([]provider.ToolCall{
			{ID: "1", Name: "greet", ArgumentsRaw: `{"a":"x","b":42}`},
		}),
		provider.FinalText(`done`),
	})
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z = $ use {greet} with x and y $
assert z == "done"
`
	err := run(t, src, prov)
	require.NoError(t, err)
}

// A ToolGate rejecting a call produces an error tool-result rather than
// aborting the prompt: the provider sees the rejection and can still
// return a FinalText that completes the loop.
func TestToolLoop_GateRejectsCall(t *testing.T) {
	prov := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.ToolCalls([]provider.ToolCall{
			{ID: "1", Name: "greet", ArgumentsRaw: `{"a":"x","b":"y"}`},
		}),
		provider.FinalText(`blocked`),
	})
	src := `f greet(a: string, b: string) -> string:
    ret a + " hi " + b
z = $ use {greet} with x and y $
assert z == "blocked"
`
	prog := mustParse(t, src)
	ev := eval.New("test.orj", prov, nil)
	ev.Gate = func(name string, args map[string]value.Value) bool { return false }
	err := ev.Run(context.Background(), prog)
	require.NoError(t, err)
}
