package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/provider"
	"github.com/orangensaft-lang/orangensaft/internal/schema"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// evalUntypedPrompt renders prompt, runs the tool loop to a FinalText, and
// returns it as a plain string value.
func (e *Evaluator) evalUntypedPrompt(ctx context.Context, prompt *ast.PromptExpr, env *value.Env) (value.Value, error) {
	rendered, tools, toolDescs, err := e.renderPrompt(ctx, prompt, env, false, nil)
	if err != nil {
		return nil, err
	}
	text, _, err := e.runToolLoop(ctx, rendered, tools, toolDescs, prompt.Sp)
	if err != nil {
		return nil, err
	}
	return value.String(text), nil
}

// evalTypedPrompt renders prompt with the JSON-output envelope, runs the
// tool loop, then parses and validates the result against targetSchema. A
// single repair round-trip is attempted on failure; a second failure
// surfaces as a TypeError carrying the schema mismatch's structural path.
func (e *Evaluator) evalTypedPrompt(ctx context.Context, prompt *ast.PromptExpr, targetSchema ast.SchemaExpr, env *value.Env) (value.Value, error) {
	rendered, tools, toolDescs, err := e.renderPrompt(ctx, prompt, env, true, targetSchema)
	if err != nil {
		return nil, err
	}
	text, toolResults, err := e.runToolLoop(ctx, rendered, tools, toolDescs, prompt.Sp)
	if err != nil {
		return nil, err
	}

	v, verr := parseAndValidate(text, targetSchema)
	if verr == nil {
		return v, nil
	}

	e.Logger.Debug("prompt result failed validation, attempting repair",
		zap.String("failure", verr.Error()))

	repairText := buildRepairPrompt(rendered, text, verr, targetSchema)
	req := provider.NewPromptRequest(repairText, toolDescs, toolResults)
	resp, err := e.Provider.Complete(ctx, req)
	if err != nil {
		return nil, e.newErr("provider", errors.ErrProviderTransport, err.Error(), prompt.Sp)
	}
	if resp.IsToolCalls {
		return nil, e.newErr("provider", errors.ErrProviderProtocol, "repair response requested tool calls instead of returning JSON", prompt.Sp)
	}

	v2, verr2 := parseAndValidate(resp.Text, targetSchema)
	if verr2 != nil {
		return nil, e.newErr("schema", errors.ErrPromptResultType, verr2.Error(), prompt.Sp)
	}
	return v2, nil
}

func parseAndValidate(text string, targetSchema ast.SchemaExpr) (value.Value, error) {
	v, err := value.FromJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if mismatch := schema.Validate(targetSchema, v, "$"); mismatch != nil {
		return nil, mismatch
	}
	return v, nil
}

func buildRepairPrompt(original, offending string, failure error, targetSchema ast.SchemaExpr) string {
	shapeJSON, _ := json.Marshal(schema.Project(targetSchema))
	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\n--- The previous response did not conform ---\n")
	b.WriteString("Offending response:\n")
	b.WriteString(offending)
	b.WriteString("\n\nFailure: ")
	b.WriteString(failure.Error())
	b.WriteString("\n\nReturn JSON only, matching this schema exactly:\n")
	b.Write(shapeJSON)
	return b.String()
}

// renderPrompt walks prompt's parts in order, appending literal text
// verbatim and, for each interpolation, either discovering a function
// value as a tool (inserting its chosen name) or serializing a
// non-function value to canonical JSON. For a typed assignment, a
// closing JSON-output envelope is appended describing targetSchema.
func (e *Evaluator) renderPrompt(ctx context.Context, prompt *ast.PromptExpr, env *value.Env, typed bool, targetSchema ast.SchemaExpr) (string, map[string]value.Function, []provider.ToolDescriptor, error) {
	var out strings.Builder
	tools := map[string]value.Function{}
	used := map[string]bool{}
	var toolDescs []provider.ToolDescriptor
	counter := 1

	for _, part := range prompt.Parts {
		if part.Expr == nil {
			out.WriteString(part.Text)
			continue
		}

		v, err := e.evalExpr(ctx, part.Expr, env)
		if err != nil {
			return "", nil, nil, err
		}

		fn, isFunc := v.(value.Function)
		if !isFunc {
			js, err := value.ToJSON(v)
			if err != nil {
				return "", nil, nil, err
			}
			out.WriteString(js)
			continue
		}

		name := ""
		if ident, ok := part.Expr.(*ast.Ident); ok {
			name = ident.Name
		}
		if name == "" || used[name] {
			for {
				candidate := fmt.Sprintf("tool_%d", counter)
				counter++
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		tools[name] = fn
		toolDescs = append(toolDescs, provider.ToolDescriptor{
			Name:       name,
			Parameters: buildToolParamsShape(fn.Params()),
		})
		out.WriteString(name)
	}

	rendered := out.String()
	if typed {
		shapeJSON, _ := json.Marshal(schema.Project(targetSchema))
		rendered += "\n\nRespond with JSON only, matching this schema exactly (no prose, no markdown fences):\n" + string(shapeJSON)
	}
	return rendered, tools, toolDescs, nil
}

func buildToolParamsShape(params []value.FuncParam) *schema.JSONShape {
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

// runToolLoop drives the provider round-trip loop: FinalText ends it,
// ToolCalls dispatches each call (subject to Gate) and accumulates
// tool_results for the next round. Returns the final text plus the
// tool_results accumulated, so a subsequent repair request (typed prompts
// only) can carry them forward per spec.md §4.6.
func (e *Evaluator) runToolLoop(ctx context.Context, prompt string, tools map[string]value.Function, toolDescs []provider.ToolDescriptor, sp ast.Span) (string, []provider.ToolResult, error) {
	var toolResults []provider.ToolResult
	rounds := 0
	totalCalls := 0

	for {
		if rounds >= e.MaxToolRounds {
			return "", nil, e.newErr("runtime", errors.ErrToolRoundsLimit, errors.GetErrorMessage(errors.ErrToolRoundsLimit), sp)
		}

		req := provider.NewPromptRequest(prompt, toolDescs, toolResults)
		resp, err := e.Provider.Complete(ctx, req)
		rounds++
		if e.OnRound != nil {
			e.OnRound(rounds, e.MaxToolRounds)
		}
		if err != nil {
			return "", nil, e.newErr("provider", errors.ErrProviderTransport, err.Error(), sp)
		}
		if !resp.IsToolCalls {
			return resp.Text, toolResults, nil
		}

		e.Logger.Debug("provider requested tool calls", zap.Int("round", rounds), zap.Int("count", len(resp.Calls)))

		for _, call := range resp.Calls {
			if totalCalls >= e.MaxToolCalls {
				return "", nil, e.newErr("runtime", errors.ErrToolCallsLimit, errors.GetErrorMessage(errors.ErrToolCallsLimit), sp)
			}
			totalCalls++

			if e.Gate != nil && !e.gateAllows(call) {
				e.Logger.Debug("tool call rejected by gate", zap.String("tool", call.Name))
				toolResults = append(toolResults, provider.ToolResult{
					CallID:     call.ID,
					Name:       call.Name,
					ResultJSON: toolErrorJSON("tool call rejected"),
				})
				continue
			}

			resultJSON := e.dispatchCall(ctx, tools, call, sp)
			e.Logger.Debug("tool call dispatched", zap.String("tool", call.Name), zap.String("result", resultJSON))
			toolResults = append(toolResults, provider.ToolResult{CallID: call.ID, Name: call.Name, ResultJSON: resultJSON})
		}
	}
}

func (e *Evaluator) gateAllows(call provider.ToolCall) bool {
	argsMap := map[string]value.Value{}
	if argsVal, err := value.FromJSON([]byte(call.ArgumentsRaw)); err == nil {
		if obj, ok := argsVal.(*value.Object); ok {
			argsMap = obj.Fields
		}
	}
	return e.Gate(call.Name, argsMap)
}

// dispatchCall resolves call against the tools discovered for this prompt,
// decodes and validates its arguments, and invokes the function through
// the evaluator. Every failure mode — unknown name, undecodable or
// schema-mismatched arguments, or an error from the call itself — becomes
// an `{"error": "..."}` tool-result string rather than aborting the loop,
// per spec.md §4.6.
func (e *Evaluator) dispatchCall(ctx context.Context, tools map[string]value.Function, call provider.ToolCall, sp ast.Span) string {
	fn, ok := tools[call.Name]
	if !ok {
		return toolErrorJSON(fmt.Sprintf("unknown tool %q", call.Name))
	}

	argsVal, err := value.FromJSON([]byte(call.ArgumentsRaw))
	if err != nil {
		return toolErrorJSON(fmt.Sprintf("invalid arguments JSON: %v", err))
	}
	obj, ok := argsVal.(*value.Object)
	if !ok {
		return toolErrorJSON("tool arguments must be a JSON object")
	}

	params := fn.Params()
	args := make([]value.Value, len(params))
	for i, p := range params {
		v, ok := obj.Fields[p.Name]
		if !ok {
			v = value.NilValue
		}
		args[i] = v
	}

	result, err := e.callFunction(ctx, fn, args, sp)
	if err != nil {
		return toolErrorJSON(err.Error())
	}
	resultJSON, err := value.ToJSON(result)
	if err != nil {
		return toolErrorJSON(err.Error())
	}
	return resultJSON
}

func toolErrorJSON(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
