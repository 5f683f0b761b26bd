// Package provider abstracts over model backends behind a single
// Complete operation, per spec.md §6's Provider interface.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/orangensaft-lang/orangensaft/internal/schema"
)

// ToolDescriptor describes one tool a prompt exposes to the model.
type ToolDescriptor struct {
	Name        string
	Parameters  *schema.JSONShape
	Description string
}

// ToolResult is the outcome of one tool invocation, fed back to the model
// on the next round of the loop.
type ToolResult struct {
	CallID     string
	Name       string
	ResultJSON string
}

// PromptRequest is one round-trip request to a Provider.
type PromptRequest struct {
	ID          string // correlation ID, generated per request via google/uuid
	Prompt      string
	Tools       []ToolDescriptor
	ToolResults []ToolResult
}

// NewPromptRequest builds a PromptRequest with a fresh correlation ID.
func NewPromptRequest(prompt string, tools []ToolDescriptor, results []ToolResult) PromptRequest {
	return PromptRequest{ID: uuid.NewString(), Prompt: prompt, Tools: tools, ToolResults: results}
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID           string
	Name         string
	ArgumentsRaw string // raw JSON, parsed and schema-validated by the evaluator
}

// PromptResponse is the tagged union FinalText(string) | ToolCalls([...]).
// Exactly one of Text or Calls is meaningful, selected by IsToolCalls.
type PromptResponse struct {
	IsToolCalls bool
	Text        string
	Calls       []ToolCall
}

// FinalText builds a PromptResponse carrying final model text.
func FinalText(s string) PromptResponse { return PromptResponse{Text: s} }

// ToolCalls builds a PromptResponse carrying tool invocations.
func ToolCalls(calls []ToolCall) PromptResponse {
	return PromptResponse{IsToolCalls: true, Calls: calls}
}

// Provider is the abstract model backend (spec.md §6).
type Provider interface {
	Complete(ctx context.Context, req PromptRequest) (PromptResponse, error)
}

// NoopProvider errors on any Complete call; used by `check`, which never
// needs to actually reach a model backend.
type NoopProvider struct{}

func (NoopProvider) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	return PromptResponse{}, fmt.Errorf("provider: noop provider cannot complete prompts (used by check mode)")
}

// HeuristicProvider is a deterministic rule-based mock: it sniffs keywords
// in the rendered prompt text and returns canned responses, useful for
// worked examples that don't need a real model.
type HeuristicProvider struct{}

func (HeuristicProvider) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	lower := strings.ToLower(req.Prompt)
	switch {
	case len(req.Tools) > 0 && strings.Contains(lower, "call"):
		tool := req.Tools[0]
		return ToolCalls([]ToolCall{{ID: uuid.NewString(), Name: tool.Name, ArgumentsRaw: "{}"}}), nil
	case strings.Contains(lower, "numbers") || strings.Contains(lower, "list"):
		return FinalText("[1, 2, 3]"), nil
	case strings.Contains(lower, "true") || strings.Contains(lower, "false"):
		return FinalText("true"), nil
	default:
		return FinalText(`"ok"`), nil
	}
}

// SequenceProvider consumes a pre-loaded list of responses in order; used
// by every deterministic end-to-end test.
type SequenceProvider struct {
	responses []PromptResponse
	pos       int
}

// NewSequenceProvider creates a SequenceProvider over responses, returned
// one per Complete call in order.
func NewSequenceProvider(responses []PromptResponse) *SequenceProvider {
	return &SequenceProvider{responses: responses}
}

func (s *SequenceProvider) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	if s.pos >= len(s.responses) {
		return PromptResponse{}, fmt.Errorf("provider: sequence exhausted after %d response(s)", s.pos)
	}
	resp := s.responses[s.pos]
	s.pos++
	return resp, nil
}
