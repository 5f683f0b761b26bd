// Package stream implements the outbound WebSocket dialer StreamProvider
// uses to accumulate a streamed model response. Restructured from an
// inbound connection-hub (accepting browser clients) into a client that
// dials out to a model backend and reads a delta stream back.
package stream

import (
	"encoding/json"
	"fmt"
)

// Delta is one streamed fragment of a model response. A backend sends a
// sequence of these over one WebSocket connection; the last one has
// Type "done" (or "error").
type Delta struct {
	Type         string `json:"type"` // "text_delta", "tool_call_delta", "done", "error"
	Text         string `json:"text,omitempty"`
	CallID       string `json:"call_id,omitempty"`
	ToolName     string `json:"tool_name,omitempty"`
	ArgsFragment string `json:"args_fragment,omitempty"`
	Error        string `json:"error,omitempty"`
}

// unmarshalDelta parses one frame read off the connection.
func unmarshalDelta(data []byte) (*Delta, error) {
	var d Delta
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delta: %w", err)
	}
	return &d, nil
}

// ToolCallAccumulator assembles tool-call argument fragments by call_id as
// tool_call_delta frames arrive out of order relative to other calls.
type ToolCallAccumulator struct {
	order []string
	names map[string]string
	args  map[string]string
}

// NewToolCallAccumulator creates an empty accumulator.
func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{
		names: map[string]string{},
		args:  map[string]string{},
	}
}

// Add appends a fragment for the given call_id, recording first-seen order.
func (a *ToolCallAccumulator) Add(callID, toolName, fragment string) {
	if _, ok := a.args[callID]; !ok {
		a.order = append(a.order, callID)
		a.names[callID] = toolName
	}
	a.args[callID] += fragment
}

// AccumulatedCall is one fully assembled tool call.
type AccumulatedCall struct {
	CallID       string
	Name         string
	ArgumentsRaw string
}

// Calls returns every accumulated call in discovery order.
func (a *ToolCallAccumulator) Calls() []AccumulatedCall {
	out := make([]AccumulatedCall, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, AccumulatedCall{CallID: id, Name: a.names[id], ArgumentsRaw: a.args[id]})
	}
	return out
}
