package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/provider/stream"
)

// StreamProvider is a network-backed provider over a streaming WebSocket
// connection (grounded on internal/provider/stream's dialer). Unlike
// HTTPProvider's single request/response, it dials out, accumulates
// streamed text and tool-call deltas, and closes the connection once the
// backend sends a "done" delta.
type StreamProvider struct {
	Endpoint string
	Header   http.Header
	Logger   *zap.Logger
}

// NewStreamProvider builds a StreamProvider dialing endpoint for each
// Complete call.
func NewStreamProvider(endpoint string, header http.Header, logger *zap.Logger) *StreamProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamProvider{Endpoint: endpoint, Header: header, Logger: logger}
}

func (p *StreamProvider) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	conn, err := stream.Dial(ctx, p.Endpoint, p.Header)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteRequest(req); err != nil {
		return PromptResponse{}, fmt.Errorf("provider: writing stream request: %w", err)
	}

	ticker := time.NewTicker(stream.PingPeriod())
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			if conn.Ping() != nil {
				return
			}
		}
	}()

	var text string
	calls := stream.NewToolCallAccumulator()
	for {
		delta, err := conn.ReadDelta()
		if err != nil {
			return PromptResponse{}, fmt.Errorf("provider: %w", err)
		}
		p.Logger.Debug("stream delta", zap.String("request_id", req.ID), zap.String("type", delta.Type))
		switch delta.Type {
		case "text_delta":
			text += delta.Text
		case "tool_call_delta":
			calls.Add(delta.CallID, delta.ToolName, delta.ArgsFragment)
		case "error":
			return PromptResponse{}, fmt.Errorf("provider: backend error: %s", delta.Error)
		case "done":
			if accumulated := calls.Calls(); len(accumulated) > 0 {
				out := make([]ToolCall, len(accumulated))
				for i, c := range accumulated {
					out[i] = ToolCall{ID: c.CallID, Name: c.Name, ArgumentsRaw: c.ArgumentsRaw}
				}
				return ToolCalls(out), nil
			}
			return FinalText(text), nil
		}
	}
}
