package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/orangensaft-lang/orangensaft/internal/provider/auth"
)

// HTTPProvider calls a JSON HTTP chat-completions-shaped endpoint. It
// supports a static API key, or, when SigningKey is set, a per-request
// signed JWT bearer token instead (internal/provider/auth/jwt.go's
// RequestSigner).
type HTTPProvider struct {
	Endpoint   string
	Model      string
	APIKey     string // static bearer token, mutually exclusive with SigningKey
	SigningKey string // HS256 secret; when set, a fresh token signs every request
	Client     *http.Client
	Logger     *zap.Logger
}

// NewHTTPProvider builds an HTTPProvider with a default HTTP client timeout.
func NewHTTPProvider(endpoint, model string, logger *zap.Logger) *HTTPProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProvider{
		Endpoint: endpoint,
		Model:    model,
		Client:   &http.Client{Timeout: 60 * time.Second},
		Logger:   logger,
	}
}

type httpRequestBody struct {
	Model       string           `json:"model"`
	Prompt      string           `json:"prompt"`
	Tools       []ToolDescriptor `json:"tools,omitempty"`
	ToolResults []ToolResult     `json:"tool_results,omitempty"`
}

type httpResponseBody struct {
	Text  string `json:"text,omitempty"`
	Calls []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ArgumentsRaw string `json:"arguments_json"`
	} `json:"tool_calls,omitempty"`
}

func (p *HTTPProvider) bearerToken(requestID string) (string, error) {
	if p.SigningKey != "" {
		signer := auth.NewRequestSigner(p.SigningKey, 5*time.Minute)
		return signer.SignRequest(requestID, "prompt:complete")
	}
	return p.APIKey, nil
}

// keyFingerprint returns a bcrypt hash prefix of the configured credential,
// used only to confirm in debug logs that a key is configured without ever
// logging the key itself.
func (p *HTTPProvider) keyFingerprint(token string) string {
	if token == "" {
		return "none"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	if err != nil {
		return "unavailable"
	}
	if len(hash) > 12 {
		return string(hash[:12])
	}
	return string(hash)
}

func (p *HTTPProvider) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	token, err := p.bearerToken(req.ID)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: signing request token: %w", err)
	}
	p.Logger.Debug("http provider request",
		zap.String("request_id", req.ID),
		zap.Int("tool_count", len(req.Tools)),
		zap.String("key_fingerprint", p.keyFingerprint(token)),
	)

	body, err := json.Marshal(httpRequestBody{Model: p.Model, Prompt: req.Prompt, Tools: req.Tools, ToolResults: req.ToolResults})
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: transport failure: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("provider: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return PromptResponse{}, fmt.Errorf("provider: backend returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed httpResponseBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return PromptResponse{}, fmt.Errorf("provider: invalid response envelope: %w", err)
	}

	if len(parsed.Calls) > 0 {
		calls := make([]ToolCall, len(parsed.Calls))
		for i, c := range parsed.Calls {
			calls[i] = ToolCall{ID: c.ID, Name: c.Name, ArgumentsRaw: c.ArgumentsRaw}
		}
		return ToolCalls(calls), nil
	}
	return FinalText(parsed.Text), nil
}
