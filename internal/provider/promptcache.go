package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/provider/cache"
)

// PromptCache wraps any Provider with a cache keyed on a canonical hash of
// the PromptRequest, so repeated identical typed-prompt evaluations skip
// the round-trip. It is disabled (passes straight through) unless a
// backing cache.Cache is supplied.
type PromptCache struct {
	Inner  Provider
	Cache  cache.Cache
	Logger *zap.Logger
}

// NewPromptCache wraps inner with backing store c. Pass a nil c to get a
// pass-through that never caches.
func NewPromptCache(inner Provider, c cache.Cache, logger *zap.Logger) *PromptCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptCache{Inner: inner, Cache: c, Logger: logger}
}

func (p *PromptCache) Complete(ctx context.Context, req PromptRequest) (PromptResponse, error) {
	if p.Cache == nil {
		return p.Inner.Complete(ctx, req)
	}

	key, err := requestKey(req)
	if err != nil {
		return p.Inner.Complete(ctx, req)
	}

	if data, err := p.Cache.Get(ctx, key); err == nil {
		var resp PromptResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			p.Logger.Debug("prompt cache hit", zap.String("request_id", req.ID), zap.String("key", key))
			return resp, nil
		}
	}

	resp, err := p.Inner.Complete(ctx, req)
	if err != nil {
		return resp, err
	}
	if data, err := json.Marshal(resp); err == nil {
		_ = p.Cache.Set(ctx, key, data, 0)
	}
	return resp, nil
}

// Stats reports the backing cache's cumulative hit/miss counts. Returns
// the zero value when caching is disabled.
func (p *PromptCache) Stats(ctx context.Context) (cache.Stats, error) {
	if p.Cache == nil {
		return cache.Stats{}, nil
	}
	return p.Cache.Stats(ctx)
}

// requestKey canonicalizes req (prompt text, tool descriptors, and prior
// tool results — everything that determines the response) into a stable
// cache key.
func requestKey(req PromptRequest) (string, error) {
	canon := struct {
		Prompt      string           `json:"prompt"`
		Tools       []ToolDescriptor `json:"tools"`
		ToolResults []ToolResult     `json:"tool_results"`
	}{Prompt: req.Prompt, Tools: req.Tools, ToolResults: req.ToolResults}

	data, err := json.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("prompt cache: canonicalizing request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
