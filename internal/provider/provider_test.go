package provider_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/orangensaft-lang/orangensaft/internal/provider"
	"github.com/orangensaft-lang/orangensaft/internal/provider/cache"
)

func TestNoopProvider_AlwaysErrors(t *testing.T) {
	_, err := provider.NoopProvider{}.Complete(context.Background(), provider.NewPromptRequest("hi", nil, nil))
	require.Error(t, err)
}

func TestHeuristicProvider_NumbersKeyword(t *testing.T) {
	resp, err := provider.HeuristicProvider{}.Complete(context.Background(), provider.NewPromptRequest("give me some numbers", nil, nil))
	require.NoError(t, err)
	require.False(t, resp.IsToolCalls)
	require.Equal(t, "[1, 2, 3]", resp.Text)
}

func TestSequenceProvider_ConsumesInOrder(t *testing.T) {
	seq := provider.NewSequenceProvider([]provider.PromptResponse{
		provider.FinalText("first"),
		provider.FinalText("second"),
	})
	r1, err := seq.Complete(context.Background(), provider.NewPromptRequest("p", nil, nil))
	require.NoError(t, err)
	require.Equal(t, "first", r1.Text)

	r2, err := seq.Complete(context.Background(), provider.NewPromptRequest("p", nil, nil))
	require.NoError(t, err)
	require.Equal(t, "second", r2.Text)

	_, err = seq.Complete(context.Background(), provider.NewPromptRequest("p", nil, nil))
	require.Error(t, err)
}

// countingProvider counts how many times Complete is actually invoked, to
// verify PromptCache skips the inner call on a hit.
type countingProvider struct {
	calls int
	resp  provider.PromptResponse
}

func (c *countingProvider) Complete(ctx context.Context, req provider.PromptRequest) (provider.PromptResponse, error) {
	c.calls++
	return c.resp, nil
}

func TestPromptCache_HitsSkipInnerProvider(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisCache := cache.NewRedisCacheWithClient(client, cache.DefaultCacheConfig())
	defer redisCache.Close()

	inner := &countingProvider{resp: provider.FinalText("cached answer")}
	cached := provider.NewPromptCache(inner, redisCache, nil)

	req := provider.NewPromptRequest("same prompt", nil, nil)
	resp1, err := cached.Complete(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "cached answer", resp1.Text)
	require.Equal(t, 1, inner.calls)

	resp2, err := cached.Complete(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "cached answer", resp2.Text)
	require.Equal(t, 1, inner.calls, "expected second identical request to hit the cache")
}

func TestPromptCache_NilCachePassesThrough(t *testing.T) {
	inner := &countingProvider{resp: provider.FinalText("x")}
	cached := provider.NewPromptCache(inner, nil, nil)

	req := provider.NewPromptRequest("same prompt", nil, nil)
	_, _ = cached.Complete(context.Background(), req)
	_, _ = cached.Complete(context.Background(), req)
	require.Equal(t, 2, inner.calls)
}
