package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct{}

func (echoProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return "echo: " + req.Message, nil
}

func newTestCache(maxSize int) *SessionCache {
	cache := NewSessionCache(maxSize, echoProvider{}, DefaultSessionOptions())
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return cache
}

func TestSessionCacheReturnsSameSession(t *testing.T) {
	cache := newTestCache(4)

	a := cache.GetSession("a")
	assert.Same(t, a, cache.GetSession("a"))
	assert.Equal(t, "a", a.ID())
	assert.Equal(t, 1, cache.Len())
}

func TestSessionCacheDefaultSession(t *testing.T) {
	cache := newTestCache(4)

	s := cache.GetSession("")
	assert.Equal(t, DefaultSessionID, s.ID())
	assert.Same(t, s, cache.GetSession(DefaultSessionID))
}

func TestSessionCacheIsolatesSessions(t *testing.T) {
	cache := newTestCache(4)

	_, err := cache.GetSession("a").Chat(context.Background(), Request{Message: "hello from a"})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.GetSession("a").Len())
	assert.Equal(t, 0, cache.GetSession("b").Len())
}

func TestSessionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newTestCache(2)

	a := cache.GetSession("a")
	cache.GetSession("b")
	cache.GetSession("a")
	cache.GetSession("c")

	assert.Equal(t, 2, cache.Len())

	_, ok := cache.LookupSession("b")
	assert.False(t, ok)

	got, ok := cache.LookupSession("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = cache.LookupSession("c")
	assert.True(t, ok)
}

func TestSessionCacheDelete(t *testing.T) {
	cache := newTestCache(2)

	first := cache.GetSession("a")
	cache.DeleteSession("a")
	assert.Equal(t, 0, cache.Len())
	assert.NotSame(t, first, cache.GetSession("a"))
}

func TestSessionCacheKeepsDefaultSession(t *testing.T) {
	cache := newTestCache(4)

	shared := cache.GetSession("")
	_, err := shared.Chat(context.Background(), Request{Message: "When should I plant rice?"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		cache.GetSession(uuid.New().String())
	}

	got, ok := cache.LookupSession("")
	require.True(t, ok)
	assert.Same(t, shared, got)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 5, cache.Len())
}

func TestSessionCacheDeleteDefaultClearsHistory(t *testing.T) {
	cache := newTestCache(2)

	shared := cache.GetSession("")
	_, err := shared.Chat(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)

	cache.DeleteSession("")

	got, ok := cache.LookupSession(DefaultSessionID)
	require.True(t, ok)
	assert.Same(t, shared, got)
	assert.Equal(t, 0, got.Len())
}

func TestHistoryEvictsInPairs(t *testing.T) {
	h := NewHistory(3)
	h.AppendExchange("u1", "m1")
	h.AppendExchange("u2", "m2")
	h.AppendExchange("u3", "m3")

	assert.Equal(t, []Turn{
		{Role: RoleUser, Text: "u2"},
		{Role: RoleModel, Text: "m2"},
		{Role: RoleUser, Text: "u3"},
		{Role: RoleModel, Text: "m3"},
	}, h.Turns())
}

func TestHistoryUnbounded(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 100; i++ {
		h.AppendExchange("u", "m")
	}
	assert.Equal(t, 200, h.Len())

	turns := h.Turns()
	turns[0].Text = "changed"
	assert.Equal(t, "u", h.Turns()[0].Text)
}
