package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const keyPrefix = "storefront:checkout:"

// DefaultGuardTTL bounds how long a crashed checkout can block its session.
const DefaultGuardTTL = time.Minute

var _ ports.CheckoutGuard = (*CheckoutGuard)(nil)

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutGuard is a per-session lock shared by every API replica.
type CheckoutGuard struct {
	rdb goredis.UniversalClient
	ttl time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewCheckoutGuard wires a Redis-backed guard. A non-positive ttl selects DefaultGuardTTL.
func NewCheckoutGuard(rdb goredis.UniversalClient, ttl time.Duration) *CheckoutGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &CheckoutGuard{rdb: rdb, ttl: ttl, tokens: map[string]string{}}
}

// Acquire sets the session key if absent. It returns false when another checkout holds it.
func (g *CheckoutGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, keyPrefix+sessionID, token, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return false, nil
	}
	g.mu.Lock()
	g.tokens[sessionID] = token
	g.mu.Unlock()
	return true, nil
}

// Release deletes the session key only if this guard still owns it.
func (g *CheckoutGuard) Release(ctx context.Context, sessionID string) error {
	g.mu.Lock()
	token, ok := g.tokens[sessionID]
	delete(g.tokens, sessionID)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	if err := releaseScript.Run(ctx, g.rdb, []string{keyPrefix + sessionID}, token).Err(); err != nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}
