package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reelpilot/domain/repository"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
)

// NewRedisClient builds the shared Redis client from configuration. Callers
// must tolerate a nil return when Redis is unreachable; OAuth connect flows
// degrade, everything else keeps working.
func NewRedisClient(ctx context.Context) *redis.Client {
	cfg := configuration.C.RedisClient
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil
	}
	return client
}

// OAuthStateStore keeps in-flight OAuth handshake states in Redis with a TTL.
// States survive restarts and are shared across instances, and Consume deletes
// atomically so a state token can never be redeemed twice.
type OAuthStateStore struct {
	client *redis.Client
}

func NewOAuthStateStore(client *redis.Client) repository.IOAuthState {
	return &OAuthStateStore{client: client}
}

func stateKey(state string) string { return "oauth_state:" + state }

func (s *OAuthStateStore) Put(ctx context.Context, state string, payload repository.OAuthState, ttl time.Duration) error {
	if s.client == nil {
		return fmt.Errorf("oauth state store unavailable")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stateKey(state), data, ttl).Err()
}

func (s *OAuthStateStore) Consume(ctx context.Context, state string) (*repository.OAuthState, error) {
	if s.client == nil {
		return nil, fmt.Errorf("oauth state store unavailable")
	}
	data, err := s.client.GetDel(ctx, stateKey(state)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	payload := &repository.OAuthState{}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
