// Package session guarda a época de sessão usada para invalidar todos os tokens emitidos
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/store-leaderboard-api/internal/config"
)

// Store expõe a época de sessão vigente. Tokens emitidos em épocas anteriores são inválidos.
type Store interface {
	CurrentEpoch(ctx context.Context) (int64, error)
	RevokeAll(ctx context.Context) (int64, error)
}

type redisStore struct {
	client *redis.Client
	key    string
}

// NewRedisClient cria o cliente e valida a conexão
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: ping: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, key string) Store {
	return &redisStore{
		client: client,
		key:    key,
	}
}

func (s *redisStore) CurrentEpoch(ctx context.Context) (int64, error) {
	epoch, err := s.client.Get(ctx, s.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("session: get epoch: %w", err)
	}
	return epoch, nil
}

// RevokeAll avança a época, deslogando todos os usuários
func (s *redisStore) RevokeAll(ctx context.Context) (int64, error) {
	epoch, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("session: incr epoch: %w", err)
	}
	return epoch, nil
}
