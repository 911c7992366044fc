package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-taskhub/taskhub/internal/engine/consts"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/redis/go-redis/v9"
)

type ITokenRepository interface {
	SetTokenInfo(ctx context.Context, userId string, info *model.TokenInfo, ttl time.Duration) error
	GetTokenInfo(ctx context.Context, userId string) (*model.TokenInfo, error)
	DelTokenInfo(ctx context.Context, userId string) error
}

// TokenRepo stores issued token pairs in Redis keyed by user id. The
// authorization middleware treats a missing key as a logged-out session.
type TokenRepo struct {
	cache *redis.Client
}

func NewTokenRepo(cache *redis.Client) ITokenRepository {
	return &TokenRepo{cache: cache}
}

func (r *TokenRepo) SetTokenInfo(ctx context.Context, userId string, info *model.TokenInfo, ttl time.Duration) error {
	data, err := sonic.MarshalString(info)
	if err != nil {
		return fmt.Errorf("marshal token info: %w", err)
	}
	key := consts.UserTokenKey + userId
	if err := r.cache.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set token in redis: %w", err)
	}
	return nil
}

func (r *TokenRepo) GetTokenInfo(ctx context.Context, userId string) (*model.TokenInfo, error) {
	key := consts.UserTokenKey + userId
	data, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var info model.TokenInfo
	if err := sonic.UnmarshalString(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshal token info: %w", err)
	}
	return &info, nil
}

func (r *TokenRepo) DelTokenInfo(ctx context.Context, userId string) error {
	return r.cache.Del(ctx, consts.UserTokenKey+userId).Err()
}
