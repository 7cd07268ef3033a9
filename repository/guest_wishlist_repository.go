package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kunalkumaramar/daadis/models"
	"github.com/redis/go-redis/v9"
)

// GuestWishlistRepository stores wishlists for unauthenticated visitors,
// keyed by a client-held guest token. It is a low-priority store: entries
// expire, and they only reach the authenticated wishlist through an explicit
// merge after login.
type GuestWishlistRepository interface {
	Get(ctx context.Context, token string) ([]models.WishlistItem, error)
	Save(ctx context.Context, token string, items []models.WishlistItem) error
	Delete(ctx context.Context, token string) error
}

type redisGuestWishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuestWishlistRepository(client *redis.Client, ttl time.Duration) GuestWishlistRepository {
	return &redisGuestWishlistRepository{client: client, ttl: ttl}
}

func (r *redisGuestWishlistRepository) getKey(token string) string {
	return fmt.Sprintf("wishlist:guest:%s", token)
}

func (r *redisGuestWishlistRepository) Get(ctx context.Context, token string) ([]models.WishlistItem, error) {
	data, err := r.client.Get(ctx, r.getKey(token)).Result()
	if err == redis.Nil {
		return []models.WishlistItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.WishlistItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *redisGuestWishlistRepository) Save(ctx context.Context, token string, items []models.WishlistItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(token), data, r.ttl).Err()
}

func (r *redisGuestWishlistRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.getKey(token)).Err()
}
