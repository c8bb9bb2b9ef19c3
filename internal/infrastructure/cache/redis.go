package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Gestor-api/internal/application/ports"
)

var _ ports.PermissionCache = (*RedisCache)(nil)

// NewRedisClient crea y valida la conexión go-redis desde una URL redis://.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisCache caché compartida entre réplicas; valores JSON con TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis construye la caché sobre un cliente ya conectado.
func NewRedis(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key ports.PermissionKey) (ports.CachedPermissions, bool, error) {
	var out ports.CachedPermissions
	raw, err := c.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		// Entrada corrupta: se trata como miss y se sobrescribe en el próximo Set.
		return ports.CachedPermissions{}, false, fmt.Errorf("decodificar permisos en caché: %w", err)
	}
	return out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key ports.PermissionKey, value ports.CachedPermissions) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key.String(), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateUser(ctx context.Context, tenantID, userID string) error {
	keys := []string{
		ports.PermissionKey{TenantID: tenantID, UserID: userID, Director: false}.String(),
		ports.PermissionKey{TenantID: tenantID, UserID: userID, Director: true}.String(),
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidateTenant usa SCAN (no KEYS) para no bloquear el servidor.
func (c *RedisCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	iter := c.rdb.Scan(ctx, 0, ports.TenantKeyPrefix(tenantID)+":*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}
