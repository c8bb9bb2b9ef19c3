// Package cache implementa ports.PermissionCache en proceso (LRU con expiración) y sobre Redis.
package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/Gestor-api/internal/application/ports"
)

var _ ports.PermissionCache = (*LRUCache)(nil)

// LRUCache caché en memoria del proceso; cada réplica tiene la suya.
type LRUCache struct {
	cache *lru.LRU[string, ports.CachedPermissions]
}

// NewLRU crea la caché con size entradas como máximo y expiración ttl.
func NewLRU(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 1024
	}
	return &LRUCache{cache: lru.NewLRU[string, ports.CachedPermissions](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key ports.PermissionKey) (ports.CachedPermissions, bool, error) {
	v, ok := c.cache.Get(key.String())
	return v, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key ports.PermissionKey, value ports.CachedPermissions) error {
	c.cache.Add(key.String(), value)
	return nil
}

// InvalidateUser borra las dos variantes (director o no) del usuario.
func (c *LRUCache) InvalidateUser(_ context.Context, tenantID, userID string) error {
	for _, director := range []bool{false, true} {
		c.cache.Remove(ports.PermissionKey{TenantID: tenantID, UserID: userID, Director: director}.String())
	}
	return nil
}

// InvalidateTenant recorre las claves vivas y borra las del tenant.
func (c *LRUCache) InvalidateTenant(_ context.Context, tenantID string) error {
	prefix := ports.TenantKeyPrefix(tenantID) + ":"
	for _, k := range c.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Remove(k)
		}
	}
	return nil
}
