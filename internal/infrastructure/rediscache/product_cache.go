// Package rediscache: decorador read-through de caché Redis sobre el
// repositorio de catálogo APL. Solo cachea GetByUPC, la consulta caliente
// del flujo de escaneo; listados e import pasan directo a PostgreSQL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

const productKeyPrefix = "apl:upc:"

var _ repository.ProductRepository = (*ProductCache)(nil)

// ProductCache envuelve un ProductRepository con caché Redis por UPC.
// Un fallo de Redis nunca es fatal: se loguea y se cae al repositorio interno.
type ProductCache struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New construye el decorador.
func New(inner repository.ProductRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *ProductCache {
	return &ProductCache{inner: inner, client: client, ttl: ttl, log: log.Component("apl-cache")}
}

// GetByUPC intenta la caché y cae al repositorio interno en miss o error.
// Los negativos (UPC ausente) no se cachean: la APL cambia con los imports.
func (c *ProductCache) GetByUPC(ctx context.Context, upc string) (*entity.Product, error) {
	key := productKeyPrefix + upc
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var p entity.Product
		if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
			return &p, nil
		}
		// Entrada corrupta: se descarta y se repuebla desde el origen.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("upc", upc).Msg("caché no disponible, consultando origen")
	}

	p, err := c.inner.GetByUPC(ctx, upc)
	if err != nil || p == nil {
		return p, err
	}
	if payload, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("upc", upc).Msg("no se pudo poblar la caché")
		}
	}
	return p, nil
}

// ListByCategory pasa directo al repositorio interno.
func (c *ProductCache) ListByCategory(ctx context.Context, category string, eligibleOnly bool, limit int) ([]*entity.Product, error) {
	return c.inner.ListByCategory(ctx, category, eligibleOnly, limit)
}

// Upsert escribe en el origen e invalida la entrada cacheada del UPC.
func (c *ProductCache) Upsert(ctx context.Context, p *entity.Product) error {
	if err := c.inner.Upsert(ctx, p); err != nil {
		return err
	}
	if err := c.client.Del(ctx, productKeyPrefix+p.UPC).Err(); err != nil {
		c.log.Warn().Err(err).Str("upc", p.UPC).Msg("no se pudo invalidar la caché")
	}
	return nil
}

// Count pasa directo al repositorio interno.
func (c *ProductCache) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}
