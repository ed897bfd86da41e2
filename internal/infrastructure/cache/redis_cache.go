// Package cache implementa el read-model de licencias sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/application/license"
)

const (
	keyPrefix  = "hse:license:"
	defaultTTL = 5 * time.Minute
	genTTL     = 24 * time.Hour
)

// NewClient abre la conexión a partir de una URL redis:// y verifica con PING.
// URL vacía = caché deshabilitada (nil, nil).
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Ensure LicenseCache implements license.Cache.
var _ license.Cache = (*LicenseCache)(nil)

// LicenseCache guarda la respuesta serializada de cada licencia con TTL. Las banderas derivadas
// (is_expired, is_expiring, advertencias) pueden quedar desfasadas como máximo un TTL.
type LicenseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLicenseCache construye la caché; ttl <= 0 usa 5 minutos.
func NewLicenseCache(client *redis.Client, ttl time.Duration) *LicenseCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &LicenseCache{client: client, ttl: ttl}
}

func key(companyID string, id int64) string {
	return keyPrefix + companyID + ":" + strconv.FormatInt(id, 10)
}

func genKey(companyID string, id int64) string {
	return keyPrefix + "gen:" + companyID + ":" + strconv.FormatInt(id, 10)
}

// setIfGen escribe KEYS[1] solo si la generación KEYS[2] sigue valiendo ARGV[1] (ausente = 0).
var setIfGen = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Get devuelve (nil, gen, nil) si la entrada no existe; gen es la generación vigente.
func (c *LicenseCache) Get(ctx context.Context, companyID string, id int64) (*dto.LicenseResponse, int64, error) {
	vals, err := c.client.MGet(ctx, key(companyID, id), genKey(companyID, id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis mget: %w", err)
	}
	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("decode cache generation: %w", err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var resp dto.LicenseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Entrada corrupta: se descarta para que la próxima lectura la regenere.
		_ = c.client.Del(ctx, key(companyID, id)).Err()
		return nil, gen, fmt.Errorf("decode cached license: %w", err)
	}
	return &resp, gen, nil
}

// Set guarda la respuesta con el TTL configurado si no hubo invalidación desde la lectura gen.
func (c *LicenseCache) Set(ctx context.Context, companyID string, id int64, gen int64, resp *dto.LicenseResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode license: %w", err)
	}
	keys := []string{key(companyID, id), genKey(companyID, id)}
	err = setIfGen.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate incrementa la generación y elimina la entrada tras un cambio confirmado.
// La generación vive más que cualquier entrada para que un Set rezagado la encuentre.
func (c *LicenseCache) Invalidate(ctx context.Context, companyID string, id int64) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(companyID, id))
		p.Expire(ctx, genKey(companyID, id), genTTL)
		p.Del(ctx, key(companyID, id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
