package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/aggregator/base/ctx"
)

// Forever marks a key without expiration
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = redis.ErrNil
	// ErrNoTTL is returned by TTL when the key has no associated expire
	ErrNoTTL = errors.New("redis: key without ttl")
	// ErrGapTime is returned when no pool can serve the command
	ErrGapTime = errors.New("redis: no pool available")
)

// Service is the redis surface the codebase builds on. Caching, paged
// snapshots and distributed locks all go through it.
type Service interface {
	Get(context ctx.Ctx, key string) (val []byte, err error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX is the lock primitive, it fails with ErrNotFound when the key
	// is already held
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	TTL(context ctx.Ctx, key string) (int, error)
	GetConn() (redis.Conn, error)
}
