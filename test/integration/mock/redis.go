//go:build integration

package mock

import (
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis pairs an in-process miniredis server with a client connected to it.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis returns the process-wide test Redis, starting it on first use.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisMock = &Redis{
			Server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return redisMock
}

// Clear drops every key.
func (r *Redis) Clear() {
	r.Server.FlushAll()
}
