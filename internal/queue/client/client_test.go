package client

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/internal/cache"
	"github.com/btech-hub/backend/internal/config"
)

func TestRedisOptions(t *testing.T) {
	var cfg config.Cache
	cfg.Type = cache.RedisTypeSingle
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.PoolSize = 5

	opts, ok := RedisOptions(cfg).(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 5, opts.PoolSize)

	cfg.Type = cache.RedisTypeCluster
	cfg.RedisCluster.Addresses = []string{"10.0.0.1:7000", "10.0.0.2:7001"}

	clusterOpts, ok := RedisOptions(cfg).(asynq.RedisClusterClientOpt)
	require.True(t, ok)
	assert.Equal(t, []string{"10.0.0.1:7000", "10.0.0.2:7001"}, clusterOpts.Addrs)
}
