package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// RegisterRedisPoolMetrics exposes go-redis connection pool statistics as
// Prometheus gauges on reg.
func RegisterRedisPoolMetrics(reg prometheus.Registerer, client *redis.Client) {
	gauge := func(name, help string, value func(*redis.PoolStats) uint32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: name,
			Help: help,
		}, func() float64 {
			return float64(value(client.PoolStats()))
		})
	}

	reg.MustRegister(
		gauge("redis_pool_total_conns", "Total number of connections in the pool",
			func(s *redis.PoolStats) uint32 { return s.TotalConns }),
		gauge("redis_pool_idle_conns", "Number of idle connections in the pool",
			func(s *redis.PoolStats) uint32 { return s.IdleConns }),
		gauge("redis_pool_stale_conns", "Number of stale connections removed from the pool",
			func(s *redis.PoolStats) uint32 { return s.StaleConns }),
		gauge("redis_pool_hits", "Number of times a free connection was found in the pool",
			func(s *redis.PoolStats) uint32 { return s.Hits }),
		gauge("redis_pool_misses", "Number of times a free connection was not found in the pool",
			func(s *redis.PoolStats) uint32 { return s.Misses }),
		gauge("redis_pool_timeouts", "Number of times a wait timeout occurred",
			func(s *redis.PoolStats) uint32 { return s.Timeouts }),
	)
}
