package repository

type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to the sharded store.
type Option func(*storeConfig)

// WithShardCount sets the number of hash shards. Values below one fall back
// to the default.
func WithShardCount(n int) Option {
	return func(c *storeConfig) {
		if n > 0 {
			c.shardCount = n
		}
	}
}
