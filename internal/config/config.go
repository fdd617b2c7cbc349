// Package config defines service configuration structures and loading.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// FeedAddr configures the TCP listen address for the line-delimited
	// JSON event feed. Empty disables the socket feed.
	FeedAddr string `koanf:"feed_addr"`

	// Kafka feed settings. The reader is only started when brokers are
	// configured.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
	KafkaGroup   string   `koanf:"kafka_group"`

	// WorkerCount sets the number of aggregation workers; records hash
	// onto workers by player key.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds each worker's record queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the state store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// PlayersCSV and TeamsCSV point at the reference tables. Empty paths
	// skip seeding; players first seen in the stream are created on use.
	PlayersCSV string `koanf:"players_csv"`
	TeamsCSV   string `koanf:"teams_csv"`

	// ExportPath is the SQLite file snapshots are exported to at match
	// boundaries and on shutdown. Empty disables the exporter.
	ExportPath string `koanf:"export_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		FeedAddr:            ":6100",
		KafkaTopic:          "match-events",
		KafkaGroup:          "pitchpulse",
		WorkerCount:         runtime.NumCPU() * 2,
		QueueSize:           10_000,
		DedupeSize:          500_000,
		ShardCount:          16,
		MaxLeaderboardLimit: 100,
	}
}
