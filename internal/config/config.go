package config

import "time"

// Config is the root application configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Log           LogConfig           `yaml:"log"`
}

// ElasticsearchConfig holds document store connection settings.
type ElasticsearchConfig struct {
	Addresses      string        `yaml:"addresses"       env:"ELASTICSEARCH_ADDRESSES"       env-default:"http://localhost:9200"`
	Username       string        `yaml:"username"        env:"ELASTICSEARCH_USERNAME"`
	Password       string        `yaml:"password"        env:"ELASTICSEARCH_PASSWORD"`
	Index          string        `yaml:"index"           env:"ELASTICSEARCH_INDEX"           env-default:"catalog"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"ELASTICSEARCH_CONNECT_TIMEOUT" env-default:"30s"`
	// Refresh makes every write wait for index visibility. Read-your-write
	// at the cost of throughput; intended for tests and tooling.
	Refresh bool `yaml:"refresh" env:"ELASTICSEARCH_REFRESH" env-default:"false"`
}

// KafkaConfig holds broker consumer/producer settings.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"  env:"KAFKA_BROKERS"  env-default:"localhost:9092"`
	GroupID string `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"catalog-search"`
	// ConnectPrefix is the CDC connector topic prefix; CDC topic names are
	// derived as "{prefix}.{entity_plural}", so topic wiring is data.
	ConnectPrefix string `yaml:"connect_prefix" env:"KAFKA_CONNECT_PREFIX" env-default:"catalog_db.catalog"`
	// VideosAggregateTopic carries hand-emitted full-aggregate video saves
	// that bypass the relational CDC path.
	VideosAggregateTopic string        `yaml:"videos_aggregate_topic" env:"KAFKA_VIDEOS_AGGREGATE_TOPIC" env-default:"videos_aggregate"`
	MaxRetries           int           `yaml:"max_retries"            env:"KAFKA_MAX_RETRIES"            env-default:"3"`
	RetryDelay           time.Duration `yaml:"retry_delay"            env:"KAFKA_RETRY_DELAY"            env-default:"5s"`
	SchemaRegistryURL    string        `yaml:"schema_registry_url"    env:"KAFKA_SCHEMA_REGISTRY_URL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
