package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Elasticsearch.Addresses == "" {
		return fmt.Errorf("elasticsearch.addresses is required")
	}
	if c.Elasticsearch.Index == "" {
		return fmt.Errorf("elasticsearch.index is required")
	}
	if c.Kafka.Brokers == "" {
		return fmt.Errorf("kafka.brokers is required")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("kafka.group_id is required")
	}
	if c.Kafka.ConnectPrefix == "" {
		return fmt.Errorf("kafka.connect_prefix is required")
	}
	if c.Kafka.MaxRetries < 0 {
		return fmt.Errorf("kafka.max_retries must be >= 0 (got %d)", c.Kafka.MaxRetries)
	}
	if c.Kafka.RetryDelay < 0 {
		return fmt.Errorf("kafka.retry_delay must be >= 0 (got %v)", c.Kafka.RetryDelay)
	}
	return nil
}
