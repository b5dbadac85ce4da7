package es

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"

	"github.com/flixhub/catalog-search/internal/config"
)

// NewClient connects to the document store and verifies the connection
// with a bounded exponential-backoff ping, so startup survives the store
// coming up a few seconds later than the service.
func NewClient(ctx context.Context, cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: strings.Split(cfg.Addresses, ","),
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	ping := func() error {
		res, err := client.Ping(client.Ping.WithContext(ctx))
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("ping status %d", res.StatusCode)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout

	if err := backoff.Retry(ping, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("es: ping %s: %w", cfg.Addresses, err)
	}
	return client, nil
}
