// Command create-index creates the search index with its mapping if it
// does not exist yet. With --recreate it drops the index first, discarding
// every document; the upstream catalog remains the source of truth, so the
// index can be rebuilt by replaying change events.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/flixhub/catalog-search/internal/adapter/es"
	"github.com/flixhub/catalog-search/internal/app"
	"github.com/flixhub/catalog-search/internal/config"
)

func main() {
	recreateFlag := flag.Bool("recreate", false, "drop the index before creating it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := es.NewClient(ctx, cfg.Elasticsearch)
	if err != nil {
		logger.Error("connect to elasticsearch", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *recreateFlag {
		if err := es.DeleteIndex(ctx, client, cfg.Elasticsearch.Index); err != nil {
			logger.Error("delete index",
				slog.String("index", cfg.Elasticsearch.Index),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("index deleted", slog.String("index", cfg.Elasticsearch.Index))
	}

	if err := es.EnsureIndex(ctx, client, cfg.Elasticsearch.Index); err != nil {
		logger.Error("create index",
			slog.String("index", cfg.Elasticsearch.Index),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("index ready", slog.String("index", cfg.Elasticsearch.Index))
}
