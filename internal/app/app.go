package app

import (
	"context"
	"log/slog"

	"github.com/flixhub/catalog-search/internal/adapter/es"
	"github.com/flixhub/catalog-search/internal/adapter/kafka"
	"github.com/flixhub/catalog-search/internal/config"
	"github.com/flixhub/catalog-search/internal/service/catalog"
	"github.com/flixhub/catalog-search/internal/transport/cdc"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, connects to Elasticsearch, wires the catalog services to
// their change-event handlers, and consumes until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := NewLogger(cfg.Log)

	log.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	client, err := es.NewClient(ctx, cfg.Elasticsearch)
	if err != nil {
		return err
	}
	if err := es.EnsureIndex(ctx, client, cfg.Elasticsearch.Index); err != nil {
		return err
	}

	index := cfg.Elasticsearch.Index
	refresh := cfg.Elasticsearch.Refresh

	categories := es.NewCategoryRepo(client, index, refresh, log)
	genres := es.NewGenreRepo(client, index, refresh, log)
	castMembers := es.NewCastMemberRepo(client, index, refresh, log)
	videos := es.NewVideoRepo(client, index, refresh, log)

	resolver := catalog.NewResolver(categories, genres, castMembers)

	categorySvc := catalog.NewCategoryService(log, categories)
	genreSvc := catalog.NewGenreService(log, genres, resolver)
	castMemberSvc := catalog.NewCastMemberService(log, castMembers)
	videoSvc := catalog.NewVideoService(log, videos, resolver)

	prefix := cfg.Kafka.ConnectPrefix
	router := kafka.NewRouter().
		Register(kafka.TopicName(prefix, "categories"),
			kafka.HandlerFunc(cdc.NewCategoryHandler(log, categorySvc))).
		Register(kafka.TopicName(prefix, "genres"),
			kafka.HandlerFunc(cdc.NewGenreHandler(log, genreSvc))).
		Register(kafka.TopicName(prefix, "cast_members"),
			kafka.HandlerFunc(cdc.NewCastMemberHandler(log, castMemberSvc))).
		Register(kafka.TopicName(prefix, "videos"),
			kafka.HandlerFunc(cdc.NewVideoHandler(log, videoSvc))).
		Register(cfg.Kafka.VideosAggregateTopic,
			kafka.HandlerFunc(cdc.NewVideoAggregateHandler(log, videoSvc)))

	decoder := kafka.NewDecoder(cfg.Kafka.SchemaRegistryURL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka, router, decoder, producer, log)

	// Run returns only after every reader is closed, so closing the
	// producer afterwards (via defer) is safe.
	if err := consumer.Run(ctx); err != nil {
		return err
	}

	log.Info("application stopped")
	return nil
}
