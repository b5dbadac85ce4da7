package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/flixhub/catalog-search/internal/config"
	"github.com/flixhub/catalog-search/internal/domain"
	"github.com/flixhub/catalog-search/pkg/ctxutil"
)

type publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers []kafkago.Header) error
}

type payloadDecoder interface {
	Decode(value []byte) ([]byte, error)
}

// messageReader is the slice of kafka-go's Reader the consume loop uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer runs one consumer-group loop per registered topic, plus loops
// for each topic's delay-retry tiers. Within a loop messages are handled
// strictly in order, which together with id-keyed partitioning gives
// per-aggregate ordering; there is no ordering across partitions.
//
// Error policy: terminal errors (validation, not-found) commit the offset
// and move on; retriable errors republish to the next delay topic with a
// bumped attempt counter, and exhausted messages park in the dead-letter
// topic.
type Consumer struct {
	groupID    string
	router     *Router
	decoder    payloadDecoder
	producer   publisher
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger

	newReader func(topic string) messageReader
}

// NewConsumer creates a Consumer over the statically registered routes.
func NewConsumer(cfg config.KafkaConfig, router *Router, decoder payloadDecoder, producer publisher, log *slog.Logger) *Consumer {
	brokers := strings.Split(cfg.Brokers, ",")
	return &Consumer{
		groupID:    cfg.GroupID,
		router:     router,
		decoder:    decoder,
		producer:   producer,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log.With("adapter", "kafka"),
		newReader: func(topic string) messageReader {
			return kafkago.NewReader(kafkago.ReaderConfig{
				Brokers:  brokers,
				GroupID:  cfg.GroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10 << 20,
				MaxWait:  time.Second,
			})
		},
	}
}

// Run consumes until ctx is cancelled. It returns after every reader has
// been closed, so callers can safely tear down the producer afterwards.
func (c *Consumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, topic := range c.router.Topics() {
		topics := []string{topic}
		for attempt := 1; attempt <= c.maxRetries; attempt++ {
			topics = append(topics, retryTopic(topic, attempt))
		}
		for _, t := range topics {
			t := t
			g.Go(func() error { return c.consumeLoop(ctx, t) })
		}
	}

	return g.Wait()
}

func (c *Consumer) consumeLoop(ctx context.Context, topic string) error {
	reader := c.newReader(topic)
	defer reader.Close()

	log := c.log.With(slog.String("topic", topic))
	log.InfoContext(ctx, "consumer started", slog.String("group", c.groupID))

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0 // keep retrying fetches until shutdown

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.InfoContext(ctx, "consumer stopped")
				return nil
			}
			wait := policy.NextBackOff()
			log.ErrorContext(ctx, "fetch failed",
				slog.String("error", err.Error()),
				slog.Duration("backoff", wait),
			)
			if !sleepCtx(ctx, wait) {
				return nil
			}
			continue
		}
		policy.Reset()

		if err := c.handle(ctx, msg); err != nil {
			// Republish failed; leave the offset uncommitted so the
			// broker redelivers the original message.
			log.ErrorContext(ctx, "redeliver via broker",
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.ErrorContext(ctx, "commit failed", slog.String("error", err.Error()))
		}
	}
}

// handle processes one message. A nil return means the offset may be
// committed: the message was handled, parked, or deliberately discarded.
func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	if attempt := retryAttempt(msg.Topic); attempt > 0 {
		if err := c.waitRetryDelay(ctx, msg.Time, attempt); err != nil {
			return err
		}
	}

	log := c.log.With(
		slog.String("topic", msg.Topic),
		slog.Int64("offset", msg.Offset),
		slog.Int("partition", msg.Partition),
	)

	ctx = ctxutil.WithTopic(ctx, msg.Topic)
	ctx = ctxutil.WithMessageKey(ctx, string(msg.Key))

	value, err := c.decoder.Decode(msg.Value)
	if err != nil {
		return c.retryOrPark(ctx, msg, err)
	}

	handler, ok := c.router.Lookup(msg.Topic)
	if !ok {
		log.WarnContext(ctx, "no handler registered, discarding")
		return nil
	}

	err = handler(ctx, value)
	switch {
	case err == nil:
		return nil
	case domain.IsRetriable(err):
		return c.retryOrPark(ctx, msg, err)
	default:
		// Terminal: validation failures and their kin never heal on
		// redelivery. Log loudly and commit.
		log.ErrorContext(ctx, "message discarded", slog.String("error", err.Error()))
		return nil
	}
}

// retryOrPark republishes a retriably-failed message to its next delay
// tier, or to the dead-letter topic once attempts are exhausted.
func (c *Consumer) retryOrPark(ctx context.Context, msg kafkago.Message, cause error) error {
	base := baseTopic(msg.Topic)
	attempt := retryAttempt(msg.Topic) + 1

	headers := []kafkago.Header{
		{Key: attemptHeader, Value: []byte(strconv.Itoa(attempt))},
		{Key: originalHeader, Value: []byte(base)},
		{Key: lastErrHeader, Value: []byte(cause.Error())},
	}

	target := retryTopic(base, attempt)
	if attempt > c.maxRetries {
		target = deadLetterTopic(base)
		c.log.ErrorContext(ctx, "retries exhausted, dead-lettering",
			slog.String("topic", base),
			slog.Int("attempts", attempt-1),
			slog.String("error", cause.Error()),
		)
	} else {
		c.log.WarnContext(ctx, "scheduling retry",
			slog.String("topic", base),
			slog.Int("attempt", attempt),
			slog.String("error", cause.Error()),
		)
	}

	return c.producer.Publish(ctx, target, msg.Key, msg.Value, headers)
}

// waitRetryDelay holds a retry-tier message until its delay has elapsed
// since publication. Delay grows linearly with the attempt number.
func (c *Consumer) waitRetryDelay(ctx context.Context, published time.Time, attempt int) error {
	due := published.Add(c.retryDelay * time.Duration(attempt))
	wait := time.Until(due)
	if wait <= 0 {
		return nil
	}
	if !sleepCtx(ctx, wait) {
		return ctx.Err()
	}
	return nil
}

// sleepCtx sleeps for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
