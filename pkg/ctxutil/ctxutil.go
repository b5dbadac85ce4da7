// Package ctxutil carries message-scoped metadata through contexts, so
// every log line emitted while handling a change event can be correlated
// with the broker message that triggered it.
package ctxutil

import "context"

type ctxKey string

const (
	messageKeyKey ctxKey = "message_key"
	topicKey      ctxKey = "topic"
)

// WithMessageKey stores the broker message key (the aggregate id) in the
// context.
func WithMessageKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, messageKeyKey, key)
}

// MessageKeyFromCtx extracts the broker message key from the context.
// Returns an empty string if absent.
func MessageKeyFromCtx(ctx context.Context) string {
	key, _ := ctx.Value(messageKeyKey).(string)
	return key
}

// WithTopic stores the originating topic in the context.
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, topicKey, topic)
}

// TopicFromCtx extracts the originating topic from the context.
// Returns an empty string if absent.
func TopicFromCtx(ctx context.Context) string {
	topic, _ := ctx.Value(topicKey).(string)
	return topic
}
