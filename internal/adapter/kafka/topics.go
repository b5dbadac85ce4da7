// Package kafka implements the broker client layer: consumer-group
// message loops, schema-registry decoding with raw-JSON fallback, and
// bounded retry via delay topics before dead-lettering.
package kafka

import (
	"fmt"
	"strings"
)

const (
	retryInfix     = ".retry."
	deadLetterSfx  = ".dlt"
	attemptHeader  = "x-retry-attempt"
	lastErrHeader  = "x-last-error"
	originalHeader = "x-original-topic"
)

// TopicName derives a CDC topic from the connector prefix and a logical
// entity name, so topic wiring stays data, not code.
func TopicName(prefix, entity string) string {
	return prefix + "." + entity
}

// retryTopic names the delayed redelivery topic for one attempt.
func retryTopic(base string, attempt int) string {
	return fmt.Sprintf("%s%s%d", base, retryInfix, attempt)
}

// deadLetterTopic names the terminal parking topic for a base topic.
func deadLetterTopic(base string) string {
	return base + deadLetterSfx
}

// baseTopic strips retry/dead-letter suffixes so retry traffic routes to
// the original topic's handler.
func baseTopic(topic string) string {
	if i := strings.LastIndex(topic, retryInfix); i >= 0 {
		return topic[:i]
	}
	return strings.TrimSuffix(topic, deadLetterSfx)
}

// retryAttempt extracts the attempt number encoded in a retry topic name;
// zero for a base topic.
func retryAttempt(topic string) int {
	i := strings.LastIndex(topic, retryInfix)
	if i < 0 {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(topic[i+len(retryInfix):], "%d", &n); err != nil {
		return 0
	}
	return n
}
