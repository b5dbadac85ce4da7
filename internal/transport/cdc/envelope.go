// Package cdc is the ingestion edge of the service: it parses CDC
// envelopes delivered by the broker layer and routes them into the catalog
// services. Handlers are idempotent under at-least-once delivery: create
// and update converge through upsert, delete tolerates targets that are
// already gone.
package cdc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/flixhub/catalog-search/internal/domain"
)

// Op is the CDC operation discriminator.
type Op string

const (
	OpRead   Op = "r"
	OpCreate Op = "c"
	OpUpdate Op = "u"
	OpDelete Op = "d"
)

// Envelope is a Debezium-style change event: after carries the full row
// image for create/update, before carries at least the identifier for
// delete.
type Envelope struct {
	Op     Op              `json:"op"`
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
}

// ParseEnvelope decodes a CDC envelope. Connector output that still wraps
// the event under "payload" (no unwrap SMT configured) is accepted too.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, domain.NewValidationError("envelope", "malformed JSON: "+err.Error())
	}
	if env.Op != "" {
		return &env, nil
	}

	var wrapped struct {
		Payload *Envelope `json:"payload"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Payload != nil && wrapped.Payload.Op != "" {
		return wrapped.Payload, nil
	}
	return nil, domain.NewValidationError("op", "missing operation")
}

// Timestamp accepts the three shapes CDC timestamps arrive in: RFC3339
// strings from hand-emitted aggregate messages, epoch milliseconds from
// the connector, and epoch microseconds from sources that use ts_us
// precision.
type Timestamp struct {
	time.Time
}

const microsThreshold = int64(1) << 47 // ~year 6429 in millis; beyond it the value is micros

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed.UTC()
				return nil
			}
		}
		return fmt.Errorf("unsupported timestamp %q", s)
	}

	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %s", b)
	}
	if n > microsThreshold {
		t.Time = time.UnixMicro(n).UTC()
	} else {
		t.Time = time.UnixMilli(n).UTC()
	}
	return nil
}

// Bool accepts real booleans and the 0/1 integers a tinyint column decays
// to on the wire.
type Bool bool

func (v *Bool) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		*v = Bool(asBool)
		return nil
	}
	var asInt int
	if err := json.Unmarshal(b, &asInt); err == nil {
		*v = asInt != 0
		return nil
	}
	return fmt.Errorf("unsupported boolean %s", b)
}
