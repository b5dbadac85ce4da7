package kafka

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/linkedin/goavro/v2"
	"github.com/riferrei/srclient"

	"github.com/flixhub/catalog-search/internal/domain"
)

// wire format: magic byte 0x00, 4-byte big-endian schema id, avro body.
const framingOverhead = 5

// Decoder turns raw broker payloads into JSON. Registry-framed values are
// Avro-decoded against their registered schema; anything else passes
// through untouched, because connector topics (registry-framed) and
// hand-emitted aggregate topics (plain JSON) coexist on the same consumer.
type Decoder struct {
	schemaFor func(schemaID int) (string, error)

	mu     sync.Mutex
	codecs map[int]*goavro.Codec
}

// NewDecoder creates a Decoder backed by a schema registry. registryURL
// may be empty, which disables the framed path entirely; every payload is
// then treated as raw JSON.
func NewDecoder(registryURL string) *Decoder {
	if registryURL == "" {
		return NewDecoderWithSchemaFunc(nil)
	}
	client := srclient.CreateSchemaRegistryClient(registryURL)
	return NewDecoderWithSchemaFunc(func(schemaID int) (string, error) {
		schema, err := client.GetSchema(schemaID)
		if err != nil {
			return "", err
		}
		return schema.Schema(), nil
	})
}

// NewDecoderWithSchemaFunc creates a Decoder with a custom schema lookup
// (for testing).
func NewDecoderWithSchemaFunc(schemaFor func(schemaID int) (string, error)) *Decoder {
	return &Decoder{
		schemaFor: schemaFor,
		codecs:    make(map[int]*goavro.Codec),
	}
}

// Decode returns the JSON form of a message value.
func (d *Decoder) Decode(value []byte) ([]byte, error) {
	if d.schemaFor == nil || len(value) < framingOverhead || value[0] != 0 {
		return value, nil
	}

	schemaID := int(binary.BigEndian.Uint32(value[1:framingOverhead]))

	codec, err := d.codec(schemaID)
	if err != nil {
		return nil, domain.Retriable(fmt.Errorf("fetch schema %d: %w", schemaID, err))
	}

	native, _, err := codec.NativeFromBinary(value[framingOverhead:])
	if err != nil {
		return nil, domain.Retriable(fmt.Errorf("avro decode schema %d: %w", schemaID, err))
	}

	textual, err := codec.TextualFromNative(nil, native)
	if err != nil {
		return nil, domain.Retriable(fmt.Errorf("avro to json schema %d: %w", schemaID, err))
	}
	return textual, nil
}

// codec returns the cached standard-JSON codec for a schema id. Standard
// JSON matters: the default Avro textual form wraps union values in type
// envelopes the CDC payload decoders do not expect.
func (d *Decoder) codec(schemaID int) (*goavro.Codec, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if codec, ok := d.codecs[schemaID]; ok {
		return codec, nil
	}

	schema, err := d.schemaFor(schemaID)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodecForStandardJSONFull(schema)
	if err != nil {
		return nil, fmt.Errorf("build codec: %w", err)
	}
	d.codecs[schemaID] = codec
	return codec, nil
}
