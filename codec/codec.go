// Package codec defines the serialization strategy used by storage
// adapters that persist entries as blobs. The codec is chosen statically at
// adapter construction; a missing codec is a construction-time error, never
// a silent fallback.
package codec

import (
	"encoding/json"
	"time"
)

// Envelope is the record an adapter persists per key: the opaque value plus
// its absolute expiration. A zero ExpiresAt means the entry never expires.
type Envelope struct {
	Value     any       `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Expired reports whether the envelope's expiration has passed at now.
func (e Envelope) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now)
}

// Codec encodes and decodes envelopes. Implementations must be safe for
// concurrent use.
type Codec interface {
	Encode(e Envelope) ([]byte, error)
	Decode(data []byte) (Envelope, error)
}

// JSON is a Codec using encoding/json. Values round-trip through JSON's
// type system: numbers decode as float64, objects as map[string]any.
type JSON struct{}

// Encode marshals e as a JSON document.
func (JSON) Encode(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// Decode unmarshals a JSON document produced by Encode.
func (JSON) Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
