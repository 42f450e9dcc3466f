package codec

import (
	"bytes"
	"encoding/gob"
	"time"
)

func init() {
	// Composite shapes commonly stored through the any-typed envelope.
	// Callers storing their own struct types must gob.Register them.
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register([]string{})
	gob.Register(time.Time{})
}

// Gob is a Codec using encoding/gob. Unlike JSON it round-trips Go types
// exactly, but custom types carried inside the envelope must be registered
// with gob.Register before encoding.
type Gob struct{}

// Encode serializes e with a fresh gob encoder.
func (Gob) Encode(e Envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes a blob produced by Encode.
func (Gob) Decode(data []byte) (Envelope, error) {
	var e Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
