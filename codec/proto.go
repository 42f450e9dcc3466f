package codec

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	protoValueField   = "value"
	protoExpiresField = "expires_at"
)

// Proto is a Codec using the protobuf wire format via structpb. Values are
// limited to JSON-like shapes (nil, bool, numbers, strings, []byte,
// []any, map[string]any); like JSON, numbers decode as float64.
type Proto struct{}

// Encode serializes e as a protobuf Struct message.
func (Proto) Encode(e Envelope) ([]byte, error) {
	val, err := structpb.NewValue(e.Value)
	if err != nil {
		return nil, fmt.Errorf("codec: proto: %w", err)
	}

	fields := map[string]*structpb.Value{
		protoValueField: val,
	}
	if !e.ExpiresAt.IsZero() {
		fields[protoExpiresField] = structpb.NewStringValue(e.ExpiresAt.Format(time.RFC3339Nano))
	}

	return proto.Marshal(&structpb.Struct{Fields: fields})
}

// Decode deserializes a blob produced by Encode.
func (Proto) Decode(data []byte) (Envelope, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return Envelope{}, fmt.Errorf("codec: proto: %w", err)
	}

	var e Envelope
	if v, ok := st.Fields[protoValueField]; ok {
		e.Value = v.AsInterface()
	}
	if v, ok := st.Fields[protoExpiresField]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.GetStringValue())
		if err != nil {
			return Envelope{}, fmt.Errorf("codec: proto: bad expiration: %w", err)
		}
		e.ExpiresAt = t
	}
	return e, nil
}
