package codec

import (
	"reflect"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	exp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	codecs := map[string]Codec{
		"json":  JSON{},
		"gob":   Gob{},
		"proto": Proto{},
	}

	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			in := Envelope{
				Value:     []any{"example.com", "abc123"},
				ExpiresAt: exp,
			}

			data, err := c.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if !reflect.DeepEqual(out.Value, in.Value) {
				t.Fatalf("value round-trip: got %#v, want %#v", out.Value, in.Value)
			}
			if !out.ExpiresAt.Equal(exp) {
				t.Fatalf("expiration round-trip: got %v, want %v", out.ExpiresAt, exp)
			}
		})
	}
}

func TestRoundTrip_NoExpiration(t *testing.T) {
	codecs := map[string]Codec{
		"json":  JSON{},
		"gob":   Gob{},
		"proto": Proto{},
	}

	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			data, err := c.Encode(Envelope{Value: "hello"})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out.Value != "hello" {
				t.Fatalf("got %#v, want %q", out.Value, "hello")
			}
			if !out.ExpiresAt.IsZero() {
				t.Fatalf("expected zero expiration, got %v", out.ExpiresAt)
			}
		})
	}
}

func TestRoundTrip_NilValue(t *testing.T) {
	// nil is a legitimate cached value; the envelope must carry it.
	c := JSON{}
	data, err := c.Encode(Envelope{Value: nil})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Value != nil {
		t.Fatalf("got %#v, want nil", out.Value)
	}
}

func TestEnvelope_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"no expiration", time.Time{}, false},
		{"future", now.Add(time.Minute), false},
		{"past", now.Add(-time.Minute), true},
		{"exactly now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Envelope{ExpiresAt: tt.exp}
			if got := e.Expired(now); got != tt.want {
				t.Fatalf("Expired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProto_UnsupportedValue(t *testing.T) {
	type custom struct{ A int }
	_, err := Proto{}.Encode(Envelope{Value: custom{A: 1}})
	if err == nil {
		t.Fatal("expected error for unsupported value type")
	}
}

func TestDecode_Garbage(t *testing.T) {
	for name, c := range map[string]Codec{"json": JSON{}, "gob": Gob{}} {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Decode([]byte("\x00not an envelope")); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}
