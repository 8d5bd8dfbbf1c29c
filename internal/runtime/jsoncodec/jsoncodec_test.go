package jsoncodec

import (
	"bytes"
	"testing"
)

type sample struct {
	Model    string `json:"model"`
	Quantity int    `json:"quantity"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sample{Model: "Pro Router V5", Quantity: 3}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestEncodeDecodeStream(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample{Model: "X200"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out sample
	if err := Decode(&buf, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Model != "X200" {
		t.Fatalf("expected X200, got %q", out.Model)
	}
}

func TestUnmarshalRejectsMalformedDocument(t *testing.T) {
	var out sample
	if err := Unmarshal([]byte(`{"model":`), &out); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}
