package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}

	h := Hash{0x01}
	if h.IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHash_String(t *testing.T) {
	h := Hash{0xab, 0xcd}
	s := h.String()
	if len(s) != HashSize*2 {
		t.Errorf("String() length = %d, want %d", len(s), HashSize*2)
	}
	if !strings.HasPrefix(s, "abcd") {
		t.Errorf("String() = %s, want prefix abcd", s)
	}
}

func TestHash_Bytes(t *testing.T) {
	h := Hash{0x01, 0x02}
	b := h.Bytes()
	if len(b) != HashSize {
		t.Fatalf("Bytes() length = %d, want %d", len(b), HashSize)
	}

	// Mutating the returned slice must not touch the hash.
	b[0] = 0xff
	if h[0] != 0x01 {
		t.Error("Bytes() should return an independent copy")
	}
}

func TestHexToHash_RoundTrip(t *testing.T) {
	h := Hash{0xde, 0xad, 0xbe, 0xef}
	got, err := HexToHash(h.String())
	if err != nil {
		t.Fatalf("HexToHash() error: %v", err)
	}
	if got != h {
		t.Errorf("HexToHash(String()) = %s, want %s", got, h)
	}
}

func TestHexToHash_Invalid(t *testing.T) {
	if _, err := HexToHash("zz"); err == nil {
		t.Error("HexToHash should reject non-hex input")
	}
	if _, err := HexToHash("abcd"); err == nil {
		t.Error("HexToHash should reject short input")
	}
}

func TestHash_JSON(t *testing.T) {
	h := Hash{0x42}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got != h {
		t.Errorf("JSON round trip = %s, want %s", got, h)
	}
}

func TestHash_JSON_BadLength(t *testing.T) {
	var h Hash
	if err := json.Unmarshal([]byte(`"abcd"`), &h); err == nil {
		t.Error("Unmarshal should reject a short hash")
	}
}
