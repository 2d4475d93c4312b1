package protocol

import (
	"bytes"
	"testing"
)

func TestStuffRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0x00},
		{0x00, 0x00, 0x00},
		{0x01, 0x02, 0x00, 0x03},
		bytes.Repeat([]byte{0x01}, 250),
		append(bytes.Repeat([]byte{0x02}, 200), 0x00, 0x03),
	}

	for _, want := range cases {
		stuffed, err := StuffBytes(want)
		if err != nil {
			t.Fatalf("StuffBytes(%v) error: %v", want, err)
		}
		for _, b := range stuffed {
			if b == Delimiter {
				t.Fatalf("stuffed output contains delimiter: %v", stuffed)
			}
		}
		got, err := UnstuffBytes(stuffed)
		if err != nil {
			t.Fatalf("UnstuffBytes error: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("round trip mismatch: want %v got %v (stuffed %v)", want, got, stuffed)
		}
	}
}

func TestStuffRejectsOversize(t *testing.T) {
	_, err := StuffBytes(make([]byte, MaxPayload+1))
	if err != ErrInputTooLarge {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestUnstuffRejectsZeroCode(t *testing.T) {
	_, err := UnstuffBytes([]byte{0x00, 0x01})
	if err != ErrMalformedStuffing {
		t.Fatalf("expected ErrMalformedStuffing, got %v", err)
	}
}

func TestUnstuffRejectsTruncatedBlock(t *testing.T) {
	// code claims 5 bytes follow, only 2 are present
	_, err := UnstuffBytes([]byte{0x06, 0x01, 0x02})
	if err != ErrMalformedStuffing {
		t.Fatalf("expected ErrMalformedStuffing, got %v", err)
	}
}

func TestUnstuffLongRunCode(t *testing.T) {
	// A code byte of 0xFF (the maximum) means 254 bytes follow with no
	// implicit trailing delimiter, exercising the run-length-overflow
	// branch of the decoder directly (unreachable via StuffBytes alone
	// since a single frame payload is capped at MaxPayload).
	stuffed := append([]byte{0xFF}, bytes.Repeat([]byte{0xAB}, 254)...)
	got, err := UnstuffBytes(stuffed)
	if err != nil {
		t.Fatalf("unstuff error: %v", err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0xAB}, 254)) {
		t.Fatalf("round trip mismatch on long run")
	}
}
