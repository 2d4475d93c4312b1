package protocol

import "testing"

func TestCRC16KnownAnswers(t *testing.T) {
	if got := CalculateCRC16([]byte("123456789")); got != 0x29B1 {
		t.Errorf("CalculateCRC16(\"123456789\") = %#04x, want 0x29b1", got)
	}
	if got := CalculateCRC16(nil); got != 0xFFFF {
		t.Errorf("CalculateCRC16(nil) = %#04x, want 0xffff", got)
	}
	if got := CalculateCRC16([]byte{0x00}); got != 0xE1F0 {
		t.Errorf("CalculateCRC16([0x00]) = %#04x, want 0xe1f0", got)
	}
}

func TestCRC16UpdateEquivalence(t *testing.T) {
	a := []byte{0x01, 0x02, 0x03}
	b := []byte{0x04, 0x05, 0x06, 0x07}

	whole := CalculateCRC16(append(append([]byte{}, a...), b...))
	split := UpdateCRC16(CalculateCRC16(a), b)

	if whole != split {
		t.Errorf("update equivalence broke: whole=%#04x split=%#04x", whole, split)
	}
}

func TestCRC16Verify(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	crc := CalculateCRC16(data)
	if !VerifyCRC16(data, crc) {
		t.Errorf("VerifyCRC16 should accept the correct checksum")
	}
	if VerifyCRC16(data, crc^0x0001) {
		t.Errorf("VerifyCRC16 should reject a corrupted checksum")
	}
}

func TestCRC16SingleByteFlipDetection(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	base := CalculateCRC16(data)

	collisions := 0
	for i := range data {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte{}, data...)
			corrupted[i] ^= 1 << uint(bit)
			if CalculateCRC16(corrupted) == base {
				collisions++
			}
		}
	}
	if collisions != 0 {
		t.Errorf("expected every single-bit flip to change the CRC, saw %d collisions", collisions)
	}
}
