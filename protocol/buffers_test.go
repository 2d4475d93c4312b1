package protocol

import (
	"bytes"
	"testing"
)

func TestScratchOutputAccumulates(t *testing.T) {
	out := NewScratchOutput()
	out.Output([]byte{0x01, 0x02})
	out.Output([]byte{0x03})

	if got := out.Result(); !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("Result() = %v", got)
	}

	out.Update(1, 0xFF)
	if got := out.Result(); !bytes.Equal(got, []byte{0x01, 0xFF, 0x03}) {
		t.Fatalf("Update() left Result() = %v", got)
	}

	out.Reset()
	if len(out.Result()) != 0 {
		t.Fatalf("Reset() should empty the buffer")
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	f := NewFifoBuffer(8)
	f.Write([]byte{1, 2, 3, 4, 5, 6})
	buf := make([]byte, 4)
	f.Read(buf)
	f.Write([]byte{7, 8, 9})

	got := f.Data()
	want := []byte{5, 6, 7, 8, 9}
	if !bytes.Equal(got, want) {
		t.Fatalf("Data() after wraparound = %v, want %v", got, want)
	}

	f.Pop(2)
	if !bytes.Equal(f.Data(), []byte{7, 8, 9}) {
		t.Fatalf("Data() after Pop() = %v", f.Data())
	}
}

func TestFifoBufferFullRejectsWrites(t *testing.T) {
	f := NewFifoBuffer(4)
	n := f.Write([]byte{1, 2, 3, 4, 5})
	if n != 3 {
		t.Fatalf("expected 3 bytes accepted (capacity-1 slots usable), got %d", n)
	}
}
