package link

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"axisfw/protocol"
)

// pipePort is an in-memory Port backed by two io.Pipes, standing in for a
// real serial link in tests.
type pipePort struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipePort) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipePort) Close() error {
	p.r.Close()
	return p.w.Close()
}
func (p *pipePort) Flush() error { return nil }

// newLoopback returns a Client and the raw pipe ends a fake firmware
// handler can use to read requests and write responses.
func newLoopback() (client *Client, fwRead io.Reader, fwWrite io.Writer) {
	toFirmwareR, toFirmwareW := io.Pipe()
	toClientR, toClientW := io.Pipe()

	clientPort := &pipePort{r: toClientR, w: toFirmwareW}
	client = NewClient(clientPort)
	return client, toFirmwareR, toClientW
}

// fakeFirmware reads one stuffed frame from r and calls respond with its
// decoded contents to build the reply payload.
func fakeFirmware(t *testing.T, r io.Reader, w io.Writer, respond func(protocol.Frame) (protocol.MessageID, []byte)) {
	t.Helper()
	buf := protocol.NewFifoBuffer(4 * protocol.MaxStuffedFrame)
	readBuf := make([]byte, 256)

	for {
		data := buf.Data()
		stuffed, consumed, err := protocol.SplitDelimited(data)
		if err == nil {
			buf.Pop(consumed)
			frame, decodeErr := protocol.DecodeFrame(stuffed)
			if decodeErr != nil {
				continue
			}
			respID, payload := respond(frame)
			encoded, encErr := protocol.EncodeFrame(respID, payload)
			if encErr != nil {
				t.Errorf("fakeFirmware: encode response: %v", encErr)
				return
			}
			if _, err := w.Write(encoded); err != nil {
				return
			}
			return
		}

		n, err := r.Read(readBuf)
		if err != nil {
			return
		}
		buf.Write(readBuf[:n])
	}
}

func TestClientMoveToRoundTrip(t *testing.T) {
	client, fwRead, fwWrite := newLoopback()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		fakeFirmware(t, fwRead, fwWrite, func(req protocol.Frame) (protocol.MessageID, []byte) {
			if req.ID != protocol.MsgMoveTo {
				t.Errorf("firmware saw id 0x%02x, want MsgMoveTo", req.ID)
			}
			got := int32(binary.LittleEndian.Uint32(req.Payload))
			if got != 12345 {
				t.Errorf("firmware saw position %d, want 12345", got)
			}
			return protocol.ResponseIDFor(req.ID), []byte{byte(protocol.StatusOK)}
		})
		close(done)
	}()

	if err := client.MoveTo(12345); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	<-done
}

func TestClientStatusRoundTrip(t *testing.T) {
	client, fwRead, fwWrite := newLoopback()
	defer client.Close()

	go fakeFirmware(t, fwRead, fwWrite, func(req protocol.Frame) (protocol.MessageID, []byte) {
		payload := make([]byte, 1+18)
		payload[0] = byte(protocol.StatusOK)
		body := payload[1:]
		body[0] = 2 // cruising
		binary.LittleEndian.PutUint32(body[1:5], uint32(int32(500)))
		binary.LittleEndian.PutUint32(body[5:9], uint32(int32(1000)))
		binary.LittleEndian.PutUint32(body[9:13], 8000)
		binary.LittleEndian.PutUint32(body[13:17], uint32(int32(500)))
		body[17] = 0x01
		return protocol.ResponseIDFor(req.ID), payload
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.State != 2 || status.CurrentPosition != 500 || status.TargetPosition != 1000 {
		t.Fatalf("Status() = %+v, unexpected fields", status)
	}
	if !status.InMotion || status.AtTarget {
		t.Fatalf("Status() flags = InMotion:%v AtTarget:%v, want true/false", status.InMotion, status.AtTarget)
	}
}

func TestClientRequestTimesOutWithNoResponse(t *testing.T) {
	client, _, _ := newLoopback()
	defer client.Close()

	_, err := client.Request(protocol.MsgStatus, nil, 50*time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("Request() error = %v, want ErrTimeout", err)
	}
}

func TestClientRejectedRequestReturnsError(t *testing.T) {
	client, fwRead, fwWrite := newLoopback()
	defer client.Close()

	go fakeFirmware(t, fwRead, fwWrite, func(req protocol.Frame) (protocol.MessageID, []byte) {
		return protocol.ResponseIDFor(req.ID), []byte{byte(protocol.StatusBadParam)}
	})

	if err := client.MoveTo(0); err == nil {
		t.Fatalf("MoveTo should fail when firmware responds with StatusBadParam")
	}
}
