package p9proto

import (
	"bytes"
	"io"
	"testing"
)

// Garbled frames a fuzzer might plausibly turn up: truncated payloads,
// declared lengths that overrun the buffer, and bogus message types. None
// of these should panic; all should come back as a clean error.
var malformedFrames = [][]byte{
	{},                               // empty stream
	{0x04, 0x00, 0x00, 0x00},         // size says "just the header", no type/tag
	{0x07, 0x00, 0x00, 0x00, 100, 1}, // declared size longer than what follows
	{0x07, 0x00, 0x00, 0x00, 0xFF, 1, 2}, // unknown message type
	{0x08, 0x00, 0x00, 0x00, 108, 1, 0, 0xFF}, // Tflush, Oldtag needs 2 bytes, only 1 given
}

func TestDecoderRejectsMalformedFrames(t *testing.T) {
	for i, frame := range malformedFrames {
		d := NewDecoder(bytes.NewReader(frame))
		d.MaxSize = 1 << 20
		msg, err := d.ReadMessage()
		if err == nil {
			if _, ok := msg.(Unknown); !ok {
				t.Errorf("frame %d: expected error or Unknown, got %#v", i, msg)
			}
		}
	}
}

func TestDecoderEOFOnEmptyStream(t *testing.T) {
	d := NewDecoder(bytes.NewReader(nil))
	if _, err := d.ReadMessage(); err != io.EOF {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestDecoderRejectsOversizeFrame(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x10, 0x00}) // size = 0x00100000, way over MaxSize
	d := NewDecoder(&buf)
	d.MaxSize = 256
	if _, err := d.ReadMessage(); err != ErrFrameTooLarge {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestDecoderRejectsShortFrame(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x02, 0x00, 0x00, 0x00}) // size smaller than the header itself
	d := NewDecoder(&buf)
	if _, err := d.ReadMessage(); err != ErrShortFrame {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
}

func TestDecodeUnknownMessageType(t *testing.T) {
	body := []byte{0xFE, 1, 0}
	msg, err := Decode(body, 0)
	if err != nil {
		t.Fatalf("Decode: unexpected error %v", err)
	}
	unk, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %#v", msg)
	}
	if unk.Tag() != 1 {
		t.Errorf("Unknown.Tag() = %d, want 1", unk.Tag())
	}
	if _, err := unk.encode(); err == nil {
		t.Error("Unknown.encode() should always fail: it must never be sent on the wire")
	}
}

func TestDecodeTruncatedBody(t *testing.T) {
	// Tversion header present but the payload is cut off mid-string.
	body := []byte{byte(MsgTversion), 0xFF, 0xFF, 0x00, 0x00, 0x01, 0x00, 0x09, '9', 'P'}
	if _, err := Decode(body, 0); err == nil {
		t.Error("expected error decoding a truncated Tversion body")
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	if _, err := Decode(nil, 0); err == nil {
		t.Error("expected error decoding an empty body")
	}
}
