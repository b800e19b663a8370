package p9proto

import (
	"encoding/binary"
	"io"
)

// minFrameSize is the smallest legal frame: size[4] type[1] tag[2] and no
// payload at all (e.g. an Rclunk).
const minFrameSize = headerLen

// Decoder reads a stream of framed 9P2000.u messages from an underlying
// io.Reader. It is not safe for concurrent use.
type Decoder struct {
	r io.Reader

	// MaxSize bounds the total frame size (including the 4-byte size
	// prefix) this Decoder will accept. It should be set to the
	// connection's negotiated msize once a Tversion/Rversion exchange has
	// completed; zero means unbounded, which is only appropriate before
	// negotiation.
	MaxSize uint32

	sizeBuf [4]byte
}

// NewDecoder returns a Decoder reading frames from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// ReadMessage reads exactly one frame and decodes it into a Msg. An
// oversized or truncated frame is reported without partially consuming
// the stream beyond the declared frame boundary once the size prefix has
// been read.
func (d *Decoder) ReadMessage() (Msg, error) {
	if _, err := io.ReadFull(d.r, d.sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(d.sizeBuf[:])
	if size < minFrameSize {
		return nil, ErrShortFrame
	}
	if d.MaxSize > 0 && size > d.MaxSize {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, size-4)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, err
	}
	maxString := 0
	if d.MaxSize > 0 {
		maxString = int(d.MaxSize)
	}
	return Decode(body, maxString)
}

// Encoder writes framed 9P2000.u messages to an underlying io.Writer. It
// is not safe for concurrent use; callers that write from multiple
// goroutines must serialize calls to WriteMessage themselves.
type Encoder struct {
	w io.Writer

	// MaxSize bounds the total frame size this Encoder will emit, mirroring
	// Decoder.MaxSize. Zero means unbounded.
	MaxSize uint32
}

// NewEncoder returns an Encoder writing frames to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteMessage encodes and writes m as a single frame.
func (e *Encoder) WriteMessage(m Msg) error {
	frame, err := m.encode()
	if err != nil {
		return err
	}
	if e.MaxSize > 0 && uint32(len(frame)) > e.MaxSize {
		return ErrFrameTooLarge
	}
	_, err = e.w.Write(frame)
	return err
}
