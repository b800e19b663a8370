package p9proto

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// A Writer accumulates the wire encoding of 9P values into a growable
// byte buffer. The zero value is ready to use. Writer is not safe for
// concurrent use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity preallocated for n bytes.
func NewWriter(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Bytes returns the bytes accumulated so far. The slice is only valid
// until the next call to a Writer method.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Reset empties w so its buffer can be reused.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) { w.buf = append(w.buf, v) }

// PutUint16 appends a little-endian 16-bit integer.
func (w *Writer) PutUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutUint32 appends a little-endian 32-bit integer.
func (w *Writer) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutUint64 appends a little-endian 64-bit integer.
func (w *Writer) PutUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutRaw appends p verbatim, with no length prefix.
func (w *Writer) PutRaw(p []byte) { w.buf = append(w.buf, p...) }

// PutBytes appends a length-prefixed byte slice: len[2] p. It fails with
// ErrTooLong if len(p) does not fit in a uint16.
func (w *Writer) PutBytes(p []byte) error {
	if len(p) > 1<<16-1 {
		return ErrTooLong
	}
	w.PutUint16(uint16(len(p)))
	w.buf = append(w.buf, p...)
	return nil
}

// PutString appends a length-prefixed UTF-8 string.
func (w *Writer) PutString(s string) error {
	return w.PutBytes([]byte(s))
}

// PutStrings appends each of ss in turn, each as its own length-prefixed
// field (this is how multi-field strings, such as a Tattach's uname and
// aname, are laid out -- there is no outer count).
func (w *Writer) PutStrings(ss ...string) error {
	for _, s := range ss {
		if err := w.PutString(s); err != nil {
			return err
		}
	}
	return nil
}

// PutQid appends the 13-byte encoding of q.
func (w *Writer) PutQid(q Qid) { w.buf = append(w.buf, q[:]...) }

// PutQids appends a sequence-of-Qid: count[2] followed by count Qids.
func (w *Writer) PutQids(qids []Qid) error {
	if len(qids) > 1<<16-1 {
		return ErrTooLong
	}
	w.PutUint16(uint16(len(qids)))
	for _, q := range qids {
		w.PutQid(q)
	}
	return nil
}

// A Reader decodes 9P values from a fixed byte slice, advancing a cursor
// as fields are consumed. A Reader never reads past the end of its
// backing slice; doing so returns io.ErrUnexpectedEOF.
type Reader struct {
	buf []byte
	pos int

	// MaxString bounds the length of any string or byte-sequence field
	// this Reader will accept, derived from the connection's negotiated
	// msize. A value of 0 means unbounded.
	MaxString int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian 16-bit integer.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian 32-bit integer.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian 64-bit integer.
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Raw reads exactly n unprefixed bytes.
func (r *Reader) Raw(n int) ([]byte, error) {
	return r.take(n)
}

// Bytes reads a length-prefixed byte slice. If r.MaxString is non-zero
// and the encoded length exceeds it, Bytes fails with ErrTooLong without
// consuming the payload.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if r.MaxString > 0 && int(n) > r.MaxString {
		return nil, ErrTooLong
	}
	return r.take(int(n))
}

// String reads a length-prefixed string and validates it as UTF-8.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrBadUTF8
	}
	return string(b), nil
}

// Qid reads one 13-byte Qid.
func (r *Reader) Qid() (Qid, error) {
	return UnmarshalQid(r)
}

// Qids reads a sequence-of-Qid: count[2] followed by count Qids. A count
// of 0 yields a nil slice, matching the zero value of the Go slice the
// wire's empty sequence round-trips to.
func (r *Reader) Qids() ([]Qid, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	qids := make([]Qid, n)
	for i := range qids {
		if qids[i], err = r.Qid(); err != nil {
			return nil, err
		}
	}
	return qids, nil
}

// Strings reads n consecutive length-prefixed strings. n == 0 yields a
// nil slice, matching the zero value of the Go slice the wire's empty
// sequence round-trips to.
func (r *Reader) Strings(n int) ([]string, error) {
	if n == 0 {
		return nil, nil
	}
	ss := make([]string, n)
	var err error
	for i := range ss {
		if ss[i], err = r.String(); err != nil {
			return nil, err
		}
	}
	return ss, nil
}
