package p9proto

// protoError is a constant error type, in the style of the original
// parser's own parseError: lightweight, comparable, and safe to declare
// as package-level vars.
type protoError string

func (e protoError) Error() string { return string(e) }

// Wire-level parse/encode errors. These surface as closed connections
// (frame-level) or as encode-time failures (Stat, too-long strings); a
// Conn in the root package closes the connection on any decode error
// (see conn.go) rather than replying with an Rerror.
const (
	// ErrTooLong is returned when a string, byte sequence, Qid sequence
	// or walk path does not fit its u16 bound (or a string read exceeds
	// Reader.MaxString), or when a frame or Read/Write payload does not
	// fit a u32.
	ErrTooLong = protoError("p9proto: value too long to encode")

	// ErrShortBuffer is returned when a caller-supplied buffer is too
	// small to hold an encoded value.
	ErrShortBuffer = protoError("p9proto: buffer too short")

	// ErrBadUTF8 is returned when decoding a string field that is not
	// valid UTF-8.
	ErrBadUTF8 = protoError("p9proto: string is not valid utf8")

	// ErrInvalidMsgType names a frame whose type byte does not name a
	// message of this protocol revision. Decode does not return it: such
	// a frame decodes to an Unknown message with a nil error, so that the
	// dispatcher can reply ENOSYS.
	ErrInvalidMsgType = protoError("p9proto: unrecognized message type")

	// ErrShortStat / ErrLongStat bound the encoded size of a Stat body.
	ErrShortStat = protoError("p9proto: stat structure too short")
	ErrLongStat  = protoError("p9proto: stat structure too long")

	// ErrFrameTooLarge is returned by the Decoder when a frame's size[4]
	// field exceeds its MaxSize, and by the Encoder when an encoded frame
	// is longer than its MaxSize.
	ErrFrameTooLarge = protoError("p9proto: frame exceeds negotiated msize")

	// ErrShortFrame is returned when a frame's size[4] field is smaller
	// than the minimum possible message (an empty Rclunk/Rwstat-shaped
	// reply).
	ErrShortFrame = protoError("p9proto: frame shorter than minimum message size")
)

// VersionError reports a failure to negotiate a protocol version between
// a server's offer and a peer's request.
type VersionError struct {
	// Kind is one of MismatchedID or MismatchedVariant.
	Kind VersionErrorKind
	Self, Peer Version
}

// VersionErrorKind distinguishes the two ways a negotiation can fail.
type VersionErrorKind uint8

const (
	// MismatchedID means the two versions do not share the same base
	// identifier (e.g. "9P2000" vs "9P2001").
	MismatchedID VersionErrorKind = iota
	// MismatchedVariant means the identifiers match but the peer names
	// a variant that self does not offer.
	MismatchedVariant
)

func (e *VersionError) Error() string {
	if e.Kind == MismatchedID {
		return "p9proto: mismatched version id: " + e.Self.String() + " vs " + e.Peer.String()
	}
	return "p9proto: mismatched version variant: " + e.Self.String() + " vs " + e.Peer.String()
}
