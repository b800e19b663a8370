package p9proto

import "fmt"

// MsgType identifies the opcode of a 9P2000.u message.
type MsgType uint8

// The 9P2000.u opcode table. Odd values are always the R-message
// answering the preceding even-valued T-message, with the exception of
// Rerror, which has no corresponding T-message.
const (
	MsgTversion MsgType = 100
	MsgRversion MsgType = 101
	MsgTauth    MsgType = 102
	MsgRauth    MsgType = 103
	MsgTattach  MsgType = 104
	MsgRattach  MsgType = 105
	MsgRerror   MsgType = 107
	MsgTflush   MsgType = 108
	MsgRflush   MsgType = 109
	MsgTwalk    MsgType = 110
	MsgRwalk    MsgType = 111
	MsgTopen    MsgType = 112
	MsgRopen    MsgType = 113
	MsgTcreate  MsgType = 114
	MsgRcreate  MsgType = 115
	MsgTread    MsgType = 116
	MsgRread    MsgType = 117
	MsgTwrite   MsgType = 118
	MsgRwrite   MsgType = 119
	MsgTclunk   MsgType = 120
	MsgRclunk   MsgType = 121
	MsgTremove  MsgType = 122
	MsgRremove  MsgType = 123
	MsgTstat    MsgType = 124
	MsgRstat    MsgType = 125
	MsgTwstat   MsgType = 126
	MsgRwstat   MsgType = 127
	// msgUnknown is never sent on the wire; it marks a decoded Unknown value.
	msgUnknown MsgType = 0
)

func (t MsgType) String() string {
	switch t {
	case MsgTversion:
		return "Tversion"
	case MsgRversion:
		return "Rversion"
	case MsgTauth:
		return "Tauth"
	case MsgRauth:
		return "Rauth"
	case MsgTattach:
		return "Tattach"
	case MsgRattach:
		return "Rattach"
	case MsgRerror:
		return "Rerror"
	case MsgTflush:
		return "Tflush"
	case MsgRflush:
		return "Rflush"
	case MsgTwalk:
		return "Twalk"
	case MsgRwalk:
		return "Rwalk"
	case MsgTopen:
		return "Topen"
	case MsgRopen:
		return "Ropen"
	case MsgTcreate:
		return "Tcreate"
	case MsgRcreate:
		return "Rcreate"
	case MsgTread:
		return "Tread"
	case MsgRread:
		return "Rread"
	case MsgTwrite:
		return "Twrite"
	case MsgRwrite:
		return "Rwrite"
	case MsgTclunk:
		return "Tclunk"
	case MsgRclunk:
		return "Rclunk"
	case MsgTremove:
		return "Tremove"
	case MsgRremove:
		return "Rremove"
	case MsgTstat:
		return "Tstat"
	case MsgRstat:
		return "Rstat"
	case MsgTwstat:
		return "Twstat"
	case MsgRwstat:
		return "Rwstat"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Msg is the closed union of every message in the 9P2000.u family, both
// T (client-to-server requests) and R (server-to-client replies). The
// unexported encode method seals the interface to the types in this
// package.
type Msg interface {
	// Tag is the transaction id echoed between a request and its reply.
	Tag() uint16
	// Type names the message's opcode.
	Type() MsgType

	encode() ([]byte, error)
}

func buildFrame(mtype MsgType, tag uint16, payload *Writer) ([]byte, error) {
	total := headerLen + payload.Len()
	if total > 1<<32-1 {
		return nil, ErrTooLong
	}
	w := NewWriter(total)
	w.PutUint32(uint32(total))
	w.PutUint8(uint8(mtype))
	w.PutUint16(tag)
	w.PutRaw(payload.Bytes())
	return w.Bytes(), nil
}

// TVersion negotiates the protocol version and msize for a connection.
// It must be the first message on a connection, and its Tag must be NoTag.
type TVersion struct {
	MsgTag  uint16
	Msize   uint32
	Version string
}

func (m TVersion) Tag() uint16    { return m.MsgTag }
func (m TVersion) Type() MsgType  { return MsgTversion }
func (m TVersion) encode() ([]byte, error) {
	p := NewWriter(4 + 2 + len(m.Version))
	p.PutUint32(m.Msize)
	if err := p.PutString(m.Version); err != nil {
		return nil, err
	}
	return buildFrame(MsgTversion, m.MsgTag, p)
}

// RVersion answers a TVersion with the server's chosen msize and version.
type RVersion struct {
	MsgTag  uint16
	Msize   uint32
	Version string
}

func (m RVersion) Tag() uint16   { return m.MsgTag }
func (m RVersion) Type() MsgType { return MsgRversion }
func (m RVersion) encode() ([]byte, error) {
	p := NewWriter(4 + 2 + len(m.Version))
	p.PutUint32(m.Msize)
	if err := p.PutString(m.Version); err != nil {
		return nil, err
	}
	return buildFrame(MsgRversion, m.MsgTag, p)
}

// TAuth requests an auth fid to carry out an authentication protocol.
// Nuname is the 9P2000.u numeric form of Uname (-1 if unused).
type TAuth struct {
	MsgTag uint16
	Afid   uint32
	Uname  string
	Aname  string
	Nuname uint32
}

func (m TAuth) Tag() uint16   { return m.MsgTag }
func (m TAuth) Type() MsgType { return MsgTauth }
func (m TAuth) encode() ([]byte, error) {
	p := NewWriter(4 + 4 + len(m.Uname) + len(m.Aname))
	p.PutUint32(m.Afid)
	if err := p.PutStrings(m.Uname, m.Aname); err != nil {
		return nil, err
	}
	p.PutUint32(m.Nuname)
	return buildFrame(MsgTauth, m.MsgTag, p)
}

// RAuth answers a successful TAuth with the qid of the auth file.
type RAuth struct {
	MsgTag uint16
	Aqid   Qid
}

func (m RAuth) Tag() uint16   { return m.MsgTag }
func (m RAuth) Type() MsgType { return MsgRauth }
func (m RAuth) encode() ([]byte, error) {
	p := NewWriter(qidLen)
	p.PutQid(m.Aqid)
	return buildFrame(MsgRauth, m.MsgTag, p)
}

// TAttach introduces a user to a filesystem, establishing fid as its root.
type TAttach struct {
	MsgTag uint16
	Fid    uint32
	Afid   uint32
	Uname  string
	Aname  string
	Nuname uint32
}

func (m TAttach) Tag() uint16   { return m.MsgTag }
func (m TAttach) Type() MsgType { return MsgTattach }
func (m TAttach) encode() ([]byte, error) {
	p := NewWriter(4 + 4 + 4 + len(m.Uname) + len(m.Aname))
	p.PutUint32(m.Fid)
	p.PutUint32(m.Afid)
	if err := p.PutStrings(m.Uname, m.Aname); err != nil {
		return nil, err
	}
	p.PutUint32(m.Nuname)
	return buildFrame(MsgTattach, m.MsgTag, p)
}

// RAttach answers a successful TAttach with the qid of the filesystem root.
type RAttach struct {
	MsgTag uint16
	Qid    Qid
}

func (m RAttach) Tag() uint16   { return m.MsgTag }
func (m RAttach) Type() MsgType { return MsgRattach }
func (m RAttach) encode() ([]byte, error) {
	p := NewWriter(qidLen)
	p.PutQid(m.Qid)
	return buildFrame(MsgRattach, m.MsgTag, p)
}

// RError answers any T-message with a failure. Errno is a POSIX-like
// error number; 0xFFFFFFFF marks a protocol-level failure with no
// meaningful errno.
type RError struct {
	MsgTag uint16
	Ename  string
	Errno  uint32
}

func (m RError) Tag() uint16   { return m.MsgTag }
func (m RError) Type() MsgType { return MsgRerror }
func (m RError) Error() string { return m.Ename }
func (m RError) encode() ([]byte, error) {
	p := NewWriter(2 + len(m.Ename) + 4)
	if err := p.PutString(m.Ename); err != nil {
		return nil, err
	}
	p.PutUint32(m.Errno)
	return buildFrame(MsgRerror, m.MsgTag, p)
}

// TFlush asks the server to cancel a pending request named by Oldtag.
type TFlush struct {
	MsgTag uint16
	Oldtag uint16
}

func (m TFlush) Tag() uint16   { return m.MsgTag }
func (m TFlush) Type() MsgType { return MsgTflush }
func (m TFlush) encode() ([]byte, error) {
	p := NewWriter(2)
	p.PutUint16(m.Oldtag)
	return buildFrame(MsgTflush, m.MsgTag, p)
}

// RFlush acknowledges a TFlush. It is always sent, whether or not the
// flushed request was still outstanding.
type RFlush struct {
	MsgTag uint16
}

func (m RFlush) Tag() uint16   { return m.MsgTag }
func (m RFlush) Type() MsgType { return MsgRflush }
func (m RFlush) encode() ([]byte, error) {
	return buildFrame(MsgRflush, m.MsgTag, NewWriter(0))
}

// TWalk walks Fid through the path elements in Wname, binding the result
// to Newfid on success.
type TWalk struct {
	MsgTag uint16
	Fid    uint32
	Newfid uint32
	Wname  []string
}

func (m TWalk) Tag() uint16   { return m.MsgTag }
func (m TWalk) Type() MsgType { return MsgTwalk }
func (m TWalk) encode() ([]byte, error) {
	if len(m.Wname) > MaxWElem {
		return nil, ErrTooLong
	}
	p := NewWriter(4 + 4 + 2 + 16*len(m.Wname))
	p.PutUint32(m.Fid)
	p.PutUint32(m.Newfid)
	p.PutUint16(uint16(len(m.Wname)))
	if err := p.PutStrings(m.Wname...); err != nil {
		return nil, err
	}
	return buildFrame(MsgTwalk, m.MsgTag, p)
}

// RWalk answers a TWalk with the qids of each path element successfully
// traversed. len(Wqid) may be less than len(the request's Wname).
type RWalk struct {
	MsgTag uint16
	Wqid   []Qid
}

func (m RWalk) Tag() uint16   { return m.MsgTag }
func (m RWalk) Type() MsgType { return MsgRwalk }
func (m RWalk) encode() ([]byte, error) {
	p := NewWriter(2 + qidLen*len(m.Wqid))
	if err := p.PutQids(m.Wqid); err != nil {
		return nil, err
	}
	return buildFrame(MsgRwalk, m.MsgTag, p)
}

// TOpen prepares an existing fid for I/O in the given mode.
type TOpen struct {
	MsgTag uint16
	Fid    uint32
	Mode   OpenMode
}

func (m TOpen) Tag() uint16   { return m.MsgTag }
func (m TOpen) Type() MsgType { return MsgTopen }
func (m TOpen) encode() ([]byte, error) {
	p := NewWriter(5)
	p.PutUint32(m.Fid)
	p.PutUint8(uint8(m.Mode))
	return buildFrame(MsgTopen, m.MsgTag, p)
}

// ROpen answers a successful TOpen.
type ROpen struct {
	MsgTag uint16
	Qid    Qid
	Iounit uint32
}

func (m ROpen) Tag() uint16   { return m.MsgTag }
func (m ROpen) Type() MsgType { return MsgRopen }
func (m ROpen) encode() ([]byte, error) {
	p := NewWriter(qidLen + 4)
	p.PutQid(m.Qid)
	p.PutUint32(m.Iounit)
	return buildFrame(MsgRopen, m.MsgTag, p)
}

// TCreate creates Name in the directory named by Fid, then opens it with
// Mode. Extension is the 9P2000.u per-file extension string (e.g. a
// symlink target or device spec).
type TCreate struct {
	MsgTag    uint16
	Fid       uint32
	Name      string
	Perm      uint32
	Mode      OpenMode
	Extension string
}

func (m TCreate) Tag() uint16   { return m.MsgTag }
func (m TCreate) Type() MsgType { return MsgTcreate }
func (m TCreate) encode() ([]byte, error) {
	p := NewWriter(4 + 2 + len(m.Name) + 4 + 1 + 2 + len(m.Extension))
	p.PutUint32(m.Fid)
	if err := p.PutString(m.Name); err != nil {
		return nil, err
	}
	p.PutUint32(m.Perm)
	p.PutUint8(uint8(m.Mode))
	if err := p.PutString(m.Extension); err != nil {
		return nil, err
	}
	return buildFrame(MsgTcreate, m.MsgTag, p)
}

// RCreate answers a successful TCreate.
type RCreate struct {
	MsgTag uint16
	Qid    Qid
	Iounit uint32
}

func (m RCreate) Tag() uint16   { return m.MsgTag }
func (m RCreate) Type() MsgType { return MsgRcreate }
func (m RCreate) encode() ([]byte, error) {
	p := NewWriter(qidLen + 4)
	p.PutQid(m.Qid)
	p.PutUint32(m.Iounit)
	return buildFrame(MsgRcreate, m.MsgTag, p)
}

// TRead requests up to Count bytes from Fid, starting at Offset.
type TRead struct {
	MsgTag uint16
	Fid    uint32
	Offset uint64
	Count  uint32
}

func (m TRead) Tag() uint16   { return m.MsgTag }
func (m TRead) Type() MsgType { return MsgTread }
func (m TRead) encode() ([]byte, error) {
	p := NewWriter(4 + 8 + 4)
	p.PutUint32(m.Fid)
	p.PutUint64(m.Offset)
	p.PutUint32(m.Count)
	return buildFrame(MsgTread, m.MsgTag, p)
}

// RRead answers a TRead with the bytes actually read. Unlike a generic
// sequence-of-u8, the count field here is a u32, not a u16.
type RRead struct {
	MsgTag uint16
	Data   []byte
}

func (m RRead) Tag() uint16   { return m.MsgTag }
func (m RRead) Type() MsgType { return MsgRread }
func (m RRead) encode() ([]byte, error) {
	if uint64(len(m.Data)) > 1<<32-1 {
		return nil, ErrTooLong
	}
	p := NewWriter(4 + len(m.Data))
	p.PutUint32(uint32(len(m.Data)))
	p.PutRaw(m.Data)
	return buildFrame(MsgRread, m.MsgTag, p)
}

// TWrite writes Data to Fid at Offset.
type TWrite struct {
	MsgTag uint16
	Fid    uint32
	Offset uint64
	Data   []byte
}

func (m TWrite) Tag() uint16   { return m.MsgTag }
func (m TWrite) Type() MsgType { return MsgTwrite }
func (m TWrite) encode() ([]byte, error) {
	if uint64(len(m.Data)) > 1<<32-1 {
		return nil, ErrTooLong
	}
	p := NewWriter(4 + 8 + 4 + len(m.Data))
	p.PutUint32(m.Fid)
	p.PutUint64(m.Offset)
	p.PutUint32(uint32(len(m.Data)))
	p.PutRaw(m.Data)
	return buildFrame(MsgTwrite, m.MsgTag, p)
}

// RWrite answers a TWrite with the number of bytes actually written.
type RWrite struct {
	MsgTag uint16
	Count  uint32
}

func (m RWrite) Tag() uint16   { return m.MsgTag }
func (m RWrite) Type() MsgType { return MsgRwrite }
func (m RWrite) encode() ([]byte, error) {
	p := NewWriter(4)
	p.PutUint32(m.Count)
	return buildFrame(MsgRwrite, m.MsgTag, p)
}

// TClunk releases Fid without affecting the file it named.
type TClunk struct {
	MsgTag uint16
	Fid    uint32
}

func (m TClunk) Tag() uint16   { return m.MsgTag }
func (m TClunk) Type() MsgType { return MsgTclunk }
func (m TClunk) encode() ([]byte, error) {
	p := NewWriter(4)
	p.PutUint32(m.Fid)
	return buildFrame(MsgTclunk, m.MsgTag, p)
}

// RClunk acknowledges a TClunk.
type RClunk struct {
	MsgTag uint16
}

func (m RClunk) Tag() uint16   { return m.MsgTag }
func (m RClunk) Type() MsgType { return MsgRclunk }
func (m RClunk) encode() ([]byte, error) {
	return buildFrame(MsgRclunk, m.MsgTag, NewWriter(0))
}

// TRemove releases Fid and deletes the file it names.
type TRemove struct {
	MsgTag uint16
	Fid    uint32
}

func (m TRemove) Tag() uint16   { return m.MsgTag }
func (m TRemove) Type() MsgType { return MsgTremove }
func (m TRemove) encode() ([]byte, error) {
	p := NewWriter(4)
	p.PutUint32(m.Fid)
	return buildFrame(MsgTremove, m.MsgTag, p)
}

// RRemove acknowledges a TRemove.
type RRemove struct {
	MsgTag uint16
}

func (m RRemove) Tag() uint16   { return m.MsgTag }
func (m RRemove) Type() MsgType { return MsgRremove }
func (m RRemove) encode() ([]byte, error) {
	return buildFrame(MsgRremove, m.MsgTag, NewWriter(0))
}

// TStat requests the metadata of the file named by Fid.
type TStat struct {
	MsgTag uint16
	Fid    uint32
}

func (m TStat) Tag() uint16   { return m.MsgTag }
func (m TStat) Type() MsgType { return MsgTstat }
func (m TStat) encode() ([]byte, error) {
	p := NewWriter(4)
	p.PutUint32(m.Fid)
	return buildFrame(MsgTstat, m.MsgTag, p)
}

// RStat answers a TStat with the file's metadata.
type RStat struct {
	MsgTag uint16
	Stat   Stat
}

func (m RStat) Tag() uint16   { return m.MsgTag }
func (m RStat) Type() MsgType { return MsgRstat }
func (m RStat) encode() ([]byte, error) {
	p := NewWriter(2 + statMinLen + len(m.Stat.Name))
	if err := MarshalStatField(p, m.Stat); err != nil {
		return nil, err
	}
	return buildFrame(MsgRstat, m.MsgTag, p)
}

// TWStat requests that the file named by Fid take on the metadata in
// Stat. Fields set to their "don't touch" sentinel are left unmodified.
type TWStat struct {
	MsgTag uint16
	Fid    uint32
	Stat   Stat
}

func (m TWStat) Tag() uint16   { return m.MsgTag }
func (m TWStat) Type() MsgType { return MsgTwstat }
func (m TWStat) encode() ([]byte, error) {
	p := NewWriter(4 + 2 + statMinLen + len(m.Stat.Name))
	p.PutUint32(m.Fid)
	if err := MarshalStatField(p, m.Stat); err != nil {
		return nil, err
	}
	return buildFrame(MsgTwstat, m.MsgTag, p)
}

// RWStat acknowledges a successful TWStat.
type RWStat struct {
	MsgTag uint16
}

func (m RWStat) Tag() uint16   { return m.MsgTag }
func (m RWStat) Type() MsgType { return MsgRwstat }
func (m RWStat) encode() ([]byte, error) {
	return buildFrame(MsgRwstat, m.MsgTag, NewWriter(0))
}

// Unknown preserves an unrecognized message's raw type byte, tag, and
// trailing bytes. A dispatcher should respond to it with ENOSYS; Unknown
// is never itself written back to the wire (its encode method always
// returns an error).
type Unknown struct {
	MsgTag  uint16
	RawType uint8
	Payload []byte
}

func (m Unknown) Tag() uint16   { return m.MsgTag }
func (m Unknown) Type() MsgType { return msgUnknown }
func (m Unknown) encode() ([]byte, error) {
	return nil, fmt.Errorf("p9proto: cannot encode an Unknown message (raw type %d)", m.RawType)
}

// Decode parses one message body (everything in a frame after the
// size[4] prefix: type[1] tag[2] payload) into a concrete Msg. maxString
// bounds string/byte-sequence fields (0 means unbounded), and should be
// derived from the connection's negotiated msize.
func Decode(body []byte, maxString int) (Msg, error) {
	if len(body) < 3 {
		return nil, ErrShortFrame
	}
	mtype := MsgType(body[0])
	tag := uint16(body[1]) | uint16(body[2])<<8
	r := NewReader(body[3:])
	r.MaxString = maxString

	switch mtype {
	case MsgTversion:
		msize, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		ver, err := r.String()
		if err != nil {
			return nil, err
		}
		return TVersion{MsgTag: tag, Msize: msize, Version: ver}, nil
	case MsgRversion:
		msize, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		ver, err := r.String()
		if err != nil {
			return nil, err
		}
		return RVersion{MsgTag: tag, Msize: msize, Version: ver}, nil
	case MsgTauth:
		afid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		uname, err := r.String()
		if err != nil {
			return nil, err
		}
		aname, err := r.String()
		if err != nil {
			return nil, err
		}
		nuname, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TAuth{MsgTag: tag, Afid: afid, Uname: uname, Aname: aname, Nuname: nuname}, nil
	case MsgRauth:
		qid, err := r.Qid()
		if err != nil {
			return nil, err
		}
		return RAuth{MsgTag: tag, Aqid: qid}, nil
	case MsgTattach:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		afid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		uname, err := r.String()
		if err != nil {
			return nil, err
		}
		aname, err := r.String()
		if err != nil {
			return nil, err
		}
		nuname, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TAttach{MsgTag: tag, Fid: fid, Afid: afid, Uname: uname, Aname: aname, Nuname: nuname}, nil
	case MsgRattach:
		qid, err := r.Qid()
		if err != nil {
			return nil, err
		}
		return RAttach{MsgTag: tag, Qid: qid}, nil
	case MsgRerror:
		ename, err := r.String()
		if err != nil {
			return nil, err
		}
		errno, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return RError{MsgTag: tag, Ename: ename, Errno: errno}, nil
	case MsgTflush:
		oldtag, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		return TFlush{MsgTag: tag, Oldtag: oldtag}, nil
	case MsgRflush:
		return RFlush{MsgTag: tag}, nil
	case MsgTwalk:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		newfid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		n, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		if n > MaxWElem {
			return nil, ErrTooLong
		}
		names, err := r.Strings(int(n))
		if err != nil {
			return nil, err
		}
		return TWalk{MsgTag: tag, Fid: fid, Newfid: newfid, Wname: names}, nil
	case MsgRwalk:
		qids, err := r.Qids()
		if err != nil {
			return nil, err
		}
		return RWalk{MsgTag: tag, Wqid: qids}, nil
	case MsgTopen:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		mode, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		return TOpen{MsgTag: tag, Fid: fid, Mode: OpenMode(mode)}, nil
	case MsgRopen:
		qid, err := r.Qid()
		if err != nil {
			return nil, err
		}
		iounit, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return ROpen{MsgTag: tag, Qid: qid, Iounit: iounit}, nil
	case MsgTcreate:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		perm, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		mode, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		ext, err := r.String()
		if err != nil {
			return nil, err
		}
		return TCreate{MsgTag: tag, Fid: fid, Name: name, Perm: perm, Mode: OpenMode(mode), Extension: ext}, nil
	case MsgRcreate:
		qid, err := r.Qid()
		if err != nil {
			return nil, err
		}
		iounit, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return RCreate{MsgTag: tag, Qid: qid, Iounit: iounit}, nil
	case MsgTread:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		offset, err := r.Uint64()
		if err != nil {
			return nil, err
		}
		count, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TRead{MsgTag: tag, Fid: fid, Offset: offset, Count: count}, nil
	case MsgRread:
		count, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		data, err := r.Raw(int(count))
		if err != nil {
			return nil, err
		}
		return RRead{MsgTag: tag, Data: data}, nil
	case MsgTwrite:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		offset, err := r.Uint64()
		if err != nil {
			return nil, err
		}
		count, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		data, err := r.Raw(int(count))
		if err != nil {
			return nil, err
		}
		return TWrite{MsgTag: tag, Fid: fid, Offset: offset, Data: data}, nil
	case MsgRwrite:
		count, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return RWrite{MsgTag: tag, Count: count}, nil
	case MsgTclunk:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TClunk{MsgTag: tag, Fid: fid}, nil
	case MsgRclunk:
		return RClunk{MsgTag: tag}, nil
	case MsgTremove:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TRemove{MsgTag: tag, Fid: fid}, nil
	case MsgRremove:
		return RRemove{MsgTag: tag}, nil
	case MsgTstat:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		return TStat{MsgTag: tag, Fid: fid}, nil
	case MsgRstat:
		stat, err := UnmarshalStatField(r)
		if err != nil {
			return nil, err
		}
		return RStat{MsgTag: tag, Stat: stat}, nil
	case MsgTwstat:
		fid, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		stat, err := UnmarshalStatField(r)
		if err != nil {
			return nil, err
		}
		return TWStat{MsgTag: tag, Fid: fid, Stat: stat}, nil
	case MsgRwstat:
		return RWStat{MsgTag: tag}, nil
	default:
		return Unknown{MsgTag: tag, RawType: uint8(mtype), Payload: body[3:]}, nil
	}
}

// Encode returns the full wire frame (size[4] type[1] tag[2] payload) for m.
func Encode(m Msg) ([]byte, error) {
	return m.encode()
}
