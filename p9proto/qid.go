package p9proto

import (
	"encoding/binary"
	"fmt"
)

// A Qid is the server's unique identification for a file: two files on
// the same hierarchy are the same file if and only if their Qids compare
// equal. Qid is a fixed 13-byte value: type[1] version[4] path[8].
type Qid [qidLen]byte

// NewQid builds a Qid from its three logical fields.
func NewQid(ty FileType, version uint32, path uint64) Qid {
	var q Qid
	q[0] = ty.QidByte()
	binary.LittleEndian.PutUint32(q[1:5], version)
	binary.LittleEndian.PutUint64(q[5:13], path)
	return q
}

// Type returns the qid-type byte, a bit-mask of file kinds.
func (q Qid) Type() uint8 { return q[0] }

// Version is incremented, by convention, each time the file is modified.
func (q Qid) Version() uint32 { return binary.LittleEndian.Uint32(q[1:5]) }

// Path uniquely identifies a file among all files ever served by a given
// filesystem, independent of its name.
func (q Qid) Path() uint64 { return binary.LittleEndian.Uint64(q[5:13]) }

func (q Qid) String() string {
	return fmt.Sprintf("{type=%#02x version=%d path=%d}", q.Type(), q.Version(), q.Path())
}

// Marshal appends the wire encoding of q to w.
func (q Qid) Marshal(w *Writer) { w.buf = append(w.buf, q[:]...) }

// UnmarshalQid reads one Qid from r, advancing the cursor by 13 bytes.
func UnmarshalQid(r *Reader) (Qid, error) {
	b, err := r.take(qidLen)
	if err != nil {
		return Qid{}, err
	}
	var q Qid
	copy(q[:], b)
	return q, nil
}

// FileType is a closed enum over the logical kinds of file a Qid or Stat
// mode word can name. The zero value is FileTypeFile.
type FileType struct {
	kind fileTypeKind
	raw  uint8 // only meaningful when kind == ftUnknown
}

type fileTypeKind uint8

const (
	ftFile fileTypeKind = iota
	ftDir
	ftAppend
	ftExcl
	ftAuth
	ftTmp
	ftLink
	ftDevice
	ftNamedPipe
	ftSocket
	ftUnknown
)

var (
	FileTypeFile      = FileType{kind: ftFile}
	FileTypeDir       = FileType{kind: ftDir}
	FileTypeAppend    = FileType{kind: ftAppend}
	FileTypeExcl      = FileType{kind: ftExcl}
	FileTypeAuth      = FileType{kind: ftAuth}
	FileTypeTmp       = FileType{kind: ftTmp}
	FileTypeLink      = FileType{kind: ftLink}
	FileTypeDevice    = FileType{kind: ftDevice}
	FileTypeNamedPipe = FileType{kind: ftNamedPipe}
	FileTypeSocket    = FileType{kind: ftSocket}
)

// UnknownFileType represents a forward-compatible qid-type byte that this
// package does not otherwise recognize.
func UnknownFileType(raw uint8) FileType {
	return FileType{kind: ftUnknown, raw: raw}
}

// IsUnknown reports whether t is a forward-compatible Unknown(v) value.
func (t FileType) IsUnknown() bool { return t.kind == ftUnknown }

// QidByte returns the qid-type byte for t. Device, NamedPipe and Socket
// all encode to 0, the same as File: that information survives only in
// the 32-bit mode word (ModeBits).
func (t FileType) QidByte() uint8 {
	switch t.kind {
	case ftDir:
		return 0x80
	case ftAppend:
		return 0x40
	case ftExcl:
		return 0x20
	case ftAuth:
		return 0x08
	case ftTmp:
		return 0x04
	case ftLink:
		return 0x02
	case ftUnknown:
		return t.raw
	default: // File, Device, NamedPipe, Socket
		return 0x00
	}
}

// ModeBits returns the bits t contributes to a 32-bit stat mode word,
// already shifted into position.
func (t FileType) ModeBits() uint32 {
	switch t.kind {
	case ftDir:
		return 0x80000000
	case ftAppend:
		return 0x40000000
	case ftExcl:
		return 0x20000000
	case ftAuth:
		return 0x08000000
	case ftTmp:
		return 0x04000000
	case ftLink:
		return 0x02000000
	case ftDevice:
		return 0x00800000
	case ftNamedPipe:
		return 0x00200000
	case ftSocket:
		return 0x00100000
	case ftUnknown:
		return uint32(t.raw) << 24
	default: // File
		return 0
	}
}

// FileTypeFromQidByte decodes a FileType from a qid-type byte alone. Since
// Device, NamedPipe and Socket are indistinguishable from File at this
// granularity, this should only be used when the full mode word is
// unavailable (e.g. reconstructing from a bare Qid).
func FileTypeFromQidByte(b uint8) FileType {
	switch b {
	case 0x80:
		return FileTypeDir
	case 0x40:
		return FileTypeAppend
	case 0x20:
		return FileTypeExcl
	case 0x08:
		return FileTypeAuth
	case 0x04:
		return FileTypeTmp
	case 0x02:
		return FileTypeLink
	case 0x00:
		return FileTypeFile
	default:
		return UnknownFileType(b)
	}
}

// FileTypeFromMode decodes a FileType from a full 32-bit stat mode word.
// The low 9 permission bits are masked off first; the three "special"
// patterns (Device, NamedPipe, Socket) are checked before falling back to
// the qid-type byte in the top 8 bits.
func FileTypeFromMode(mode uint32) FileType {
	masked := mode &^ 0x1FF
	switch {
	case masked&0x00800000 != 0:
		return FileTypeDevice
	case masked&0x00200000 != 0:
		return FileTypeNamedPipe
	case masked&0x00100000 != 0:
		return FileTypeSocket
	}
	return FileTypeFromQidByte(uint8(mode >> 24))
}

func (t FileType) String() string {
	switch t.kind {
	case ftFile:
		return "File"
	case ftDir:
		return "Dir"
	case ftAppend:
		return "Append"
	case ftExcl:
		return "Excl"
	case ftAuth:
		return "Auth"
	case ftTmp:
		return "Tmp"
	case ftLink:
		return "Link"
	case ftDevice:
		return "Device"
	case ftNamedPipe:
		return "NamedPipe"
	case ftSocket:
		return "Socket"
	default:
		return fmt.Sprintf("Unknown(%#02x)", t.raw)
	}
}

// OpenMode is the 8-bit mode argument to Topen/Tcreate.
type OpenMode uint8

// I/O direction bits of an OpenMode; OREAD is the zero value.
const (
	OREAD  OpenMode = 0
	OWRITE OpenMode = 1
	ORDWR  OpenMode = 2
	OEXEC  OpenMode = 3
)

// Flag bits that may be combined with an I/O direction.
const (
	OTRUNC  OpenMode = 0x10
	ORCLOSE OpenMode = 0x40
)

// IO returns the low two bits of m, naming the requested I/O direction.
func (m OpenMode) IO() OpenMode { return m & 0x03 }

// Truncate reports whether the truncate flag (0x10) is set.
func (m OpenMode) Truncate() bool { return m&OTRUNC != 0 }

// RemoveOnClunk reports whether the remove-on-clunk flag (0x40) is set.
func (m OpenMode) RemoveOnClunk() bool { return m&ORCLOSE != 0 }

// Exec reports whether the I/O direction names execute access.
func (m OpenMode) Exec() bool { return m&0x03 == OEXEC }

func (m OpenMode) String() string {
	dir := [4]string{"OREAD", "OWRITE", "ORDWR", "OEXEC"}[m.IO()]
	extra := ""
	if m.Truncate() {
		extra += "|OTRUNC"
	}
	if m.RemoveOnClunk() {
		extra += "|ORCLOSE"
	}
	return dir + extra
}
