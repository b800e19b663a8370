package p9proto

// Stat describes one directory entry: the fields shared by 9P2000, plus
// the four 9P2000.u fields (Extension and the three numeric ids) that
// make this the ".u" variant of the structure.
//
// Stat is the subtle part of the codec: on the wire a Stat value is its
// own self-delimited blob (a u16 body-length prefix followed by the
// body), and whenever a Stat appears embedded in another message
// (Rstat, Twstat) that blob is wrapped in a *second* u16 length prefix.
// Marshal/UnmarshalStat handle the first layer; MarshalStatField/
// UnmarshalStatField handle a Stat embedded in a message.
type Stat struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64

	Name, Uid, Gid, Muid string

	// Extension and the three numeric ids below are the 9P2000.u
	// additions to the base 9P2000 Stat structure.
	Extension string
	Nuid      uint32
	Ngid      uint32
	Nmuid     uint32
}

func (s Stat) marshalBody(w *Writer) error {
	w.PutUint16(s.Type)
	w.PutUint32(s.Dev)
	w.PutQid(s.Qid)
	w.PutUint32(s.Mode)
	w.PutUint32(s.Atime)
	w.PutUint32(s.Mtime)
	w.PutUint64(s.Length)
	if err := w.PutStrings(s.Name, s.Uid, s.Gid, s.Muid, s.Extension); err != nil {
		return err
	}
	w.PutUint32(s.Nuid)
	w.PutUint32(s.Ngid)
	w.PutUint32(s.Nmuid)
	return nil
}

func unmarshalStatBody(r *Reader) (Stat, error) {
	var s Stat
	var err error
	if s.Type, err = r.Uint16(); err != nil {
		return Stat{}, err
	}
	if s.Dev, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Qid, err = r.Qid(); err != nil {
		return Stat{}, err
	}
	if s.Mode, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Atime, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Mtime, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Length, err = r.Uint64(); err != nil {
		return Stat{}, err
	}
	if s.Name, err = r.String(); err != nil {
		return Stat{}, err
	}
	if s.Uid, err = r.String(); err != nil {
		return Stat{}, err
	}
	if s.Gid, err = r.String(); err != nil {
		return Stat{}, err
	}
	if s.Muid, err = r.String(); err != nil {
		return Stat{}, err
	}
	if s.Extension, err = r.String(); err != nil {
		return Stat{}, err
	}
	if s.Nuid, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Ngid, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	if s.Nmuid, err = r.Uint32(); err != nil {
		return Stat{}, err
	}
	// The source this package is modeled on reads the outer length but
	// does not use it to bound the body read, silently accepting
	// trailing garbage. We don't: the reader we hydrated from was
	// already sliced to exactly the declared length, so any bytes left
	// over mean the declared length lied.
	if r.Len() != 0 {
		return Stat{}, ErrLongStat
	}
	return s, nil
}

// Marshal appends the self-delimited wire form of s to w: a u16 body
// length followed by the body.
func (s Stat) Marshal(w *Writer) error {
	scratch := NewWriter(statMinLen + len(s.Name) + len(s.Uid) + len(s.Gid) + len(s.Muid) + len(s.Extension))
	if err := s.marshalBody(scratch); err != nil {
		return err
	}
	if scratch.Len() > statMaxLen {
		return ErrLongStat
	}
	w.PutUint16(uint16(scratch.Len()))
	w.PutRaw(scratch.Bytes())
	return nil
}

// UnmarshalStat reads one self-delimited Stat value: a u16 body length
// followed by exactly that many bytes of body.
func UnmarshalStat(r *Reader) (Stat, error) {
	n, err := r.Uint16()
	if err != nil {
		return Stat{}, err
	}
	if int(n) < statMinLen {
		return Stat{}, ErrShortStat
	}
	body, err := r.Raw(int(n))
	if err != nil {
		return Stat{}, err
	}
	br := NewReader(body)
	br.MaxString = r.MaxString
	return unmarshalStatBody(br)
}

// MarshalStatField appends s wrapped in the *outer* length prefix used
// when a Stat is embedded in an Rstat or Twstat message: outer-size[2]
// followed by the self-delimited Stat blob from Marshal.
func MarshalStatField(w *Writer, s Stat) error {
	scratch := NewWriter(statMinLen + len(s.Name) + len(s.Uid) + len(s.Gid) + len(s.Muid) + len(s.Extension) + 2)
	if err := s.Marshal(scratch); err != nil {
		return err
	}
	if scratch.Len() > 1<<16-1 {
		return ErrLongStat
	}
	w.PutUint16(uint16(scratch.Len()))
	w.PutRaw(scratch.Bytes())
	return nil
}

// UnmarshalStatField reads a Stat embedded in an Rstat or Twstat message:
// the outer length is used to slice the input before the inner,
// self-delimited Stat is hydrated, and any bytes left over after that
// inner read are rejected as trailing garbage.
func UnmarshalStatField(r *Reader) (Stat, error) {
	outerLen, err := r.Uint16()
	if err != nil {
		return Stat{}, err
	}
	inner, err := r.Raw(int(outerLen))
	if err != nil {
		return Stat{}, err
	}
	ir := NewReader(inner)
	ir.MaxString = r.MaxString
	stat, err := UnmarshalStat(ir)
	if err != nil {
		return Stat{}, err
	}
	if ir.Len() != 0 {
		return Stat{}, ErrLongStat
	}
	return stat, nil
}

// StatBuilder constructs a Stat while maintaining the invariant that the
// top byte of Mode always agrees with the Qid's type: builder(name,
// qid).WithMode(...).Build() always yields a Stat where
// stat.Mode&0xFF000000 == uint32(qid.Type())<<24.
type StatBuilder struct {
	s Stat
}

// NewStatBuilder starts building a Stat for the given name and Qid.
func NewStatBuilder(name string, qid Qid) *StatBuilder {
	return &StatBuilder{s: Stat{Name: name, Qid: qid}}
}

// WithMode sets the permission and type bits of the Stat being built.
// The top byte is always overwritten by Build to match the Qid's type,
// so callers only need to set the permission bits here.
func (b *StatBuilder) WithMode(mode uint32) *StatBuilder {
	b.s.Mode = mode
	return b
}

// WithDev sets the implementation-specific device field.
func (b *StatBuilder) WithDev(dev uint32) *StatBuilder {
	b.s.Dev = dev
	return b
}

// WithLength sets the file length in bytes.
func (b *StatBuilder) WithLength(n uint64) *StatBuilder {
	b.s.Length = n
	return b
}

// WithTimes sets the access and modification times, in seconds since the epoch.
func (b *StatBuilder) WithTimes(atime, mtime uint32) *StatBuilder {
	b.s.Atime, b.s.Mtime = atime, mtime
	return b
}

// WithOwner sets the textual uid, gid and muid fields.
func (b *StatBuilder) WithOwner(uid, gid, muid string) *StatBuilder {
	b.s.Uid, b.s.Gid, b.s.Muid = uid, gid, muid
	return b
}

// WithNumericOwner sets the 9P2000.u numeric uid, gid and muid fields.
func (b *StatBuilder) WithNumericOwner(nuid, ngid, nmuid uint32) *StatBuilder {
	b.s.Nuid, b.s.Ngid, b.s.Nmuid = nuid, ngid, nmuid
	return b
}

// WithExtension sets the 9P2000.u extension string (e.g. a symlink target).
func (b *StatBuilder) WithExtension(ext string) *StatBuilder {
	b.s.Extension = ext
	return b
}

// Build returns the constructed Stat, enforcing the mode/qid-type invariant.
func (b *StatBuilder) Build() Stat {
	b.s.Mode = (b.s.Mode & 0x00FFFFFF) | (uint32(b.s.Qid.Type()) << 24)
	return b.s
}

// DontTouchU32 is the 9P2000 "don't touch this field" sentinel for
// integral Stat fields in a Twstat request.
const DontTouchU32 uint32 = 1<<32 - 1

// DontTouchU64 is the sentinel for the Length field (the only 64-bit
// integral field in a Stat).
const DontTouchU64 uint64 = 1<<64 - 1
