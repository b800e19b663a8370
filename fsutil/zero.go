package fsutil

import (
	p9 "github.com/paultag/arigato"
	"github.com/paultag/arigato/p9proto"
)

// ZeroFS is an in-memory synthetic filesystem exposing a fixed directory
// of zero-byte devices: /zero (endless), /1gig, /10gig and /100gig
// (zero-filled, bounded). It is the filesystem used in the end-to-end
// scenario this module's tests are built around.
type ZeroFS struct{}

// Attach ignores uname/aname/nuname -- ZeroFS offers the same tree to
// every attach -- and returns the tree's root directory.
func (ZeroFS) Attach(uname, aname string, nuname uint32) (p9.File, error) {
	return zeroFile{kind: zeroDir}, nil
}

type zeroKind int

const (
	zeroDir zeroKind = iota
	zeroZero
	zeroGig
	zeroTenGig
	zeroHundredGig
)

func (k zeroKind) name() string {
	switch k {
	case zeroZero:
		return "zero"
	case zeroGig:
		return "1gig"
	case zeroTenGig:
		return "10gig"
	case zeroHundredGig:
		return "100gig"
	default:
		return "/"
	}
}

// size returns the device's advertised length; zeroZero and zeroDir have
// no fixed length.
func (k zeroKind) size() uint64 {
	switch k {
	case zeroGig:
		return 1_000_000_000
	case zeroTenGig:
		return 10_000_000_000
	case zeroHundredGig:
		return 100_000_000_000
	default:
		return 0
	}
}

func (k zeroKind) qid() p9proto.Qid {
	switch k {
	case zeroDir:
		return p9proto.NewQid(p9proto.FileTypeDir, 0, 1)
	case zeroZero:
		return p9proto.NewQid(p9proto.FileTypeFile, 0, 2)
	case zeroGig:
		return p9proto.NewQid(p9proto.FileTypeFile, 0, 3)
	case zeroTenGig:
		return p9proto.NewQid(p9proto.FileTypeFile, 0, 4)
	default: // zeroHundredGig
		return p9proto.NewQid(p9proto.FileTypeFile, 0, 5)
	}
}

type zeroFile struct {
	kind zeroKind
}

func (f zeroFile) Qid() p9proto.Qid { return f.kind.qid() }

func (f zeroFile) Stat() (p9proto.Stat, error) {
	b := p9proto.NewStatBuilder(f.kind.name(), f.kind.qid()).WithNumericOwner(0, 0, 0)
	switch f.kind {
	case zeroDir:
		b = b.WithMode(0777)
	case zeroZero:
		b = b.WithMode(0666)
	default:
		b = b.WithMode(0666).WithLength(f.kind.size())
	}
	return b.Build(), nil
}

func (f zeroFile) WStat(p9proto.Stat) error { return nil }

func (f zeroFile) Walk(path []string) (p9.File, []p9proto.Qid, error) {
	if len(path) == 0 {
		return f, nil, nil
	}
	if f.kind != zeroDir {
		return nil, nil, &p9.FileError{Errno: 2, Ename: "ENOENT"}
	}
	if len(path) != 1 {
		return nil, nil, &p9.FileError{Errno: 2, Ename: "ENOENT"}
	}
	var child zeroKind
	switch path[0] {
	case "zero":
		child = zeroZero
	case "1gig":
		child = zeroGig
	case "10gig":
		child = zeroTenGig
	case "100gig":
		child = zeroHundredGig
	default:
		return nil, nil, &p9.FileError{Errno: 2, Ename: "ENOENT"}
	}
	return zeroFile{kind: child}, []p9proto.Qid{f.Qid()}, nil
}

func (f zeroFile) Unlink() error { return &p9.FileError{Errno: 1, Ename: "EPERM"} }

func (f zeroFile) Create(name string, perm uint16, ty p9proto.FileType, mode p9proto.OpenMode, extension string) (p9.File, error) {
	return nil, &p9.FileError{Errno: 1, Ename: "EPERM"}
}

func (f zeroFile) Open(mode p9proto.OpenMode) (p9.OpenFile, error) {
	if f.kind == zeroDir {
		if mode.IO() != p9proto.OREAD {
			return nil, &p9.FileError{Errno: 1, Ename: "EPERM"}
		}
		w := p9proto.NewWriter(0)
		for _, k := range []zeroKind{zeroZero, zeroGig, zeroTenGig, zeroHundredGig} {
			stat, _ := zeroFile{kind: k}.Stat()
			if err := stat.Marshal(w); err != nil {
				return nil, &p9.FileError{Errno: 22, Ename: "EINVAL"}
			}
		}
		return &zeroOpenFile{kind: zeroDir, listing: w.Bytes()}, nil
	}
	return &zeroOpenFile{kind: f.kind}, nil
}

// zeroOpenFile backs every open fid on a ZeroFS tree. For the directory
// it serves a pre-marshaled listing of the device Stats; for the devices
// it synthesizes zero bytes without ever allocating a buffer of its own.
type zeroOpenFile struct {
	kind    zeroKind
	listing []byte
}

func (o *zeroOpenFile) IOUnit() uint32 { return 0 }

func (o *zeroOpenFile) ReadAt(buf []byte, offset uint64) (int, error) {
	switch o.kind {
	case zeroDir:
		if offset >= uint64(len(o.listing)) {
			return 0, nil
		}
		return copy(buf, o.listing[offset:]), nil
	case zeroZero:
		return len(buf), nil
	default:
		size := o.kind.size()
		if offset >= size {
			return 0, nil
		}
		remaining := size - offset
		n := len(buf)
		if uint64(n) > remaining {
			n = int(remaining)
		}
		return n, nil
	}
}

func (o *zeroOpenFile) WriteAt(data []byte, offset uint64) (int, error) {
	if o.kind == zeroZero {
		return len(data), nil
	}
	return 0, &p9.FileError{Errno: 1, Ename: "EPERM"}
}
