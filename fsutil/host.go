package fsutil

import (
	"io"
	"os"
	"path/filepath"

	p9 "github.com/paultag/arigato"
	"github.com/paultag/arigato/p9proto"
)

// HostFS is a read-only passthrough Filesystem rooted at a directory on
// the host. Every attach sees the same tree regardless of uname/aname;
// paths are resolved with CleanPath so a walk can never escape Root.
type HostFS struct {
	Root string
}

// NewHostFS returns a HostFS serving root.
func NewHostFS(root string) *HostFS {
	return &HostFS{Root: root}
}

func (fs *HostFS) Attach(uname, aname string, nuname uint32) (p9.File, error) {
	return fs.fileAt("/")
}

func (fs *HostFS) fileAt(vpath string) (*hostFile, error) {
	real := filepath.Join(fs.Root, filepath.FromSlash(vpath))
	info, err := os.Lstat(real)
	if err != nil {
		return nil, hostIOError(err)
	}
	ty := fileTypeFromMode(info.Mode())
	qid := p9proto.NewQid(ty, uint32(info.ModTime().Unix()), fileIno(info))
	return &hostFile{fs: fs, vpath: vpath, real: real, qid: qid}, nil
}

func fileTypeFromMode(mode os.FileMode) p9proto.FileType {
	switch {
	case mode&os.ModeSymlink != 0:
		return p9proto.FileTypeLink
	case mode&os.ModeDir != 0:
		return p9proto.FileTypeDir
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0:
		return p9proto.FileTypeDevice
	case mode&os.ModeNamedPipe != 0:
		return p9proto.FileTypeNamedPipe
	case mode&os.ModeSocket != 0:
		return p9proto.FileTypeSocket
	default:
		return p9proto.FileTypeFile
	}
}

// hostIOError maps a host os error to the wire-level FileError,
// borrowing the host's own errno when one is available.
func hostIOError(err error) error {
	if errno, ok := errnoOf(err); ok {
		return &p9.FileError{Errno: errno, Ename: err.Error()}
	}
	return &p9.FileError{Errno: p9.NoErrno, Ename: err.Error()}
}

type hostFile struct {
	fs    *HostFS
	vpath string
	real  string
	qid   p9proto.Qid
}

func (f *hostFile) Qid() p9proto.Qid { return f.qid }

func (f *hostFile) Stat() (p9proto.Stat, error) {
	info, err := os.Lstat(f.real)
	if err != nil {
		return p9proto.Stat{}, hostIOError(err)
	}
	ty := fileTypeFromMode(info.Mode())
	uid, gid, muid := fileOwner(info)

	b := p9proto.NewStatBuilder(filepath.Base(f.real), f.qid).
		WithMode(uint32(info.Mode().Perm())|ty.ModeBits()).
		WithTimes(uint32(info.ModTime().Unix()), uint32(info.ModTime().Unix())).
		WithLength(uint64(info.Size())).
		WithOwner(uid, gid, muid)

	if ty == p9proto.FileTypeLink {
		target, err := os.Readlink(f.real)
		if err != nil {
			return p9proto.Stat{}, &p9.FileError{Errno: 74, Ename: "EBADMSG"}
		}
		b = b.WithExtension(target)
	}
	return b.Build(), nil
}

func (f *hostFile) WStat(p9proto.Stat) error {
	return &p9.FileError{Errno: 1, Ename: "EPERM"}
}

func (f *hostFile) Walk(path []string) (p9.File, []p9proto.Qid, error) {
	if len(path) == 0 {
		return f, nil, nil
	}
	vpath := f.vpath
	qids := make([]p9proto.Qid, 0, len(path))
	var cur *hostFile = f
	for _, elem := range path {
		vpath = CleanPath(vpath, []string{elem})
		next, err := f.fs.fileAt(vpath)
		if err != nil {
			return nil, qids, nil
		}
		qids = append(qids, next.Qid())
		cur = next
	}
	return cur, qids, nil
}

func (f *hostFile) Unlink() error {
	return &p9.FileError{Errno: 1, Ename: "EPERM"}
}

func (f *hostFile) Create(name string, perm uint16, ty p9proto.FileType, mode p9proto.OpenMode, extension string) (p9.File, error) {
	return nil, &p9.FileError{Errno: 1, Ename: "EPERM"}
}

func (f *hostFile) Open(mode p9proto.OpenMode) (p9.OpenFile, error) {
	if mode.IO() != p9proto.OREAD {
		return nil, &p9.FileError{Errno: 1, Ename: "EPERM"}
	}
	info, err := os.Lstat(f.real)
	if err != nil {
		return nil, hostIOError(err)
	}
	if info.IsDir() {
		entries, err := os.ReadDir(f.real)
		if err != nil {
			return nil, hostIOError(err)
		}
		w := p9proto.NewWriter(0)
		for _, ent := range entries {
			child, err := f.fs.fileAt(CleanPath(f.vpath, []string{ent.Name()}))
			if err != nil {
				continue
			}
			stat, err := child.Stat()
			if err != nil {
				continue
			}
			if err := stat.Marshal(w); err != nil {
				return nil, &p9.FileError{Errno: 22, Ename: "EINVAL"}
			}
		}
		return &hostOpenFile{listing: w.Bytes()}, nil
	}

	osFile, err := os.Open(f.real)
	if err != nil {
		return nil, hostIOError(err)
	}
	return &hostOpenFile{file: osFile}, nil
}

// hostOpenFile backs one open fid against HostFS: either a directory's
// pre-marshaled listing, or a real *os.File for a regular file.
type hostOpenFile struct {
	file    *os.File
	listing []byte
}

func (o *hostOpenFile) IOUnit() uint32 { return 0 }

func (o *hostOpenFile) ReadAt(buf []byte, offset uint64) (int, error) {
	if o.file != nil {
		n, err := o.file.ReadAt(buf, int64(offset))
		if err == io.EOF {
			return n, nil
		}
		if err != nil && n == 0 {
			return 0, hostIOError(err)
		}
		return n, nil
	}
	if offset >= uint64(len(o.listing)) {
		return 0, nil
	}
	return copy(buf, o.listing[offset:]), nil
}

func (o *hostOpenFile) WriteAt(data []byte, offset uint64) (int, error) {
	return 0, &p9.FileError{Errno: 1, Ename: "EPERM"}
}
