package p9

import "github.com/paultag/arigato/p9proto"

// Filesystem is the capability an embedding application registers under
// one or more aname strings. A Conn looks up the aname of an incoming
// TAttach in the set of registered Filesystems.
type Filesystem interface {
	// Attach authenticates uname (and its 9P2000.u numeric form nuname)
	// against aname and returns the root File of the attached tree. An
	// embedder that offers no authentication is free to ignore uname and
	// nuname entirely; refusing the attach is signaled by returning a
	// *FileError.
	Attach(uname, aname string, nuname uint32) (File, error)
}

// File is a cheap, clonable handle to one node in a Filesystem's
// hierarchy -- it names a file, it does not own it. Walk returns a new
// File handle for the node it reaches; a connection may hold
// many File values referring to the same underlying node.
type File interface {
	// Qid returns the file's identity. It must be cheap: the dispatcher
	// calls it on every reply that carries a qid.
	Qid() p9proto.Qid

	// Stat returns the file's current metadata.
	Stat() (p9proto.Stat, error)

	// WStat applies a Twstat request to the file. Fields set to their
	// "don't touch" sentinel (p9proto.DontTouchU32/DontTouchU64) must be
	// left unmodified.
	WStat(stat p9proto.Stat) error

	// Walk traverses path, one element at a time. It returns the File
	// reached by the full path (nil if the walk did not reach the end)
	// and the qids of every element successfully traversed along the
	// way. An empty path returns (a handle equivalent to the receiver,
	// nil).
	//
	// The two pragmatic outcomes a caller must honor: if final is nil
	// and len(qids) == len(path), the walk is reported as ENOENT (the
	// count succeeded but the terminal file is unreachable); if final is
	// non-nil and len(qids) != len(path), the dispatcher reports EINVAL
	// (the back-end's own bookkeeping is inconsistent).
	Walk(path []string) (final File, qids []p9proto.Qid, err error)

	// Unlink deletes the file. The fid naming it is released by the
	// dispatcher regardless of whether Unlink succeeds.
	Unlink() error

	// Create makes a new child of the receiver (which must be a
	// directory) named name, with the given permission bits, type, open
	// mode and 9P2000.u extension string, and returns a handle to it.
	// The dispatcher immediately calls Open on the result with mode.
	Create(name string, perm uint16, ty p9proto.FileType, mode p9proto.OpenMode, extension string) (File, error)

	// Open prepares the file for I/O in the given mode and returns an
	// OpenFile capability.
	Open(mode p9proto.OpenMode) (OpenFile, error)
}

// OpenFile is the capability returned by File.Open or File.Create: it
// governs I/O against one fid's currently-open state.
type OpenFile interface {
	// IOUnit is the back-end's preferred I/O granularity for this file,
	// reported to the client as Ropen/Rcreate's iounit field. 0 means no
	// preference.
	IOUnit() uint32

	// ReadAt reads into buf starting at offset and returns the number of
	// bytes read. It follows the same partial-read contract as
	// io.ReaderAt, except that returning (n, nil) with n < len(buf) is
	// permitted (the dispatcher replies with exactly n bytes; it does
	// not treat a short read as an error the way io.ReaderAt callers
	// conventionally would).
	ReadAt(buf []byte, offset uint64) (int, error)

	// WriteAt writes data at offset and returns the number of bytes
	// written.
	WriteAt(data []byte, offset uint64) (int, error)
}
