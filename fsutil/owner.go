package fsutil

import (
	"errors"
	"os"
	"syscall"
)

// DefaultUid, DefaultGid and DefaultMuid are used when ownership
// information cannot be determined for a host file.
const (
	DefaultUid  = ""
	DefaultGid  = ""
	DefaultMuid = ""
)

// fileOwner retrieves textual uid/gid/muid for a host file. The
// platform-specific half of this lookup (fileOwnerFromSys) lives in
// owner_unix.go / owner_plan9.go.
func fileOwner(fi os.FileInfo) (uid, gid, muid string) {
	if uid, gid, muid, ok := fileOwnerFromSys(fi.Sys()); ok {
		return uid, gid, muid
	}
	return DefaultUid, DefaultGid, DefaultMuid
}

// fileIno extracts a platform inode number to seed a Qid's path field;
// 0 if unavailable.
func fileIno(fi os.FileInfo) uint64 {
	return fileInoFromSys(fi.Sys())
}

// errnoOf unwraps err looking for the host's own syscall.Errno, so a
// FileError can carry the real POSIX error number back to the client
// instead of the generic NoErrno sentinel.
func errnoOf(err error) (uint32, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno), true
	}
	return 0, false
}
