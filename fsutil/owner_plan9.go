//go:build plan9

package fsutil

import "syscall"

func fileOwnerFromSys(sys interface{}) (uid, gid, muid string, ok bool) {
	dir, isDir := sys.(*syscall.Dir)
	if !isDir {
		return "", "", "", false
	}
	return dir.Uid, dir.Gid, dir.Muid, true
}

func fileInoFromSys(sys interface{}) uint64 {
	if dir, ok := sys.(*syscall.Dir); ok {
		return dir.Qid.Path
	}
	return 0
}
