//go:build android || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package fsutil

import (
	"os/user"
	"strconv"
	"syscall"
)

func fileOwnerFromSys(sys interface{}) (uid, gid, muid string, ok bool) {
	stat, isStat := sys.(*syscall.Stat_t)
	if !isStat {
		return "", "", "", false
	}
	uid = strconv.FormatUint(uint64(stat.Uid), 10)
	gid = strconv.FormatUint(uint64(stat.Gid), 10)
	muid = uid

	if u, err := user.LookupId(uid); err == nil {
		uid = u.Username
		muid = u.Username
	}
	if g, err := user.LookupGroupId(gid); err == nil {
		gid = g.Name
	}
	return uid, gid, muid, true
}

func fileInoFromSys(sys interface{}) uint64 {
	if stat, ok := sys.(*syscall.Stat_t); ok {
		return stat.Ino
	}
	return 0
}
