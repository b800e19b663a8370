package fsutil

import (
	"os"
	"strconv"
	"testing"
)

func TestFileOwnerMuidMatchesUid(t *testing.T) {
	dir := t.TempDir()
	info, err := os.Lstat(dir)
	if err != nil {
		t.Fatal(err)
	}
	uid, _, muid := fileOwner(info)
	if uid == DefaultUid {
		t.Skip("platform did not resolve an owner for this file")
	}
	if uid != muid {
		t.Errorf("uid %q != muid %q; fileOwner should default muid to uid", uid, muid)
	}
	// uid may have resolved to either a numeric string or a looked-up
	// username; either way it must not be empty.
	if _, err := strconv.ParseUint(uid, 10, 32); err != nil {
		if uid == "" {
			t.Error("fileOwner returned an empty uid")
		}
	}
}

func TestFileInoNonZeroForRealFile(t *testing.T) {
	dir := t.TempDir()
	info, err := os.Lstat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if fileIno(info) == 0 {
		t.Error("fileIno returned 0 for a real directory")
	}
}
