package p9

import (
	"testing"

	"github.com/paultag/arigato/p9proto"
)

// fakeFile is a minimal File used to exercise dispatch logic that does not
// need a real filesystem backend: Create/Open's iounit contract, and the
// Walk inconsistency mapping.
type fakeFile struct {
	qid     p9proto.Qid
	walkErr error
	final   File
	qids    []p9proto.Qid
}

func (f *fakeFile) Qid() p9proto.Qid                  { return f.qid }
func (f *fakeFile) Stat() (p9proto.Stat, error)       { return p9proto.Stat{}, nil }
func (f *fakeFile) WStat(p9proto.Stat) error          { return nil }
func (f *fakeFile) Unlink() error                     { return nil }
func (f *fakeFile) Walk(path []string) (File, []p9proto.Qid, error) {
	return f.final, f.qids, f.walkErr
}
func (f *fakeFile) Create(name string, perm uint16, ty p9proto.FileType, mode p9proto.OpenMode, ext string) (File, error) {
	return &fakeFile{qid: f.qid}, nil
}
func (f *fakeFile) Open(mode p9proto.OpenMode) (OpenFile, error) {
	return &fakeOpenFile{iounit: 4096}, nil
}

type fakeOpenFile struct{ iounit uint32 }

func (o *fakeOpenFile) IOUnit() uint32                               { return o.iounit }
func (o *fakeOpenFile) ReadAt(buf []byte, offset uint64) (int, error) { return 0, nil }
func (o *fakeOpenFile) WriteAt(data []byte, offset uint64) (int, error) {
	return len(data), nil
}

func newTestConn() *Conn {
	c := &Conn{srv: &Server{}, fids: newFidTable(), tags: newTagTable(), msize: p9proto.DefaultMsize}
	return c
}

func TestHandleCreateReportsZeroIounit(t *testing.T) {
	c := newTestConn()
	f := &fakeFile{qid: p9proto.NewQid(p9proto.FileTypeDir, 0, 1)}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TCreate{MsgTag: 1, Fid: 0, Name: "new", Perm: 0644, Mode: p9proto.OWRITE})
	rc, ok := rsp.(p9proto.RCreate)
	if !ok {
		t.Fatalf("expected RCreate, got %#v", rsp)
	}
	// The opened child reports iounit=4096 via fakeOpenFile, but Rcreate
	// must report 0 regardless -- unlike Ropen.
	if rc.Iounit != 0 {
		t.Errorf("RCreate.Iounit = %d, want 0", rc.Iounit)
	}
}

func TestHandleOpenReportsBackendIounit(t *testing.T) {
	c := newTestConn()
	f := &fakeFile{qid: p9proto.NewQid(p9proto.FileTypeFile, 0, 2)}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TOpen{MsgTag: 1, Fid: 0, Mode: p9proto.OREAD})
	ro, ok := rsp.(p9proto.ROpen)
	if !ok {
		t.Fatalf("expected ROpen, got %#v", rsp)
	}
	if ro.Iounit != 4096 {
		t.Errorf("ROpen.Iounit = %d, want 4096", ro.Iounit)
	}
}

func TestHandleWalkEnoentWhenFinalNil(t *testing.T) {
	c := newTestConn()
	f := &fakeFile{
		qid:   p9proto.NewQid(p9proto.FileTypeDir, 0, 1),
		final: nil,
		qids:  []p9proto.Qid{p9proto.NewQid(p9proto.FileTypeDir, 0, 1)},
	}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TWalk{MsgTag: 1, Fid: 0, Newfid: 1, Wname: []string{"missing"}})
	rerr, ok := rsp.(p9proto.RError)
	if !ok {
		t.Fatalf("expected RError(ENOENT), got %#v", rsp)
	}
	if rerr.Errno != 2 {
		t.Errorf("RError.Errno = %d, want 2 (ENOENT)", rerr.Errno)
	}
}

func TestHandleWalkEinvalOnBackendInconsistency(t *testing.T) {
	c := newTestConn()
	child := &fakeFile{qid: p9proto.NewQid(p9proto.FileTypeFile, 0, 2)}
	f := &fakeFile{
		qid:   p9proto.NewQid(p9proto.FileTypeDir, 0, 1),
		final: child,
		qids:  nil, // inconsistent: final is non-nil but no qids were walked
	}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TWalk{MsgTag: 1, Fid: 0, Newfid: 1, Wname: []string{"a"}})
	rerr, ok := rsp.(p9proto.RError)
	if !ok {
		t.Fatalf("expected RError(EINVAL), got %#v", rsp)
	}
	if rerr.Errno != 22 {
		t.Errorf("RError.Errno = %d, want 22 (EINVAL)", rerr.Errno)
	}
}

func TestHandleWalkSameFidRebind(t *testing.T) {
	c := newTestConn()
	child := &fakeFile{qid: p9proto.NewQid(p9proto.FileTypeFile, 0, 2)}
	f := &fakeFile{
		qid:   p9proto.NewQid(p9proto.FileTypeDir, 0, 1),
		final: child,
		qids:  []p9proto.Qid{child.qid},
	}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TWalk{MsgTag: 1, Fid: 0, Newfid: 0, Wname: []string{"a"}})
	if _, ok := rsp.(p9proto.RWalk); !ok {
		t.Fatalf("expected RWalk, got %#v", rsp)
	}
	h, err := c.fids.get(0)
	if err != nil {
		t.Fatalf("get(0): %v", err)
	}
	if h.file != child {
		t.Error("same-fid walk should rebind fid 0 to the walked child")
	}
}

func TestHandleRemoveAlwaysReplies(t *testing.T) {
	c := newTestConn()
	f := &fakeFile{qid: p9proto.NewQid(p9proto.FileTypeFile, 0, 2)}
	c.fids.insert(0, Session{}, f)

	rsp := c.dispatch(p9proto.TRemove{MsgTag: 1, Fid: 0})
	if _, ok := rsp.(p9proto.RRemove); !ok {
		t.Fatalf("expected RRemove even though Unlink may have failed, got %#v", rsp)
	}
	if _, err := c.fids.get(0); err == nil {
		t.Error("fid should be released after Tremove regardless of Unlink's result")
	}
}
