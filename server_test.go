package p9_test

import (
	"testing"

	p9 "github.com/paultag/arigato"
	"github.com/paultag/arigato/fsutil"
	"github.com/paultag/arigato/internal/netutil"
	"github.com/paultag/arigato/p9proto"
)

type testLogger struct{ *testing.T }

func (t testLogger) Printf(format string, args ...interface{}) { t.Logf(format, args...) }

// rpc sends req over conn and returns the first reply, failing the test on
// any I/O error.
func rpc(t *testing.T, dec *p9proto.Decoder, enc *p9proto.Encoder, req p9proto.Msg) p9proto.Msg {
	t.Helper()
	if err := enc.WriteMessage(req); err != nil {
		t.Fatalf("write %T: %v", req, err)
	}
	rsp, err := dec.ReadMessage()
	if err != nil {
		t.Fatalf("read reply to %T: %v", req, err)
	}
	return rsp
}

// TestEndToEndScenario reproduces the six-step session a client runs
// against the zero-device demo filesystem: negotiate a version, attach,
// walk to /zero, open it, read a chunk, and clunk the fid.
func TestEndToEndScenario(t *testing.T) {
	var ln netutil.PipeListener
	srv := &p9.Server{ErrorLog: testLogger{t}}
	srv.Register("", fsutil.ZeroFS{})
	go srv.Serve(&ln)

	conn, err := ln.Dial()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	dec := p9proto.NewDecoder(conn)
	enc := p9proto.NewEncoder(conn)

	rv := rpc(t, dec, enc, p9proto.TVersion{MsgTag: p9proto.NoTag, Msize: 8192, Version: "9P2000.u"})
	version, ok := rv.(p9proto.RVersion)
	if !ok {
		t.Fatalf("expected RVersion, got %#v", rv)
	}
	if version.Version != "9P2000.u" {
		t.Fatalf("negotiated version = %q, want 9P2000.u", version.Version)
	}

	ra := rpc(t, dec, enc, p9proto.TAttach{MsgTag: 1, Fid: 0, Afid: p9proto.NoFid, Uname: "gopher", Aname: ""})
	attach, ok := ra.(p9proto.RAttach)
	if !ok {
		t.Fatalf("expected RAttach, got %#v", ra)
	}
	if attach.Qid.Type() != p9proto.FileTypeDir.QidByte() {
		t.Fatalf("attach qid type = %#x, want Dir (%#x)", attach.Qid.Type(), p9proto.FileTypeDir.QidByte())
	}

	rw := rpc(t, dec, enc, p9proto.TWalk{MsgTag: 2, Fid: 0, Newfid: 1, Wname: []string{"zero"}})
	walk, ok := rw.(p9proto.RWalk)
	if !ok {
		t.Fatalf("expected RWalk, got %#v", rw)
	}
	if len(walk.Wqid) != 1 {
		t.Fatalf("RWalk.Wqid = %v, want 1 qid", walk.Wqid)
	}

	ro := rpc(t, dec, enc, p9proto.TOpen{MsgTag: 3, Fid: 1, Mode: p9proto.OREAD})
	if _, ok := ro.(p9proto.ROpen); !ok {
		t.Fatalf("expected ROpen, got %#v", ro)
	}

	rr := rpc(t, dec, enc, p9proto.TRead{MsgTag: 4, Fid: 1, Offset: 0, Count: 16})
	read, ok := rr.(p9proto.RRead)
	if !ok {
		t.Fatalf("expected RRead, got %#v", rr)
	}
	if len(read.Data) != 16 {
		t.Fatalf("RRead.Data length = %d, want 16", len(read.Data))
	}
	for i, b := range read.Data {
		if b != 0 {
			t.Fatalf("byte %d of /zero read = %#x, want 0", i, b)
		}
	}

	rc := rpc(t, dec, enc, p9proto.TClunk{MsgTag: 5, Fid: 1})
	if _, ok := rc.(p9proto.RClunk); !ok {
		t.Fatalf("expected RClunk, got %#v", rc)
	}
}

// TestAttachUnknownAname exercises the NoSuchFilesystemError path: an
// aname that was never Registered must refuse the attach with an RError,
// not panic or hang the connection.
func TestAttachUnknownAname(t *testing.T) {
	var ln netutil.PipeListener
	srv := &p9.Server{ErrorLog: testLogger{t}}
	srv.Register("known", fsutil.ZeroFS{})
	go srv.Serve(&ln)

	conn, err := ln.Dial()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	dec := p9proto.NewDecoder(conn)
	enc := p9proto.NewEncoder(conn)
	rpc(t, dec, enc, p9proto.TVersion{MsgTag: p9proto.NoTag, Msize: 8192, Version: "9P2000.u"})

	ra := rpc(t, dec, enc, p9proto.TAttach{MsgTag: 1, Fid: 0, Afid: p9proto.NoFid, Uname: "gopher", Aname: "bogus"})
	rerr, ok := ra.(p9proto.RError)
	if !ok {
		t.Fatalf("expected RError, got %#v", ra)
	}
	if rerr.Tag() != 1 {
		t.Fatalf("RError tag = %d, want 1", rerr.Tag())
	}
}

// TestAuthRefused checks that Tauth is always refused with ECONNREFUSED:
// this library offers no authentication mechanism.
func TestAuthRefused(t *testing.T) {
	var ln netutil.PipeListener
	srv := &p9.Server{ErrorLog: testLogger{t}}
	go srv.Serve(&ln)

	conn, err := ln.Dial()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	dec := p9proto.NewDecoder(conn)
	enc := p9proto.NewEncoder(conn)
	rpc(t, dec, enc, p9proto.TVersion{MsgTag: p9proto.NoTag, Msize: 8192, Version: "9P2000.u"})

	ra := rpc(t, dec, enc, p9proto.TAuth{MsgTag: 1, Afid: 0, Uname: "gopher", Aname: ""})
	if _, ok := ra.(p9proto.RError); !ok {
		t.Fatalf("expected RError refusing Tauth, got %#v", ra)
	}
}

// TestVersionDowngrade exercises version negotiation: a client
// requesting a version id the server does not offer ("9P2001" against
// "9P2000") gets an RError.
func TestVersionDowngrade(t *testing.T) {
	var ln netutil.PipeListener
	srv := &p9.Server{ErrorLog: testLogger{t}}
	go srv.Serve(&ln)

	conn, err := ln.Dial()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	dec := p9proto.NewDecoder(conn)
	enc := p9proto.NewEncoder(conn)
	rv := rpc(t, dec, enc, p9proto.TVersion{MsgTag: p9proto.NoTag, Msize: 8192, Version: "9P2001.x"})
	if _, ok := rv.(p9proto.RError); !ok {
		t.Fatalf("expected RError on mismatched version id, got %#v", rv)
	}
}
