package p9proto

import (
	"reflect"
	"testing"
)

func mustStat(t *testing.T) Stat {
	t.Helper()
	q := NewQid(FileTypeFile, 7, 0x1234)
	return NewStatBuilder("frogs.txt", q).
		WithMode(0644).
		WithLength(492).
		WithTimes(100, 200).
		WithOwner("georgia", "gopher", "gopher").
		WithNumericOwner(1000, 1000, 1000).
		WithExtension("").
		Build()
}

// roundTrip encodes m, decodes the resulting frame, and checks the
// result is equal to m -- for every message, hydrate(dehydrate(v)) == v.
func roundTrip(t *testing.T, m Msg) {
	t.Helper()
	frame, err := m.encode()
	if err != nil {
		t.Fatalf("encode %T: %v", m, err)
	}
	got, err := Decode(frame[4:], 0)
	if err != nil {
		t.Fatalf("decode %T: %v", m, err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch for %T:\n got  %#v\n want %#v", m, got, m)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	qid := NewQid(FileTypeDir, 1, 203)
	stat := mustStat(t)

	cases := []Msg{
		TVersion{MsgTag: NoTag, Msize: 1 << 16, Version: "9P2000.u"},
		RVersion{MsgTag: NoTag, Msize: 1 << 16, Version: "9P2000.u"},
		TAuth{MsgTag: 1, Afid: 1, Uname: "gopher", Aname: "", Nuname: 1000},
		RAuth{MsgTag: 1, Aqid: qid},
		TAttach{MsgTag: 2, Fid: 2, Afid: NoFid, Uname: "gopher", Aname: "", Nuname: 1000},
		RAttach{MsgTag: 2, Qid: qid},
		RError{MsgTag: 0, Ename: "some error", Errno: 0xFFFFFFFF},
		TFlush{MsgTag: 3, Oldtag: 2},
		RFlush{MsgTag: 3},
		TWalk{MsgTag: 4, Fid: 4, Newfid: 4, Wname: []string{"var", "log", "messages"}},
		TWalk{MsgTag: 4, Fid: 4, Newfid: 4, Wname: nil},
		RWalk{MsgTag: 4, Wqid: []Qid{qid, qid}},
		RWalk{MsgTag: 4, Wqid: nil},
		TOpen{MsgTag: 0, Fid: 1, Mode: ORDWR},
		ROpen{MsgTag: 0, Qid: qid, Iounit: 300},
		TCreate{MsgTag: 1, Fid: 4, Name: "frogs.txt", Perm: 0755, Mode: OWRITE, Extension: ""},
		RCreate{MsgTag: 1, Qid: qid, Iounit: 1200},
		TRead{MsgTag: 0, Fid: 32, Offset: 803280, Count: 5308},
		RRead{MsgTag: 0, Data: []byte("hello, world!")},
		RRead{MsgTag: 0, Data: []byte{}},
		TWrite{MsgTag: 1, Fid: 4, Offset: 10, Data: []byte("goodbye, world!")},
		RWrite{MsgTag: 1, Count: 0},
		TClunk{MsgTag: 5, Fid: 4},
		RClunk{MsgTag: 5},
		TRemove{MsgTag: 18, Fid: 9},
		RRemove{MsgTag: 18},
		TStat{MsgTag: 6, Fid: 13},
		RStat{MsgTag: 6, Stat: stat},
		TWStat{MsgTag: 7, Fid: 13, Stat: stat},
		RWStat{MsgTag: 7},
	}
	for _, m := range cases {
		roundTrip(t, m)
	}
}

func TestPrimitiveRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.PutUint8(0xAB)
	w.PutUint16(0xBEEF)
	w.PutUint32(0xDEADBEEF)
	w.PutUint64(0x0123456789ABCDEF)
	if err := w.PutString("hello, 世界"); err != nil {
		t.Fatal(err)
	}
	if err := w.PutString(""); err != nil {
		t.Fatal(err)
	}
	if err := w.PutStrings("a", "bb", "ccc"); err != nil {
		t.Fatal(err)
	}
	qids := []Qid{NewQid(FileTypeFile, 0, 1), NewQid(FileTypeDir, 1, 2)}
	if err := w.PutQids(qids); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())
	if v, err := r.Uint8(); err != nil || v != 0xAB {
		t.Fatalf("Uint8: got %v, %v", v, err)
	}
	if v, err := r.Uint16(); err != nil || v != 0xBEEF {
		t.Fatalf("Uint16: got %v, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("Uint32: got %v, %v", v, err)
	}
	if v, err := r.Uint64(); err != nil || v != 0x0123456789ABCDEF {
		t.Fatalf("Uint64: got %v, %v", v, err)
	}
	if s, err := r.String(); err != nil || s != "hello, 世界" {
		t.Fatalf("String: got %q, %v", s, err)
	}
	if s, err := r.String(); err != nil || s != "" {
		t.Fatalf("empty String: got %q, %v", s, err)
	}
	ss, err := r.Strings(3)
	if err != nil || !reflect.DeepEqual(ss, []string{"a", "bb", "ccc"}) {
		t.Fatalf("Strings: got %v, %v", ss, err)
	}
	gotQids, err := r.Qids()
	if err != nil || !reflect.DeepEqual(gotQids, qids) {
		t.Fatalf("Qids: got %v, %v", gotQids, err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected reader fully consumed, %d bytes left", r.Len())
	}
}

func TestStatRoundTrip(t *testing.T) {
	stat := mustStat(t)
	w := NewWriter(0)
	if err := stat.Marshal(w); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	got, err := UnmarshalStat(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, stat) {
		t.Errorf("got %#v, want %#v", got, stat)
	}
}

func TestStatFieldRoundTrip(t *testing.T) {
	stat := mustStat(t)
	w := NewWriter(0)
	if err := MarshalStatField(w, stat); err != nil {
		t.Fatal(err)
	}
	r := NewReader(w.Bytes())
	got, err := UnmarshalStatField(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, stat) {
		t.Errorf("got %#v, want %#v", got, stat)
	}
}

func TestFileTypeBijection(t *testing.T) {
	cases := []FileType{
		FileTypeFile, FileTypeDir, FileTypeAppend, FileTypeExcl, FileTypeAuth,
		FileTypeTmp, FileTypeLink, FileTypeDevice, FileTypeNamedPipe, FileTypeSocket,
	}
	for _, ty := range cases {
		mode := ty.ModeBits()
		if got := FileTypeFromMode(mode); got != ty {
			t.Errorf("FileTypeFromMode(%#x) = %v, want %v", mode, got, ty)
		}
	}
	// Device, NamedPipe and Socket all share qid-type byte 0 with File;
	// the full mode word is what makes them distinguishable.
	for _, ty := range []FileType{FileTypeDevice, FileTypeNamedPipe, FileTypeSocket, FileTypeFile} {
		if ty.QidByte() != 0x00 {
			t.Errorf("%v.QidByte() = %#x, want 0", ty, ty.QidByte())
		}
	}
}

func TestVersionNegotiation(t *testing.T) {
	cases := []struct {
		self, peer string
		want       string
		wantErr    bool
	}{
		{"9P2000", "9P2000", "9P2000", false},
		{"9P2000", "9P2000.L", "9P2000", false},
		{"9P2000.L", "9P2000", "", true},
		{"9P2000", "9P2001.L", "", true},
	}
	for _, c := range cases {
		got, err := ParseVersion(c.self).Negotiate(ParseVersion(c.peer))
		if c.wantErr {
			if err == nil {
				t.Errorf("Negotiate(%q, %q): expected error, got %v", c.self, c.peer, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Negotiate(%q, %q): unexpected error %v", c.self, c.peer, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("Negotiate(%q, %q) = %q, want %q", c.self, c.peer, got.String(), c.want)
		}
	}
}
