package p9

import (
	"testing"

	"github.com/paultag/arigato/p9proto"
)

func TestTagTable(t *testing.T) {
	tab := newTagTable()
	req := p9proto.TFlush{MsgTag: 5, Oldtag: 4}

	if !tab.insert(5, req) {
		t.Fatal("insert on a fresh tag should succeed")
	}
	if tab.insert(5, req) {
		t.Error("insert on a live tag should report a collision")
	}

	got, ok := tab.remove(5)
	if !ok {
		t.Fatal("remove should find the tag it just inserted")
	}
	if got != req {
		t.Errorf("remove returned %#v, want %#v", got, req)
	}

	if _, ok := tab.remove(5); ok {
		t.Error("remove on an already-removed tag should report false")
	}
}

// TestTagTableFlushRace exercises the rule conn.ready relies on: once a
// tag has been removed (by a racing Flush), a second remove for the same
// tag reports it absent so the dispatcher knows to drop the reply.
func TestTagTableFlushRace(t *testing.T) {
	tab := newTagTable()
	req := p9proto.TRead{MsgTag: 9, Fid: 1, Offset: 0, Count: 1}
	tab.insert(9, req)

	if _, ok := tab.remove(9); !ok {
		t.Fatal("first remove should find the tag")
	}
	if _, ok := tab.remove(9); ok {
		t.Error("second remove should report the tag as already gone")
	}
}
