package p9

import "github.com/paultag/arigato/p9proto"

// tagTable tracks in-flight requests for a single connection, keyed by
// their client-chosen tag. It stores the original T so that a Flush can
// be logged against what it cancelled. Like fidTable, it is single-owner
// and needs no locking.
type tagTable struct {
	m map[uint16]p9proto.Msg
}

func newTagTable() *tagTable {
	return &tagTable{m: make(map[uint16]p9proto.Msg)}
}

// insert records that tag is now in flight, carrying request t. It
// reports ok=false if tag collided with one already in flight, in which
// case the caller must drop the new message without replying.
func (t *tagTable) insert(tag uint16, req p9proto.Msg) (ok bool) {
	if _, exists := t.m[tag]; exists {
		return false
	}
	t.m[tag] = req
	return true
}

// remove clears tag from the in-flight set, reporting the request it was
// tracking and whether it was still present. A tag absent at remove time
// means a concurrent Flush already discarded it; the caller must then
// drop the reply silently rather than send it.
func (t *tagTable) remove(tag uint16) (p9proto.Msg, bool) {
	req, ok := t.m[tag]
	if ok {
		delete(t.m, tag)
	}
	return req, ok
}
