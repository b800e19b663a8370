package p9

// fileHandle is the server-side state for one live fid: the logical file,
// the session that established it, and an optional open-file state once
// Open or Create has succeeded against it.
type fileHandle struct {
	session Session
	file    File
	open    OpenFile
}

// fidTable owns the fid -> fileHandle mapping for a single connection.
// It has exactly one owner (the connection's dispatch loop) and is never
// accessed concurrently, so it needs no locking of its own.
type fidTable struct {
	m map[uint32]*fileHandle
}

func newFidTable() *fidTable {
	return &fidTable{m: make(map[uint32]*fileHandle)}
}

// insert binds fid to a freshly attached or walked handle. It fails with
// *FidAlreadyExistsError if fid is already live.
func (t *fidTable) insert(fid uint32, session Session, file File) (*fileHandle, ServerError) {
	if _, ok := t.m[fid]; ok {
		return nil, &FidAlreadyExistsError{Fid: fid}
	}
	h := &fileHandle{session: session, file: file}
	t.m[fid] = h
	return h, nil
}

// get returns the live handle for fid, or *NoSuchFidError.
func (t *fidTable) get(fid uint32) (*fileHandle, ServerError) {
	h, ok := t.m[fid]
	if !ok {
		return nil, &NoSuchFidError{Fid: fid}
	}
	return h, nil
}

// remove releases fid, returning the handle it named.
func (t *fidTable) remove(fid uint32) (*fileHandle, ServerError) {
	h, ok := t.m[fid]
	if !ok {
		return nil, &NoSuchFidError{Fid: fid}
	}
	delete(t.m, fid)
	return h, nil
}
