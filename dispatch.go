package p9

import "github.com/paultag/arigato/p9proto"

// dispatch routes a decoded T-message to its handler, one per opcode,
// translating it into the R-message (or mapped RError) to send back.
// The tag on the returned message always matches msg's tag.
func (c *Conn) dispatch(msg p9proto.Msg) p9proto.Msg {
	switch m := msg.(type) {
	case p9proto.TVersion:
		return errorReply(m.MsgTag, errAlready)
	case p9proto.TAuth:
		return errorReply(m.MsgTag, errConnRefused)
	case p9proto.TAttach:
		return c.handleAttach(m)
	case p9proto.TFlush:
		return c.handleFlush(m)
	case p9proto.TWalk:
		return c.handleWalk(m)
	case p9proto.TOpen:
		return c.handleOpen(m)
	case p9proto.TCreate:
		return c.handleCreate(m)
	case p9proto.TRead:
		return c.handleRead(m)
	case p9proto.TWrite:
		return c.handleWrite(m)
	case p9proto.TClunk:
		return c.handleClunk(m)
	case p9proto.TRemove:
		return c.handleRemove(m)
	case p9proto.TStat:
		return c.handleStat(m)
	case p9proto.TWStat:
		return c.handleWStat(m)
	default:
		return errorReply(msg.Tag(), errNoSys)
	}
}

func (c *Conn) handleAttach(m p9proto.TAttach) p9proto.Msg {
	fs, ok := c.srv.filesystem(m.Aname)
	if !ok {
		return errorReply(m.MsgTag, &NoSuchFilesystemError{Aname: m.Aname})
	}
	root, err := fs.Attach(m.Uname, m.Aname, m.Nuname)
	if err != nil {
		return errorReply(m.MsgTag, toServerError(err))
	}
	if _, fidErr := c.fids.insert(m.Fid, Session{Uname: m.Uname, Aname: m.Aname}, root); fidErr != nil {
		return errorReply(m.MsgTag, fidErr)
	}
	return p9proto.RAttach{MsgTag: m.MsgTag, Qid: root.Qid()}
}

func (c *Conn) handleFlush(m p9proto.TFlush) p9proto.Msg {
	if old, ok := c.tags.remove(m.Oldtag); ok {
		c.logf("p9: flushed tag %d (was %v)", m.Oldtag, old.Type())
	}
	return p9proto.RFlush{MsgTag: m.MsgTag}
}

func (c *Conn) handleWalk(m p9proto.TWalk) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}

	final, qids, walkErr := h.file.Walk(m.Wname)
	if walkErr != nil {
		return errorReply(m.MsgTag, toServerError(walkErr))
	}

	if final == nil {
		if len(qids) == len(m.Wname) {
			return errorReply(m.MsgTag, errNoEnt)
		}
		return p9proto.RWalk{MsgTag: m.MsgTag, Wqid: qids}
	}

	if len(qids) != len(m.Wname) {
		return errorReply(m.MsgTag, errInval)
	}

	if m.Newfid != m.Fid {
		if _, fidErr := c.fids.insert(m.Newfid, h.session, final); fidErr != nil {
			return errorReply(m.MsgTag, fidErr)
		}
	} else {
		h.file = final
		h.open = nil
	}
	return p9proto.RWalk{MsgTag: m.MsgTag, Wqid: qids}
}

func (c *Conn) handleOpen(m p9proto.TOpen) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	of, openErr := h.file.Open(m.Mode)
	if openErr != nil {
		return errorReply(m.MsgTag, toServerError(openErr))
	}
	h.open = of
	return p9proto.ROpen{MsgTag: m.MsgTag, Qid: h.file.Qid(), Iounit: of.IOUnit()}
}

func (c *Conn) handleCreate(m p9proto.TCreate) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	ty := p9proto.FileTypeFromMode(m.Perm)
	perm16 := uint16(m.Perm & 0777)

	child, createErr := h.file.Create(m.Name, perm16, ty, m.Mode, m.Extension)
	if createErr != nil {
		return errorReply(m.MsgTag, toServerError(createErr))
	}
	of, openErr := child.Open(m.Mode)
	if openErr != nil {
		return errorReply(m.MsgTag, toServerError(openErr))
	}
	h.file = child
	h.open = of
	// Rcreate reports iounit=0 unconditionally, unlike Ropen, which
	// reports the open file's preferred unit.
	return p9proto.RCreate{MsgTag: m.MsgTag, Qid: child.Qid(), Iounit: 0}
}

func (c *Conn) handleRead(m p9proto.TRead) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	if h.open == nil {
		return errorReply(m.MsgTag, errBadFd)
	}
	n := m.Count
	if n > c.msize {
		n = c.msize
	}
	buf := make([]byte, n)
	read, readErr := h.open.ReadAt(buf, m.Offset)
	if readErr != nil {
		return errorReply(m.MsgTag, toServerError(readErr))
	}
	return p9proto.RRead{MsgTag: m.MsgTag, Data: buf[:read]}
}

func (c *Conn) handleWrite(m p9proto.TWrite) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	if h.open == nil {
		return errorReply(m.MsgTag, errBadFd)
	}
	written, writeErr := h.open.WriteAt(m.Data, m.Offset)
	if writeErr != nil {
		return errorReply(m.MsgTag, toServerError(writeErr))
	}
	return p9proto.RWrite{MsgTag: m.MsgTag, Count: uint32(written)}
}

func (c *Conn) handleClunk(m p9proto.TClunk) p9proto.Msg {
	if _, err := c.fids.remove(m.Fid); err != nil {
		return errorReply(m.MsgTag, err)
	}
	return p9proto.RClunk{MsgTag: m.MsgTag}
}

func (c *Conn) handleRemove(m p9proto.TRemove) p9proto.Msg {
	h, err := c.fids.remove(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	if unlinkErr := h.file.Unlink(); unlinkErr != nil {
		c.logf("p9: unlink of fid %d failed: %v", m.Fid, unlinkErr)
	}
	return p9proto.RRemove{MsgTag: m.MsgTag}
}

func (c *Conn) handleStat(m p9proto.TStat) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	stat, statErr := h.file.Stat()
	if statErr != nil {
		return errorReply(m.MsgTag, toServerError(statErr))
	}
	return p9proto.RStat{MsgTag: m.MsgTag, Stat: stat}
}

func (c *Conn) handleWStat(m p9proto.TWStat) p9proto.Msg {
	h, err := c.fids.get(m.Fid)
	if err != nil {
		return errorReply(m.MsgTag, err)
	}
	if wstatErr := h.file.WStat(m.Stat); wstatErr != nil {
		return errorReply(m.MsgTag, toServerError(wstatErr))
	}
	return p9proto.RWStat{MsgTag: m.MsgTag}
}

// toServerError adapts an error returned from the Filesystem/File/
// OpenFile capability set into a ServerError. Back-ends are expected to
// return a *FileError directly; anything else is wrapped so it still
// maps to a debug-string RError rather than panicking the dispatcher.
func toServerError(err error) ServerError {
	if se, ok := err.(ServerError); ok {
		return se
	}
	return &FileError{Errno: NoErrno, Ename: err.Error()}
}
