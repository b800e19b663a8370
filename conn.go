package p9

import (
	"net"
	"runtime"

	"github.com/paultag/arigato/p9proto"
)

type connState int

const (
	stateHandshaking connState = iota
	stateReady
	stateClosed
)

// Conn is one 9P2000.u session: a single TCP (or other stream) connection
// together with its negotiated version/msize and its fid and tag tables.
// A Conn is used by exactly one goroutine for its entire lifetime; no
// field needs synchronization.
type Conn struct {
	rwc net.Conn
	dec *p9proto.Decoder
	enc *p9proto.Encoder
	srv *Server

	state   connState
	version p9proto.Version
	msize   uint32

	fids *fidTable
	tags *tagTable
}

func newConn(rwc net.Conn, srv *Server) *Conn {
	return &Conn{
		rwc:   rwc,
		dec:   p9proto.NewDecoder(rwc),
		enc:   p9proto.NewEncoder(rwc),
		srv:   srv,
		state: stateHandshaking,
		fids:  newFidTable(),
		tags:  newTagTable(),
	}
}

func (c *Conn) logf(format string, v ...interface{}) {
	c.srv.logf(format, v...)
}

// serve drives a Conn through its handshake and then its ready loop until
// the underlying transport fails or the peer hangs up.
func (c *Conn) serve() {
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			c.logf("p9: panic serving %v: %v\n%s", c.rwc.RemoteAddr(), r, buf)
		}
		c.state = stateClosed
		c.rwc.Close()
	}()

	if err := c.handshake(); err != nil {
		c.logf("p9: handshake with %v failed: %v", c.rwc.RemoteAddr(), err)
		return
	}
	c.ready()
}

// handshake drives the connection's pre-Ready state: any message other
// than a well-formed TVersion is dropped with a warning; the loop
// continues until a TVersion is seen or the transport fails.
func (c *Conn) handshake() error {
	for {
		msg, err := c.dec.ReadMessage()
		if err != nil {
			return err
		}
		tv, ok := msg.(p9proto.TVersion)
		if !ok {
			c.logf("p9: dropping %v received before handshake", msg.Type())
			continue
		}
		c.srv.trace(false, tv)

		connMsize := c.srv.maxSize()
		if tv.Msize < connMsize {
			connMsize = tv.Msize
		}

		negotiated, negErr := c.srv.version().Negotiate(p9proto.ParseVersion(tv.Version))
		if negErr != nil {
			// Write failures here are not reported separately: either way
			// the connection is finished, and the caller logs negErr.
			rerr := p9proto.RError{MsgTag: tv.MsgTag, Ename: negErr.Error(), Errno: NoErrno}
			c.srv.trace(true, rerr)
			c.enc.WriteMessage(rerr)
			return negErr
		}

		c.msize = connMsize
		c.dec.MaxSize = connMsize
		c.enc.MaxSize = connMsize
		c.version = negotiated

		reply := p9proto.RVersion{MsgTag: tv.MsgTag, Msize: connMsize, Version: negotiated.String()}
		c.srv.trace(true, reply)
		if err := c.enc.WriteMessage(reply); err != nil {
			return err
		}
		c.state = stateReady
		return nil
	}
}

// ready drives the connection once negotiation succeeds: sequential
// request/reply dispatch, one T read at a time. Flush's tag-table race
// is handled by discarding a reply whose tag was already removed rather
// than sending it.
func (c *Conn) ready() {
	for {
		msg, err := c.dec.ReadMessage()
		if err != nil {
			return
		}

		tag := msg.Tag()
		if !c.tags.insert(tag, msg) {
			c.logf("p9: dropping message with duplicate tag %d from %v", tag, c.rwc.RemoteAddr())
			continue
		}
		c.srv.trace(false, msg)

		reply := c.dispatch(msg)

		if _, stillPending := c.tags.remove(tag); !stillPending {
			// A concurrent Flush already discarded this tag; the reply
			// is dropped rather than sent.
			continue
		}
		c.srv.trace(true, reply)
		if err := c.enc.WriteMessage(reply); err != nil {
			return
		}
	}
}

// errorReply maps a ServerError to an RError: a *FileError or one of the
// fixed dispatcher errors carries its errno verbatim, everything else
// reports NoErrno with a debug string.
func errorReply(tag uint16, err ServerError) p9proto.RError {
	return p9proto.RError{MsgTag: tag, Ename: err.replyEname(), Errno: err.replyErrno()}
}
