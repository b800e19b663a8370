package p9

import (
	"net"
	"sync"
	"time"

	"aqwari.net/retry"

	"github.com/paultag/arigato/p9proto"
)

// Logger receives diagnostic output from a Server. It is implemented by
// *log.Logger; tests typically adapt *testing.T to it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Server holds the configuration for a 9P2000.u listener: the filesystems
// it exports, the version and frame size it offers, and where it logs.
// The zero value offers "9P2000.u" at DefaultMsize with no filesystems
// registered; callers must Register at least one before Serve is useful.
type Server struct {
	// ListenAddr is used by ListenAndServe; Serve ignores it and uses
	// whatever net.Listener it is given.
	ListenAddr string

	// MaxSize is the server's offered msize ceiling. Zero means
	// p9proto.DefaultMsize.
	MaxSize uint32

	// Version is the protocol identifier the server offers, e.g.
	// "9P2000.u". Zero value falls back to p9proto.ParseVersion("9P2000.u").
	Version string

	// ErrorLog receives diagnostics; nil discards them.
	ErrorLog Logger

	// Trace, if non-nil, is called with every message a connection sends
	// or receives, in the order it crosses the wire. sent reports the
	// direction: false for a T-message read off the socket, true for the
	// R-message (or RError) written back. Embedders use this to build
	// colorized or structured request logging; see cmd/p9zero and
	// cmd/p9ufs for an example wiring it to github.com/fatih/color.
	Trace func(sent bool, msg p9proto.Msg)

	mu          sync.Mutex
	filesystems map[string]Filesystem
}

func (s *Server) trace(sent bool, msg p9proto.Msg) {
	if s.Trace != nil {
		s.Trace(sent, msg)
	}
}

// Register binds fs to aname. Registering the same aname twice replaces
// the previous binding. Register is safe to call concurrently with
// Serve.
func (s *Server) Register(aname string, fs Filesystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filesystems == nil {
		s.filesystems = make(map[string]Filesystem)
	}
	s.filesystems[aname] = fs
}

func (s *Server) filesystem(aname string) (Filesystem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, ok := s.filesystems[aname]
	return fs, ok
}

func (s *Server) maxSize() uint32 {
	if s.MaxSize == 0 {
		return p9proto.DefaultMsize
	}
	return s.MaxSize
}

func (s *Server) version() p9proto.Version {
	if s.Version == "" {
		return p9proto.ParseVersion("9P2000.u")
	}
	return p9proto.ParseVersion(s.Version)
}

func (s *Server) logf(format string, v ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, v...)
	}
}

type temporaryError interface {
	Temporary() bool
}

// Serve accepts connections on l until Accept returns a non-temporary
// error, handling each on its own goroutine. Transient Accept errors are
// retried with exponential backoff rather than aborting the listener.
func (s *Server) Serve(l net.Listener) error {
	backoff := retry.Exponential(5 * time.Millisecond).Max(time.Second)
	attempt := 0
	for {
		rwc, err := l.Accept()
		if err != nil {
			if te, ok := err.(temporaryError); ok && te.Temporary() {
				attempt++
				wait := backoff(attempt)
				s.logf("p9: Accept error: %v; retrying in %v", err, wait)
				time.Sleep(wait)
				continue
			}
			return err
		}
		attempt = 0
		if tc, ok := rwc.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
		}
		c := newConn(rwc, s)
		go c.serve()
	}
}

// ListenAndServe listens on the TCP network address s.ListenAddr and then
// calls Serve to handle incoming connections.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}
