package p9

import "fmt"

// ServerError is the closed set of failures a Conn's dispatch loop can
// produce, beyond a plain I/O error (which is always fatal to the
// connection and never turned into a wire reply).
type ServerError interface {
	error
	// replyErrno and replyEname together determine the RError a
	// ServerError maps to; errno == NoErrno means "debug string only".
	replyErrno() uint32
	replyEname() string
}

// NoErrno is the sentinel errno used for server errors that have no
// meaningful POSIX error number: RError(tag, debug-string, 0xFFFFFFFF).
const NoErrno uint32 = 0xFFFFFFFF

// FileError is how a filesystem back-end signals a POSIX-like failure.
// It is the only ServerError whose errno comes from the back-end; the
// dispatcher's own fixed errors (errBadFd, errNoEnt, ...) carry fixed
// errnos.
type FileError struct {
	Errno uint32
	Ename string
}

func (e *FileError) Error() string       { return fmt.Sprintf("%s (errno %d)", e.Ename, e.Errno) }
func (e *FileError) replyErrno() uint32  { return e.Errno }
func (e *FileError) replyEname() string  { return e.Ename }

// NoSuchFilesystemError is returned when an Attach names an aname that no
// registered Filesystem answers to.
type NoSuchFilesystemError struct {
	Aname string
}

func (e *NoSuchFilesystemError) Error() string {
	return fmt.Sprintf("p9: no filesystem registered for aname %q", e.Aname)
}
func (e *NoSuchFilesystemError) replyErrno() uint32 { return NoErrno }
func (e *NoSuchFilesystemError) replyEname() string { return e.Error() }

// FidAlreadyExistsError is returned when a fid table insert collides with
// a live fid.
type FidAlreadyExistsError struct {
	Fid uint32
}

func (e *FidAlreadyExistsError) Error() string {
	return fmt.Sprintf("p9: fid %d already in use", e.Fid)
}
func (e *FidAlreadyExistsError) replyErrno() uint32 { return NoErrno }
func (e *FidAlreadyExistsError) replyEname() string { return e.Error() }

// NoSuchFidError is returned when a fid table lookup or remove names a
// fid that is not live.
type NoSuchFidError struct {
	Fid uint32
}

func (e *NoSuchFidError) Error() string {
	return fmt.Sprintf("p9: no such fid %d", e.Fid)
}
func (e *NoSuchFidError) replyErrno() uint32 { return NoErrno }
func (e *NoSuchFidError) replyEname() string { return e.Error() }

// walkInconsistentError reports a Filesystem.Walk implementation that
// violated its own contract: the length of the returned intermediates
// slice did not agree with whether a final file was returned.
type walkInconsistentError struct {
	msg string
}

func (e *walkInconsistentError) Error() string       { return "p9: " + e.msg }
func (e *walkInconsistentError) replyErrno() uint32  { return NoErrno }
func (e *walkInconsistentError) replyEname() string  { return e.Error() }

// badFidStateError is a fixed errno/ename pair the dispatcher replies
// with: a request against a fid that is not in the state it requires
// (e.g. Read/Write against a fid that was never opened), a repeated
// Tversion, a Tauth, the two Walk outcomes below, or an unknown opcode.
type badFidStateError struct {
	errno uint32
	ename string
}

func (e *badFidStateError) Error() string      { return e.ename }
func (e *badFidStateError) replyErrno() uint32 { return e.errno }
func (e *badFidStateError) replyEname() string { return e.ename }

// errBadFd is the EBADFD server error used when Read/Write target a fid
// with no associated open-file state.
var errBadFd = &badFidStateError{errno: 77, ename: "EBADFD"}

// errAlready is the EALREADY server error used when TVersion is received
// after a connection has already completed its handshake.
var errAlready = &badFidStateError{errno: 114, ename: "EALREADY"}

// errConnRefused is the ECONNREFUSED server error used to refuse every
// TAuth request; this library offers no authentication.
var errConnRefused = &badFidStateError{errno: 111, ename: "ECONNREFUSED"}

// errNoEnt / errInval back the two pragmatic Walk outcomes: a count that
// covers the full path but no final file, and a back-end that
// contradicts itself.
var errNoEnt = &badFidStateError{errno: 2, ename: "ENOENT"}
var errInval = &badFidStateError{errno: 22, ename: "EINVAL"}

// errNoSys answers any unrecognized opcode.
var errNoSys = &badFidStateError{errno: 38, ename: "ENOSYS"}

// versionErrorAdapter lets a p9proto.VersionError (a plain error, not a
// ServerError) flow through the same RError-mapping path as every other
// protocol fault during the handshake.
type versionErrorAdapter struct {
	err error
}

func (e *versionErrorAdapter) Error() string      { return e.err.Error() }
func (e *versionErrorAdapter) replyErrno() uint32 { return NoErrno }
func (e *versionErrorAdapter) replyEname() string { return e.err.Error() }
