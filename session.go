package p9

// Session carries the identity established by the TAttach that created a
// fid. It is cloned, not shared, as Walk produces new fids along a path.
type Session struct {
	Uname string
	Aname string
}
