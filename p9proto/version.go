package p9proto

import "strings"

// Version is the textual protocol identifier exchanged in a Tversion/
// Rversion handshake: "id[.variant]", e.g. "9P2000.u".
type Version struct {
	ID      string
	Variant string
}

// ParseVersion splits a version string on its first '.'.
func ParseVersion(s string) Version {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return Version{ID: s[:i], Variant: s[i+1:]}
	}
	return Version{ID: s}
}

// String reassembles a Version into its wire form.
func (v Version) String() string {
	if v.Variant == "" {
		return v.ID
	}
	return v.ID + "." + v.Variant
}

// Negotiate computes the down-negotiation of a server's offer (v, the
// receiver) against a peer's (client's) requested version. The server's
// offer is the ceiling: ids must match exactly, and a variant in the
// peer's request is only accepted if it equals the offer's variant or
// the offer carries no variant at all. This is asymmetric -- negotiating
// in the other direction is not the same operation.
func (v Version) Negotiate(peer Version) (Version, error) {
	if v.ID != peer.ID {
		return Version{}, &VersionError{Kind: MismatchedID, Self: v, Peer: peer}
	}
	if v.Variant == "" || v.Variant == peer.Variant {
		return v, nil
	}
	return Version{}, &VersionError{Kind: MismatchedVariant, Self: v, Peer: peer}
}

// UnknownVersion is the conventional "unknown" version identifier for a
// requested identifier that cannot be parsed or is not recognized. The
// server in the root package does not send it: a failed negotiation is
// answered with an Rerror.
var UnknownVersion = Version{ID: "unknown"}
