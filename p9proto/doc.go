/*
Package p9proto implements the wire encoding of the 9P2000.u protocol: the
framing envelope shared by every message, the T/R message family, and the
Stat directory-entry record.

Values in this package do not allocate beyond what is needed to hold their
own fields; encoding writes directly to a growable buffer and decoding reads
from a byte cursor that advances as fields are consumed. Every type exposes
a pair of read/write methods ("hydrate"/"dehydrate" in the protocol's own
vocabulary) so that round-tripping a value is a one-line check in tests.
*/
package p9proto
