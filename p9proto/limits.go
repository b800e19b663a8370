package p9proto

// NoTag is the reserved tag used on a Tversion/Rversion exchange, before a
// session has negotiated a protocol version.
const NoTag uint16 = 0xFFFF

// NoFid indicates "no afid" in Tauth and Tattach requests.
const NoFid uint32 = 0xFFFFFFFF

// DefaultMsize is used when an embedder does not configure one explicitly.
const DefaultMsize uint32 = 0xFFFFFF00

// MaxVersionLen is the maximum length of the protocol version string, in bytes.
const MaxVersionLen = 20

// MaxWElem is the maximum number of path elements in a single Twalk request.
const MaxWElem = 16

// MaxFilenameLen is the maximum length of a single file name, in bytes.
const MaxFilenameLen = 512

// MaxUidLen is the maximum length of a uid/gid/muid string, in bytes.
const MaxUidLen = 45

// MaxAttachLen is the maximum length of the aname field of Tattach/Tauth.
const MaxAttachLen = 255

// MaxErrorLen is the maximum length of the Ename field of an Rerror.
const MaxErrorLen = 512

// headerLen is the length, in bytes, of the size[4] type[1] tag[2] envelope
// shared by every message.
const headerLen = 4 + 1 + 2

// qidLen is the encoded length of a Qid: type[1] version[4] path[8].
const qidLen = 13

// statMinLen is the length of a Stat body with all strings and the
// extension empty: ty[2] dev[4] qid[13] mode[4] atime[4] mtime[4] length[8]
// + 5 empty length-prefixed strings (name, uid, gid, muid, extension) +
// nuid[4] ngid[4] nmuid[4].
const statMinLen = 2 + 4 + qidLen + 4 + 4 + 4 + 8 + 5*2 + 4 + 4 + 4

// statMaxLen bounds a Stat body so that it (and its u16 length prefix) can
// never overflow a uint16.
const statMaxLen = 1<<16 - 1
