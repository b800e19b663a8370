// Package fsutil provides concrete Filesystem back-ends -- an in-memory
// synthetic device tree and a read-only passthrough to a host directory
// -- on top of the p9 package's embedding API.
package fsutil

import "path"

// CleanPath joins elems (as delivered by a Twalk's wname list) onto the
// virtual path vpath, which is always rooted at "/", and collapses "."
// and ".." elements. Prefixing with "/" before cleaning means the result
// can never escape above "/": path.Clean("/" + anything) always stays
// rooted, so a back-end that maps the returned string onto a real
// directory via filepath.Join can never be walked above its own root.
func CleanPath(vpath string, elems []string) string {
	for _, e := range elems {
		vpath = path.Clean("/" + vpath + "/" + e)
	}
	return vpath
}
