package vpk

import (
	"fmt"
	"strconv"
	"strings"
)

// Ext is the file extension of a VPK.
const Ext = ".vpk"

// JoinName generates the filename for block idx of a VPK. Only the _dir.vpk
// carries the prefix.
func JoinName(prefix, name string, idx Index) (fn string) {
	if idx != IndexEOF {
		if idx == IndexDir {
			fn = prefix
		}
		fn += name + "_" + idx.String() + Ext
	}
	return
}

// SplitName is the inverse of JoinName.
func SplitName(fn, prefix string) (name string, idx Index, err error) {
	var ok bool
	if fn, ok = strings.CutSuffix(fn, Ext); !ok {
		return "", IndexEOF, fmt.Errorf("split %q (prefix %q): does not have extension %s", fn, prefix, Ext)
	}

	i := strings.LastIndex(fn, "_")
	if i == -1 || i == len(fn)-1 {
		return "", IndexEOF, fmt.Errorf("split %q (prefix %q): vpk block does not have an index suffix", fn, prefix)
	}
	if s := fn[i+1:]; s == IndexDir.String() {
		idx = IndexDir
	} else if n, err := strconv.ParseUint(s, 10, 16); err != nil || Index(n) == IndexDir || Index(n) == IndexEOF {
		return "", IndexEOF, fmt.Errorf("split %q (prefix %q): vpk block has an invalid index suffix %q", fn, prefix, s)
	} else {
		idx = Index(n)
	}
	fn = fn[:i]

	if idx == IndexDir {
		if fn, ok = strings.CutPrefix(fn, prefix); !ok {
			return "", IndexEOF, fmt.Errorf("split %q (prefix %q): vpk dir index does not have expected prefix", fn, prefix)
		}
	}
	return fn, idx, nil
}
