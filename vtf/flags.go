package vtf

import "fmt"

var flagNames = [32]string{
	"point-sample",
	"trilinear-sample",
	"clamp-s",
	"clamp-t",
	"anisotropic-sampling",
	"hint-DXT5",
	"SRGB",
	"normal-map",
	"no-mipmap",
	"no-level-of-detail",
	"no-minimum-mipmap",
	"procedural",
	"one-bit-alpha",
	"eight-bit-alpha",
	"environment-map",
	"render-target",
	"depth-render-target",
	"no-debug-override",
	"single-copy",
	"pre-SRGB",
	"premultiply-color-by-one-over-mipmap-level",
	"normal-to-DuDv",
	"alpha-test-mipmap-generation",
	"no-depth-buffer",
	"nice-filtered",
	"clamp-u",
	"vertex-texture",
	"SSBump",
	"border",
	"clamp-all",
}

// DescribeFlags returns a human-readable slice of strings describing the
// provided header flags.
func DescribeFlags(flags uint32) (s []string) {
	for i, x := range flagNames {
		if flags&(uint32(1)<<i) != 0 {
			if x != "" {
				x = ":" + x
			}
			s = append(s, fmt.Sprintf("%02d%s", i, x))
		}
	}
	return
}
