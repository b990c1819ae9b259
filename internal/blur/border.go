package blur

import (
	"fmt"
	"strings"
)

// Border selects how samples outside the image are synthesized.
type Border int

const (
	// BorderReflect101 mirrors without repeating the edge: gfedcb|abcdefgh|gfedcba.
	BorderReflect101 Border = iota
	// BorderReplicate repeats the edge sample: aaaaaa|abcdefgh|hhhhhhh.
	BorderReplicate
	// BorderReflect mirrors including the edge: fedcba|abcdefgh|hgfedcb.
	BorderReflect
)

func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(s) {
	case "", "reflect101", "reflect_101", "default":
		return BorderReflect101, nil
	case "replicate", "clamp":
		return BorderReplicate, nil
	case "reflect":
		return BorderReflect, nil
	default:
		return 0, fmt.Errorf("unknown border mode %q", s)
	}
}

func (b Border) String() string {
	switch b {
	case BorderReplicate:
		return "replicate"
	case BorderReflect:
		return "reflect"
	default:
		return "reflect101"
	}
}

// index maps p, possibly outside [0, n), onto a valid coordinate.
func (b Border) index(p, n int) int {
	if p >= 0 && p < n {
		return p
	}
	if n == 1 {
		return 0
	}

	if b == BorderReplicate {
		if p < 0 {
			return 0
		}
		return n - 1
	}

	delta := 0
	if b == BorderReflect101 {
		delta = 1
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p - 1 + delta
		} else {
			p = n - 1 - (p - n) - delta
		}
	}
	return p
}
