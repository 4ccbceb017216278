package pages

import (
	"strconv"
	"strings"
)

// PathSet hands out unique slash-joined paths. It is not safe for
// concurrent use.
type PathSet struct {
	used map[string]bool
}

// NewPathSet returns an empty PathSet.
func NewPathSet() *PathSet {
	return &PathSet{used: make(map[string]bool)}
}

// Reserve joins segments with "/" and records the result. When the path
// is taken, "-1", "-2", ... is appended to the last segment until it is
// free.
func (s *PathSet) Reserve(segments []string) string {
	if len(segments) == 0 {
		segments = []string{DefaultSlug}
	}
	prefix := segments[:len(segments)-1]
	base := segments[len(segments)-1]
	if base == "" {
		base = DefaultSlug
	}

	candidate := join(prefix, base)
	for n := 1; s.used[candidate]; n++ {
		candidate = join(prefix, Slugify(base+"-"+strconv.Itoa(n)))
	}
	s.used[candidate] = true
	return candidate
}

// Has reports whether path has been reserved.
func (s *PathSet) Has(path string) bool {
	return s.used[path]
}

func join(prefix []string, last string) string {
	if len(prefix) == 0 {
		return last
	}
	return strings.Join(prefix, "/") + "/" + last
}
