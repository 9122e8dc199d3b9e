package resourcepath

import (
	"strings"
)

const separator = "/"

// Path is a parsed resource or subdirectory path. The zero value is not a
// valid path; obtain one from Parse.
type Path struct {
	rooted   bool
	segments []string
}

// Parse validates path and splits it into segments.
func Parse(path string) (Path, error) {
	if strings.TrimSpace(path) == "" {
		return Path{}, invalid(path, "path is empty")
	}

	canonical := strings.ReplaceAll(path, `\`, separator)
	if strings.Contains(canonical, separator+separator) {
		return Path{}, invalid(path, "doubled separators are not allowed")
	}

	var segments []string
	for _, part := range strings.Split(canonical, separator) {
		if part == "" {
			// leading or trailing separator
			continue
		}
		if onlyDots(part) {
			return Path{}, invalid(path, "segment %q is made only of dots", part)
		}
		if i := strings.IndexFunc(part, isInvalidNameRune); i >= 0 {
			return Path{}, invalid(path, "segment %q contains invalid character %q", part, part[i])
		}
		segments = append(segments, part)
	}
	if len(segments) == 0 {
		return Path{}, invalid(path, "path has no segments")
	}

	return Path{
		rooted:   strings.HasPrefix(canonical, separator),
		segments: segments,
	}, nil
}

// Rooted reports whether the path started with a separator.
func (p Path) Rooted() bool {
	return p.rooted
}

// Segments returns a copy of the path segments in order.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Leaf returns the last segment.
func (p Path) Leaf() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Key joins the segments with '/', without a leading separator.
func (p Path) Key() string {
	return strings.Join(p.segments, separator)
}

// String returns the canonical form of the path.
func (p Path) String() string {
	if p.rooted {
		return separator + p.Key()
	}
	return p.Key()
}

func onlyDots(s string) bool {
	return strings.Trim(s, ".") == ""
}
