package domain

import "strings"

// DescriptionPath is the root-to-leaf chain of descriptions identifying a
// case. Treat it as immutable: Append never aliases the receiver.
type DescriptionPath []string

// Append returns a new path with segment added at the end.
func (p DescriptionPath) Append(segment string) DescriptionPath {
	out := make(DescriptionPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// String joins the non-empty segments with single spaces.
func (p DescriptionPath) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
