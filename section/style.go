package section

import (
	"fmt"
	"strings"
)

// DisplayStyle selects which view of a section variable display code works
// with. The zero value resolves per variable: stratigraphy for values cut
// from stratigraphy volumes, spacetime for everything else.
type DisplayStyle int

const (
	StyleDefault DisplayStyle = iota
	StyleSpacetime
	StylePreserved
	StyleStratigraphy
)

func (s DisplayStyle) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case StyleSpacetime:
		return "spacetime"
	case StylePreserved:
		return "preserved"
	case StyleStratigraphy:
		return "stratigraphy"
	}
	return fmt.Sprintf("DisplayStyle(%d)", int(s))
}

// ParseDisplayStyle resolves a style spelling. Matching is case-insensitive
// and treats spaces and underscores as equivalent. Accepted spellings:
//
//	spacetime:    "full", "spacetime", "as spacetime"
//	preserved:    "psvd", "preserved", "as preserved"
//	stratigraphy: "strat", "strata", "stratigraphy", "as stratigraphy"
//
// The empty string selects StyleDefault.
func ParseDisplayStyle(name string) (DisplayStyle, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	switch key {
	case "":
		return StyleDefault, nil
	case "full", "spacetime", "as_spacetime":
		return StyleSpacetime, nil
	case "psvd", "preserved", "as_preserved":
		return StylePreserved, nil
	case "strat", "strata", "stratigraphy", "as_stratigraphy":
		return StyleStratigraphy, nil
	}
	return StyleDefault, fmt.Errorf("%w: %q", ErrBadStyle, name)
}
