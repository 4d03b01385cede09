package format

import (
	"fmt"
	"strings"
	"time"
)

// Style selects a date layout.
type Style int

const (
	Medium Style = iota
	Short
	Long
	Relative
)

var styleNames = map[Style]string{
	Medium:   "medium",
	Short:    "short",
	Long:     "long",
	Relative: "relative",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name to its Style. The empty string is Medium.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return Medium, nil
	}
	for st, n := range styleNames {
		if strings.EqualFold(s, n) {
			return st, nil
		}
	}
	return Medium, fmt.Errorf("unknown date style %q", s)
}

var now = time.Now

// Date formats t in the given style. Relative dates are measured from
// the current time.
func Date(t time.Time, style Style) string {
	switch style {
	case Short:
		return t.Format("1/2/2006")
	case Long:
		return t.Format("Monday, January 2, 2006")
	case Relative:
		return RelativeTime(t, now())
	default:
		return t.Format("Jan 2, 2006")
	}
}
