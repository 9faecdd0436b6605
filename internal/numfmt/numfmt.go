// Package numfmt formats quantities for report tables and plot annotations.
package numfmt

import (
	"fmt"
	"math"

	humanize "github.com/dustin/go-humanize"
)

// Number rounds v to the nearest ten (ties to even) and inserts thousands
// separators. Used for headline figures where false precision reads badly.
func Number(v float64) string {
	return humanize.Comma(int64(math.RoundToEven(v/10) * 10))
}

// Table rounds v to one decimal place, the precision used in summary tables.
func Table(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
