package section

import "fmt"

// Mask is a dense boolean matrix flagging cells of a section variable,
// stored row-major. Create masks with NewMask; the zero value is unusable.
type Mask struct {
	r, c int
	v    []bool
}

// NewMask builds an all-false r by c mask. Panics unless both dimensions
// are positive.
func NewMask(r, c int) *Mask {
	if r <= 0 || c <= 0 {
		panic(fmt.Sprintf("section: mask dimensions %dx%d not positive", r, c))
	}
	return &Mask{r: r, c: c, v: make([]bool, r*c)}
}

// Dims returns the row and column counts.
func (m *Mask) Dims() (r, c int) { return m.r, m.c }

// At reports the flag at (i, j). Panics when out of range.
func (m *Mask) At(i, j int) bool {
	m.check(i, j)
	return m.v[i*m.c+j]
}

// Set stores the flag at (i, j). Panics when out of range.
func (m *Mask) Set(i, j int, b bool) {
	m.check(i, j)
	m.v[i*m.c+j] = b
}

// CountTrue returns the number of set flags.
func (m *Mask) CountTrue() int {
	n := 0
	for _, b := range m.v {
		if b {
			n++
		}
	}
	return n
}

func (m *Mask) check(i, j int) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		panic(fmt.Sprintf("section: mask index (%d,%d) outside %dx%d", i, j, m.r, m.c))
	}
}
