// Package board provides an integer grid for cell-based games and a drawer
// that lays it out on a core.Screen.
package board

import (
	"errors"
	"fmt"
)

// NoData is the value of an empty cell.
const NoData = 0

// ErrOutOfBounds is returned for coordinates outside the board.
var ErrOutOfBounds = errors.New("board: position out of bounds")

// Board is a width x height grid of integer values. The meaning of a value
// is up to the game; a Drawer maps values to glyphs.
//
// Single-cell operations reject coordinates outside the board. Shape fills
// are clipped instead.
type Board struct {
	width   int
	height  int
	cells   []int
	changed bool
}

// New creates an empty board. Negative sizes are treated as zero.
func New(width, height int) *Board {
	width, height = max(0, width), max(0, height)
	return &Board{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// InBounds reports whether (x, y) is a cell of the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) check(x, y int) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("(%d, %d) on %dx%d: %w", x, y, b.width, b.height, ErrOutOfBounds)
	}
	return nil
}

// Get returns the value at (x, y).
func (b *Board) Get(x, y int) (int, error) {
	if err := b.check(x, y); err != nil {
		return NoData, err
	}
	return b.cells[y*b.width+x], nil
}

// At returns the value at (x, y), or NoData outside the board.
func (b *Board) At(x, y int) int {
	if !b.InBounds(x, y) {
		return NoData
	}
	return b.cells[y*b.width+x]
}

// Set stores v at (x, y).
func (b *Board) Set(x, y, v int) error {
	if err := b.check(x, y); err != nil {
		return err
	}
	b.cells[y*b.width+x] = v
	b.changed = true
	return nil
}

// Move copies the value at src to dst and empties src. Both positions are
// validated before anything changes. Moving a cell onto itself keeps it.
func (b *Board) Move(srcX, srcY, dstX, dstY int) error {
	if err := b.check(srcX, srcY); err != nil {
		return fmt.Errorf("move source: %w", err)
	}
	if err := b.check(dstX, dstY); err != nil {
		return fmt.Errorf("move destination: %w", err)
	}
	if srcX == dstX && srcY == dstY {
		return nil
	}
	v := b.cells[srcY*b.width+srcX]
	b.cells[dstY*b.width+dstX] = v
	b.cells[srcY*b.width+srcX] = NoData
	b.changed = true
	return nil
}

// Clear empties every cell.
func (b *Board) Clear() {
	b.Fill(NoData)
}

// Fill sets every cell to v.
func (b *Board) Fill(v int) {
	for i := range b.cells {
		b.cells[i] = v
	}
	b.changed = true
}

// FillRect sets the cells of the rectangle to v.
func (b *Board) FillRect(x, y, w, h, v int) {
	for ty := max(0, y); ty < min(b.height, y+h); ty++ {
		for tx := max(0, x); tx < min(b.width, x+w); tx++ {
			b.cells[ty*b.width+tx] = v
		}
	}
	b.changed = true
}

// FillOval fills the ellipse inscribed in the rectangle with v.
//
// The outline is traced with 6-bit fixed-point stepping from the rightmost
// point and mirrored into the other quadrants; each traced row is filled
// between its left and right edge.
func (b *Board) FillOval(x, y, w, h, v int) {
	if w <= 0 || h <= 0 {
		return
	}
	ra := w/2 + w%2
	rb := h/2 + h%2
	cx := x + w/2
	cy := y + h/2

	// Spans are clipped to the rectangle and the board.
	left, right := max(0, x), min(b.width, x+w)-1
	top, bottom := max(0, y), min(b.height, y+h)-1
	span := func(x0, x1, row int) {
		if row < top || row > bottom {
			return
		}
		for tx := max(left, x0); tx <= min(right, x1); tx++ {
			b.cells[row*b.width+tx] = v
		}
	}

	const one = 64
	xx, yy := ra*one, 0
	for xx >= 0 {
		tx, ty := xx/one, yy/one
		span(cx-tx, cx+tx, cy+ty)
		span(cx-tx, cx+tx, cy-ty)
		yy += xx * rb / ra / one
		xx -= yy * ra / rb / one
	}
	b.changed = true
}

// Changed reports whether the board was modified since the previous call.
func (b *Board) Changed() bool {
	c := b.changed
	b.changed = false
	return c
}
