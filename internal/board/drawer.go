package board

import (
	"fmt"

	"github.com/vovakirdan/tui-gridloop/internal/core"
)

// Glyph is how a board value looks on screen.
type Glyph struct {
	Rune  rune
	Color core.Color
	// Pad fills the remaining columns of cells wider than one character.
	// Zero repeats Rune.
	Pad rune
}

// DefaultGlyph is drawn for values without a binding.
var DefaultGlyph = Glyph{Rune: '·', Color: core.ColorGray, Pad: ' '}

// Drawer renders a Board onto a core.Screen. Each board cell becomes a
// block of CellW x CellH characters; Grid characters of line separate
// cells and frame the board when Grid is positive.
type Drawer struct {
	board *Board

	CellW, CellH int
	Grid         int
	GridGlyph    Glyph
	Default      Glyph

	glyphs map[int]Glyph

	curX, curY int
	curGlyph   Glyph
}

// NewDrawer creates a drawer with cells of cellW x cellH characters and no
// grid lines.
func NewDrawer(b *Board, cellW, cellH int) *Drawer {
	return &Drawer{
		board:     b,
		CellW:     max(1, cellW),
		CellH:     max(1, cellH),
		GridGlyph: Glyph{Rune: ' '},
		Default:   DefaultGlyph,
		glyphs:    make(map[int]Glyph),
		curX:      -1,
		curY:      -1,
	}
}

// Bind sets the glyph for a board value.
func (d *Drawer) Bind(value int, g Glyph) {
	d.glyphs[value] = g
}

// GlyphFor returns the glyph bound to value, or Default.
func (d *Drawer) GlyphFor(value int) Glyph {
	if g, ok := d.glyphs[value]; ok {
		return g
	}
	return d.Default
}

// SetCursor highlights the cell at (x, y) with the glyph bound to value.
// The board itself is not modified; a new cursor replaces the old one.
func (d *Drawer) SetCursor(x, y, value int) error {
	if !d.board.InBounds(x, y) {
		return fmt.Errorf("cursor: %w", ErrOutOfBounds)
	}
	d.curX, d.curY = x, y
	d.curGlyph = d.GlyphFor(value)
	return nil
}

// ClearCursor removes the cursor.
func (d *Drawer) ClearCursor() {
	d.curX, d.curY = -1, -1
}

// Cursor returns the cursor cell and whether one is set.
func (d *Drawer) Cursor() (x, y int, ok bool) {
	return d.curX, d.curY, d.curX >= 0
}

// Size returns the drawn size in characters.
func (d *Drawer) Size() (w, h int) {
	w = d.board.Width()*d.CellW + d.Grid*(d.board.Width()+1)
	h = d.board.Height()*d.CellH + d.Grid*(d.board.Height()+1)
	return w, h
}

// CenterX returns the column at which the board is centered in a canvas
// canvasW characters wide.
func (d *Drawer) CenterX(canvasW int) int {
	w, _ := d.Size()
	return (canvasW - w) / 2
}

// CenterY returns the row at which the board is centered in a canvas
// canvasH characters tall.
func (d *Drawer) CenterY(canvasH int) int {
	_, h := d.Size()
	return (canvasH - h) / 2
}

// Origin returns the position that centers the board on dst.
func (d *Drawer) Origin(dst *core.Screen) (x, y int) {
	return d.CenterX(dst.Width()), d.CenterY(dst.Height())
}

// CellAt maps a screen position to the board cell under it, for a board
// drawn at (originX, originY). Positions on a grid line belong to the cell
// to their right or below.
func (d *Drawer) CellAt(originX, originY, sx, sy int) (x, y int, ok bool) {
	rx, ry := sx-originX, sy-originY
	if rx < 0 || ry < 0 {
		return -1, -1, false
	}
	x = rx / (d.CellW + d.Grid)
	y = ry / (d.CellH + d.Grid)
	if !d.board.InBounds(x, y) {
		return -1, -1, false
	}
	return x, y, true
}

// Draw renders the whole board with its top-left corner at (x, y).
func (d *Drawer) Draw(dst *core.Screen, x, y int) {
	if d.Grid > 0 {
		w, h := d.Size()
		dst.FillRect(core.NewRect(x, y, w, h), d.cell(d.GridGlyph, 0))
	}

	for by := 0; by < d.board.Height(); by++ {
		for bx := 0; bx < d.board.Width(); bx++ {
			g := d.GlyphFor(d.board.At(bx, by))
			if bx == d.curX && by == d.curY {
				g = d.curGlyph
			}
			d.drawCell(dst, x, y, bx, by, g)
		}
	}
}

func (d *Drawer) drawCell(dst *core.Screen, ox, oy, bx, by int, g Glyph) {
	x := ox + bx*d.CellW + (bx+1)*d.Grid
	y := oy + by*d.CellH + (by+1)*d.Grid
	for cy := 0; cy < d.CellH; cy++ {
		for cx := 0; cx < d.CellW; cx++ {
			dst.SetCell(x+cx, y+cy, d.cell(g, cx))
		}
	}
}

func (d *Drawer) cell(g Glyph, col int) core.Cell {
	r := g.Rune
	if col > 0 && g.Pad != 0 {
		r = g.Pad
	}
	return core.Cell{Rune: r, Color: g.Color}
}
