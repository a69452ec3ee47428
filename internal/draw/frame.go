package draw

// Frame is a rune buffer the size of the terminal. The road view paints cells
// into it and Render emits it row by row, which avoids the flicker of a
// clear-then-draw cycle.
type Frame struct {
	width  int
	height int
	cells  []rune

	rowBuf []rune // Reusable row scratch for Render
}

// NewFrame creates a frame for the given terminal dimensions.
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Resize adjusts the frame to new terminal dimensions.
func (f *Frame) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == f.width && height == f.height {
		return
	}
	f.width = width
	f.height = height
	f.cells = make([]rune, width*height)
	f.rowBuf = make([]rune, width)
	f.Clear()
}

// Width returns the frame width in columns.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in rows.
func (f *Frame) Height() int { return f.height }

// Clear blanks every cell.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = ' '
	}
}

// Set paints one cell. Out-of-bounds coordinates are ignored.
func (f *Frame) Set(x, y int, r rune) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.cells[y*f.width+x] = r
}

// HSpan paints the cells from x1 to x2 inclusive on one row.
func (f *Frame) HSpan(x1, x2, y int, r rune) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		f.Set(x, y, r)
	}
}

// Render writes the whole frame through the chunk writer, one full row per
// cursor move.
func (f *Frame) Render(cw *ChunkWriter) {
	for y := 0; y < f.height; y++ {
		copy(f.rowBuf, f.cells[y*f.width:(y+1)*f.width])
		cw.MoveCursor(1, y+1)
		cw.WriteString(string(f.rowBuf))
	}
}
