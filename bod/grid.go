package bod

import (
	"fmt"
	"math"
)

// DefaultMaxIndexArea bounds the number of index slots BuildIndex allocates.
const DefaultMaxIndexArea = 1 << 24

// Normalize returns the bounding box of positions as the minimum corner and
// the width/height. An empty input yields a zero offset and zero size.
func Normalize(positions []Point) (offset, size Point) {
	if len(positions) == 0 {
		return Point{}, Point{}
	}
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
	}
	return lo, Point{hi.X - lo.X + 1, hi.Y - lo.Y + 1}
}

// BuildIndex recomputes every cell's NormPos from the current offset and
// rebuilds the dense index. When two cells share a position the later one
// in Cells wins.
func (o *Organism) BuildIndex() error {
	return o.buildIndex(DefaultMaxIndexArea)
}

func (o *Organism) buildIndex(maxArea int) error {
	o.index = nil
	o.indexed = false
	w, h := o.size.X, o.size.Y
	if w < 0 || h < 0 {
		return fmt.Errorf("negative size %v: %w", o.size, ErrOutOfBounds)
	}
	limit := maxArea
	if limit <= 0 {
		limit = math.MaxInt
	}
	if h > 0 && w > limit/h {
		return fmt.Errorf("%dx%d: %w", w, h, ErrIndexTooLarge)
	}
	index := make([]int, w*h)
	for i := range index {
		index[i] = -1
	}
	for i := range o.Cells {
		c := &o.Cells[i]
		c.NormPos = c.Pos.Sub(o.offset)
		if !o.inBounds(c.NormPos.X, c.NormPos.Y) {
			return fmt.Errorf("cell %d at %v: %w", i, c.Pos, ErrOutOfBounds)
		}
		index[c.NormPos.Y*w+c.NormPos.X] = i
	}
	o.index = index
	o.indexed = true
	return nil
}

func (o *Organism) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < o.size.X && y < o.size.Y
}

// IndexAt returns the arena position of the cell at normalized (x, y).
func (o *Organism) IndexAt(x, y int) (int, bool) {
	if !o.indexed || !o.inBounds(x, y) {
		return 0, false
	}
	i := o.index[y*o.size.X+x]
	return i, i >= 0
}

// GetCell returns the cell at normalized position (x, y).
func (o *Organism) GetCell(x, y int) (Cell, error) {
	if !o.indexed {
		return Cell{}, ErrIndexNotBuilt
	}
	if !o.inBounds(x, y) {
		return Cell{}, fmt.Errorf("(%d,%d) in %v: %w", x, y, o.size, ErrOutOfBounds)
	}
	i := o.index[y*o.size.X+x]
	if i < 0 {
		return Cell{}, fmt.Errorf("(%d,%d): %w", x, y, ErrEmptySlot)
	}
	return o.Cells[i], nil
}

// SetCell stores c at normalized position (x, y). An empty slot appends c to
// Cells; an occupied slot is replaced in place so on-disk order is kept.
// With autoPos the stored copy is moved to the slot: NormPos becomes (x, y)
// and Pos becomes (x, y) plus the offset.
func (o *Organism) SetCell(x, y int, c Cell, autoPos bool) error {
	if !o.indexed {
		return ErrIndexNotBuilt
	}
	if !o.inBounds(x, y) {
		return fmt.Errorf("(%d,%d) in %v: %w", x, y, o.size, ErrOutOfBounds)
	}
	if autoPos {
		c.NormPos = Point{x, y}
		c.Pos = c.NormPos.Add(o.offset)
	}
	slot := y*o.size.X + x
	if i := o.index[slot]; i >= 0 {
		o.Cells[i] = c
		return nil
	}
	o.Cells = append(o.Cells, c)
	o.index[slot] = len(o.Cells) - 1
	return nil
}
