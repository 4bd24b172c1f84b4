package bod

import "fmt"

// Organism is a decoded .bod file: header metadata, the cell arena and a
// dense index over the cells' normalized positions.
type Organism struct {
	Version     uint32
	Orientation uint32
	// CombinationCount is present only when Version > 3.
	CombinationCount *uint32
	// Cells is kept in on-disk order. After appending directly, call
	// BuildIndex before using GetCell or SetCell.
	Cells []Cell

	size    Point
	offset  Point
	index   []int // row-major, -1 for empty
	indexed bool
}

// New returns an empty organism with the given bounding size and offset.
// The index is not built; call BuildIndex before SetCell.
func New(size, offset Point) *Organism {
	return &Organism{Version: DefaultVersion, size: size, offset: offset}
}

// CellCount is the number of cells, as written to the header.
func (o *Organism) CellCount() int { return len(o.Cells) }

// Size returns the width and height of the bounding rectangle.
func (o *Organism) Size() Point { return o.size }

// Offset returns the raw coordinate of normalized position (0,0).
func (o *Organism) Offset() Point { return o.offset }

// SetBounds replaces size and offset and invalidates the index.
func (o *Organism) SetBounds(size, offset Point) {
	o.size = size
	o.offset = offset
	o.index = nil
	o.indexed = false
}

// Indexed reports whether the index is current.
func (o *Organism) Indexed() bool { return o.indexed }

// Header returns the header fields that Encode would write.
func (o *Organism) Header() Header {
	return Header{
		Version:          o.Version,
		CellCount:        uint32(len(o.Cells)),
		Orientation:      o.Orientation,
		CombinationCount: o.CombinationCount,
	}
}

func (o *Organism) String() string {
	return fmt.Sprintf("Organism with %d cells (version %d)", len(o.Cells), o.Version)
}
