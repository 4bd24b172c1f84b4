package bod

import "fmt"

// TypeLen is the on-disk size of a cell type tag.
const TypeLen = 4

// Color is a straight RGBA color. Channels are not clamped.
type Color struct {
	R, G, B, A float32
}

// Cell is one hexagonal unit of an organism.
type Cell struct {
	Type  string
	Color Color
	// Pos is the axial coordinate as stored in the file.
	Pos Point
	// NormPos is Pos minus the organism offset. Derived, never written.
	NormPos Point
	// Legacy holds the opaque trailing field of format versions below 3.
	Legacy *[4]byte
}

// NewCell returns a cell of the given type and color at the origin.
func NewCell(typ string, c Color) Cell {
	return Cell{Type: typ, Color: c}
}

func (c Cell) String() string {
	return fmt.Sprintf("Cell of type %s at %v", c.Type, c.Pos)
}
