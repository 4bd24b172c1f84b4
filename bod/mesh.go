package bod

import "math"

// Vertex is one mesh vertex in glTF axes: Y up, hex plane on XZ.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// MeshOptions controls prism geometry. Zero Radius means 1. Zero Height
// produces flat caps without walls.
type MeshOptions struct {
	Radius float32
	Height float32
}

// GenerateMesh builds one hexagonal prism per indexed cell, colored with the
// cell color. Walls shared with an occupied neighbor are skipped. Cells
// hidden by a later cell at the same position are not emitted.
func GenerateMesh(o *Organism, opts MeshOptions) (*Mesh, error) {
	if !o.indexed {
		return nil, ErrIndexNotBuilt
	}
	radius := float64(opts.Radius)
	if radius <= 0 {
		radius = 1
	}
	mesh := &Mesh{}
	occupied := func(p Point) bool {
		n := p.Sub(o.offset)
		_, ok := o.IndexAt(n.X, n.Y)
		return ok
	}
	for i, c := range o.Cells {
		if j, ok := o.IndexAt(c.NormPos.X, c.NormPos.Y); !ok || j != i {
			continue
		}
		color := [4]float32{c.Color.R, c.Color.G, c.Color.B, c.Color.A}
		cx, cy := Center(c.Pos, radius)
		addCap(mesh, cx, cy, radius, opts.Height, color)
		if opts.Height <= 0 {
			continue
		}
		for k, n := range Neighbors(c.Pos) {
			if occupied(n) {
				continue
			}
			addWall(mesh, k, cx, cy, radius, opts.Height, color)
		}
	}
	return mesh, nil
}

// plane maps hex plane coordinates to glTF space so that counter-clockwise
// in the plane stays counter-clockwise seen from +Y.
func plane(x, y float64, h float32) [3]float32 {
	return [3]float32{float32(x), h, float32(-y)}
}

func addCap(mesh *Mesh, cx, cy, radius float64, h float32, color [4]float32) {
	up := [3]float32{0, 1, 0}
	base := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, Vertex{Position: plane(cx, cy, h), Normal: up, Color: color})
	for i := 0; i < 6; i++ {
		dx, dy := Corner(i, radius)
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: plane(cx+dx, cy+dy, h), Normal: up, Color: color})
	}
	for i := uint32(0); i < 6; i++ {
		mesh.Indices = append(mesh.Indices, base, base+1+i, base+1+(i+1)%6)
	}
}

// addWall emits the side facing HexDirections[k], spanning corners k-1 and k.
func addWall(mesh *Mesh, k int, cx, cy, radius float64, h float32, color [4]float32) {
	a := math.Pi / 3 * float64(k)
	normal := [3]float32{float32(math.Cos(a)), 0, float32(-math.Sin(a))}
	ax, ay := Corner((k+5)%6, radius)
	bx, by := Corner(k, radius)
	verts := [4]Vertex{
		{Position: plane(cx+ax, cy+ay, 0), Normal: normal, Color: color},
		{Position: plane(cx+bx, cy+by, 0), Normal: normal, Color: color},
		{Position: plane(cx+bx, cy+by, h), Normal: normal, Color: color},
		{Position: plane(cx+ax, cy+ay, h), Normal: normal, Color: color},
	}
	base := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}
