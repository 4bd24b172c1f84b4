package bod

import "math"

// Point is an axial hex coordinate (q, r) stored as X and Y. Incrementing X
// moves one hex right, incrementing Y moves one hex up-right.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// HexDirections are the six axial neighbor offsets, counter-clockwise from east.
var HexDirections = [6]Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
}

// Neighbors returns the six hexes adjacent to p, in HexDirections order.
func Neighbors(p Point) [6]Point {
	var out [6]Point
	for i, d := range HexDirections {
		out[i] = p.Add(d)
	}
	return out
}

// Center returns the plane position of a pointy-top hex with the given
// circumradius. +X maps to +x and +Y to the up-right diagonal.
func Center(p Point, radius float64) (x, y float64) {
	x = radius * math.Sqrt(3) * (float64(p.X) + float64(p.Y)/2)
	y = radius * 1.5 * float64(p.Y)
	return
}

// Corner returns corner i (0..5) of a pointy-top hex centered at the origin,
// counter-clockwise starting at 30 degrees.
func Corner(i int, radius float64) (x, y float64) {
	a := math.Pi / 180 * float64(60*i+30)
	return radius * math.Cos(a), radius * math.Sin(a)
}
