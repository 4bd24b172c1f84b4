package bod_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxelsplace/bod/bod"
)

// Load a file, print its header and save it back.
func Example() {
	dir, _ := os.MkdirTemp("", "bod")
	defer os.RemoveAll(dir)

	snail := bod.New(bod.Point{X: 2, Y: 1}, bod.Point{X: -1, Y: 0})
	snail.Version = 4
	combos := uint32(0)
	snail.CombinationCount = &combos
	_ = snail.BuildIndex()
	_ = snail.SetCell(0, 0, bod.NewCell("SPIK", bod.Color{R: 1, A: 1}), true)
	_ = snail.SetCell(1, 0, bod.NewCell("MOUT", bod.Color{G: 1, A: 1}), true)
	path := filepath.Join(dir, "snail.bod")
	if err := bod.Save(snail, path); err != nil {
		fmt.Println(err)
		return
	}

	o, err := bod.Load(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(o.Version)
	fmt.Println(o.CellCount())
	fmt.Println(o.Orientation)
	fmt.Println(*o.CombinationCount)
	for _, c := range o.Cells {
		fmt.Println(c)
	}
	fmt.Println(o)
	fmt.Println(o.Size())
	if err := bod.Save(o, filepath.Join(dir, "snail2.bod")); err != nil {
		fmt.Println(err)
	}
	// Output:
	// 4
	// 2
	// 0
	// 0
	// Cell of type SPIK at {-1 0}
	// Cell of type MOUT at {0 0}
	// Organism with 2 cells (version 4)
	// {2 1}
}
