package utils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/bod/bod"
)

// RunBODPack2GLB converts a .bodpack into a .glb with one node per entry,
// laid out on a square grid so organisms do not overlap.
func RunBODPack2GLB(inPackPath, outGlbPath string) error {
	data, err := os.ReadFile(inPackPath)
	if err != nil {
		return err
	}
	pack, _, err := bod.UnmarshalPack(data)
	if err != nil {
		return err
	}
	n := len(pack.Entries)
	if n == 0 {
		return fmt.Errorf("empty pack: %s", inPackPath)
	}
	organisms, err := pack.Organisms()
	if err != nil {
		return err
	}

	// Cell pitch is sqrt(3)*radius horizontally and 1.5*radius vertically.
	var stepX, stepZ float32
	for _, o := range organisms {
		s := o.Size()
		w := float32(s.X+s.Y) * DefaultMeshOptions.Radius * float32(math.Sqrt(3))
		h := float32(s.Y) * DefaultMeshOptions.Radius * 1.5
		stepX = max(stepX, w)
		stepZ = max(stepZ, h)
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))

	doc := NewGLBDocument("BODPACK -> GLB", false)
	for i, o := range organisms {
		mesh, err := bod.GenerateMesh(o, DefaultMeshOptions)
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, pack.Entries[i].Name, err)
		}
		if meshHasAlpha(mesh) {
			doc.Materials[0].AlphaMode = gltf.AlphaBlend
		}
		node := AddMeshNode(doc, mesh, filepath.Base(pack.Entries[i].Name))
		r := i / cols
		c := i % cols
		node.Translation = [3]float32{float32(c) * stepX, 0, float32(r) * stepZ}
	}
	if err := gltf.SaveBinary(doc, outGlbPath); err != nil {
		return err
	}
	Logger.Info("glb written", "in", inPackPath, "out", outGlbPath, "entries", n)
	return nil
}
