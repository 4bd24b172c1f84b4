package api

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/bod/bod"
	"github.com/voxelsplace/bod/utils"
)

// Summary is the header and bounds of a decoded .bod file.
type Summary struct {
	Version          uint32
	CellCount        int
	Orientation      uint32
	CombinationCount *uint32
	Size             bod.Point
	Offset           bod.Point
	Types            []string // cell types in on-disk order
}

// DescribeBOD decodes a .bod file and summarizes it.
func DescribeBOD(data []byte) (*Summary, error) {
	o, err := bod.LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Version:          o.Version,
		CellCount:        o.CellCount(),
		Orientation:      o.Orientation,
		CombinationCount: o.CombinationCount,
		Size:             o.Size(),
		Offset:           o.Offset(),
		Types:            make([]string, len(o.Cells)),
	}
	for i, c := range o.Cells {
		s.Types[i] = c.Type
	}
	return s, nil
}

// BODToGLB takes .bod file bytes and returns .glb bytes of its hex prism mesh.
func BODToGLB(data []byte) ([]byte, error) {
	o, err := bod.LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	doc, err := utils.BuildGLB(o, "Organism", utils.DefaultMeshOptions)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PackBODs builds a .bodpack from named file blobs. Entries are stored in
// name order so the output is deterministic.
func PackBODs(files map[string][]byte) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	pack := &bod.Pack{Entries: make([]bod.PackEntry, 0, len(files))}
	for _, name := range names {
		if _, err := bod.LoadFromBytes(files[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pack.Entries = append(pack.Entries, bod.PackEntry{Name: name, Data: files[name]})
	}
	return pack.MarshalEx(bod.LayoutDedup, bod.PackCompZstd)
}

// UnpackBODPackToMemory returns a map of entry name -> .bod bytes.
func UnpackBODPackToMemory(packBytes []byte) (map[string][]byte, error) {
	pack, _, err := bod.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(pack.Entries))
	for _, e := range pack.Entries {
		out[e.Name] = e.Data
	}
	return out, nil
}
