package utils

import (
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/bod/bod"
)

// DefaultMeshOptions are used by the GLB converters.
var DefaultMeshOptions = bod.MeshOptions{Radius: 0.5, Height: 0.25}

// BuildGLB converts an indexed organism into a glTF document with one node.
func BuildGLB(o *bod.Organism, name string, opts bod.MeshOptions) (*gltf.Document, error) {
	mesh, err := bod.GenerateMesh(o, opts)
	if err != nil {
		return nil, err
	}
	doc := NewGLBDocument("BOD -> GLB", meshHasAlpha(mesh))
	AddMeshNode(doc, mesh, name)
	return doc, nil
}

// RunBOD2GLB converts the .bod file at inPath into a .glb at outPath.
func RunBOD2GLB(inPath, outPath string) error {
	o, err := bod.Load(inPath)
	if err != nil {
		return err
	}
	doc, err := BuildGLB(o, filepath.Base(inPath), DefaultMeshOptions)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return err
	}
	Logger.Info("glb written", "in", inPath, "out", outPath, "cells", o.CellCount())
	return nil
}
