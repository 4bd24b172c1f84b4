package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/voxelsplace/bod/bod"
)

// CellRow is one cell of one organism in tabular form.
// Legacy is empty for files of version 3 and above.
type CellRow struct {
	Organism string  `parquet:"organism,dict"`
	Version  uint32  `parquet:"version"`
	Seq      int32   `parquet:"seq"`
	Type     string  `parquet:"type,dict"`
	R        float32 `parquet:"r"`
	G        float32 `parquet:"g"`
	B        float32 `parquet:"b"`
	A        float32 `parquet:"a"`
	X        int32   `parquet:"x"`
	Y        int32   `parquet:"y"`
	NormX    int32   `parquet:"norm_x"`
	NormY    int32   `parquet:"norm_y"`
	Legacy   []byte  `parquet:"legacy"`
}

// CellRows flattens o into rows, in on-disk order.
func CellRows(name string, o *bod.Organism) []CellRow {
	rows := make([]CellRow, len(o.Cells))
	for i, c := range o.Cells {
		rows[i] = CellRow{
			Organism: name,
			Version:  o.Version,
			Seq:      int32(i),
			Type:     c.Type,
			R:        c.Color.R,
			G:        c.Color.G,
			B:        c.Color.B,
			A:        c.Color.A,
			X:        int32(c.Pos.X),
			Y:        int32(c.Pos.Y),
			NormX:    int32(c.NormPos.X),
			NormY:    int32(c.NormPos.Y),
		}
		if c.Legacy != nil {
			rows[i].Legacy = append([]byte(nil), c.Legacy[:]...)
		}
	}
	return rows
}

// RunBOD2Parquet writes the cells of each input .bod file into one parquet file.
func RunBOD2Parquet(inputFiles []string, outPath string) error {
	var rows []CellRow
	for _, in := range inputFiles {
		o, err := bod.Load(in)
		if err != nil {
			return err
		}
		rows = append(rows, CellRows(filepath.Base(in), o)...)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)
	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "bod_cell_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	Logger.Info("parquet written", "out", outPath, "files", len(inputFiles), "rows", len(rows))
	return nil
}

// ReadParquetCells reads back rows written by RunBOD2Parquet.
func ReadParquetCells(path string) ([]CellRow, error) {
	rows, err := parquet.ReadFile[CellRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
