package bod

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Save encodes o and writes it to path. Nothing is written if encoding fails.
func Save(o *Organism, path string) error {
	data, err := SaveToBytes(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveToBytes returns the .bod file for o as bytes.
func SaveToBytes(o *Organism) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerSize(o.Version) + len(o.Cells)*recordSize(o.Version))
	if err := Encode(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes o to w: the header, then every cell's raw fields in Cells
// order. The index is not consulted.
func Encode(w io.Writer, o *Organism) error {
	if err := validate(o); err != nil {
		return err
	}
	if err := writeHeader(w, o.Header()); err != nil {
		return err
	}
	buf := make([]byte, recordSize(o.Version))
	for i := range o.Cells {
		putRecord(buf, &o.Cells[i], o.Version)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// validate checks everything Encode needs before the first byte is written.
func validate(o *Organism) error {
	if hasCombination(o.Version) && o.CombinationCount == nil {
		return fmt.Errorf("combination count (version %d): %w", o.Version, ErrMissingField)
	}
	if uint64(len(o.Cells)) > math.MaxUint32 {
		return fmt.Errorf("%d cells: too many for header", len(o.Cells))
	}
	legacy := hasLegacy(o.Version)
	for i, c := range o.Cells {
		if len(c.Type) != TypeLen {
			return fmt.Errorf("cell %d type %q: %w", i, c.Type, ErrInvalidCellType)
		}
		if !fitsInt32(c.Pos.X) || !fitsInt32(c.Pos.Y) {
			return fmt.Errorf("cell %d at %v: %w", i, c.Pos, ErrPositionOverflow)
		}
		if legacy && c.Legacy == nil {
			return fmt.Errorf("cell %d legacy payload (version %d): %w", i, o.Version, ErrMissingField)
		}
	}
	return nil
}

func fitsInt32(v int) bool { return v >= math.MinInt32 && v <= math.MaxInt32 }

func writeHeader(w io.Writer, h Header) error {
	fields := []uint32{h.Version, h.CellCount}
	if hasOrientation(h.Version) {
		fields = append(fields, h.Orientation)
	}
	if hasCombination(h.Version) {
		fields = append(fields, *h.CombinationCount)
	}
	return binary.Write(w, binary.LittleEndian, fields)
}

// putRecord encodes c into buf; buf must be recordSize(ver) long.
func putRecord(buf []byte, c *Cell, ver uint32) {
	le := binary.LittleEndian
	copy(buf[0:4], c.Type)
	le.PutUint32(buf[4:], math.Float32bits(c.Color.R))
	le.PutUint32(buf[8:], math.Float32bits(c.Color.G))
	le.PutUint32(buf[12:], math.Float32bits(c.Color.B))
	le.PutUint32(buf[16:], math.Float32bits(c.Color.A))
	le.PutUint32(buf[20:], uint32(int32(c.Pos.X)))
	le.PutUint32(buf[24:], uint32(int32(c.Pos.Y)))
	if hasLegacy(ver) {
		copy(buf[28:32], c.Legacy[:])
	}
}
