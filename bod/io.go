package bod

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// DecodeOptions adjusts how bounds and the index are derived after reading.
type DecodeOptions struct {
	// TightBounds seeds the bounding box from the cells alone. By default the
	// origin is always included, matching the bounds existing tools compute.
	TightBounds bool
	// MaxIndexArea caps width*height of the index. Zero means DefaultMaxIndexArea,
	// negative means unlimited.
	MaxIndexArea int
}

func (opts DecodeOptions) maxArea() int {
	switch {
	case opts.MaxIndexArea == 0:
		return DefaultMaxIndexArea
	case opts.MaxIndexArea < 0:
		return 0
	}
	return opts.MaxIndexArea
}

// Load reads and decodes the .bod file at path. Files whose bounding box
// exceeds DefaultMaxIndexArea slots fail with ErrIndexTooLarge; use
// LoadWithOptions with DecodeOptions.MaxIndexArea to raise the limit.
func Load(path string) (*Organism, error) {
	return LoadWithOptions(path, DecodeOptions{})
}

// LoadWithOptions is Load with explicit decode options.
func LoadWithOptions(path string, opts DecodeOptions) (*Organism, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	o, err := Decode(bufio.NewReader(f), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// LoadFromBytes decodes a .bod file held in memory.
func LoadFromBytes(data []byte) (*Organism, error) {
	return Decode(bytes.NewReader(data), DecodeOptions{})
}

// Decode reads one organism from r. Either the whole organism is returned
// or an error; a short stream yields ErrTruncatedInput.
func Decode(r io.Reader, opts DecodeOptions) (*Organism, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	o := &Organism{
		Version:          hdr.Version,
		Orientation:      hdr.Orientation,
		CombinationCount: hdr.CombinationCount,
		Cells:            make([]Cell, 0, min(int(hdr.CellCount), 1<<16)),
	}
	buf := make([]byte, recordSize(hdr.Version))
	for i := uint32(0); i < hdr.CellCount; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, readErr(fmt.Sprintf("cell %d", i), err)
		}
		o.Cells = append(o.Cells, parseRecord(buf, hdr.Version))
	}

	positions := make([]Point, 0, len(o.Cells)+1)
	for _, c := range o.Cells {
		positions = append(positions, c.Pos)
	}
	if !opts.TightBounds && len(positions) > 0 {
		positions = append(positions, Point{})
	}
	o.offset, o.size = Normalize(positions)
	if err := o.buildIndex(opts.maxArea()); err != nil {
		return nil, err
	}
	return o, nil
}

func readHeader(r io.Reader) (Header, error) {
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr.Version); err != nil {
		return hdr, readErr("version", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.CellCount); err != nil {
		return hdr, readErr("cell count", err)
	}
	if hasOrientation(hdr.Version) {
		if err := binary.Read(r, binary.LittleEndian, &hdr.Orientation); err != nil {
			return hdr, readErr("orientation", err)
		}
	}
	if hasCombination(hdr.Version) {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return hdr, readErr("combination count", err)
		}
		hdr.CombinationCount = &n
	}
	return hdr, nil
}

// parseRecord decodes one cell record; buf must be recordSize(ver) long.
func parseRecord(buf []byte, ver uint32) Cell {
	le := binary.LittleEndian
	c := Cell{
		Type: string(buf[0:4]),
		Color: Color{
			R: math.Float32frombits(le.Uint32(buf[4:])),
			G: math.Float32frombits(le.Uint32(buf[8:])),
			B: math.Float32frombits(le.Uint32(buf[12:])),
			A: math.Float32frombits(le.Uint32(buf[16:])),
		},
		Pos: Point{
			X: int(int32(le.Uint32(buf[20:]))),
			Y: int(int32(le.Uint32(buf[24:]))),
		},
	}
	if hasLegacy(ver) {
		var l [4]byte
		copy(l[:], buf[28:32])
		c.Legacy = &l
	}
	return c
}

func readErr(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w", field, ErrTruncatedInput)
	}
	return fmt.Errorf("%s: %w", field, err)
}
