package bod_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/voxelsplace/bod/bod"
)

type rec struct {
	typ    string
	color  [4]float32
	x, y   int32
	legacy []byte
}

// stream builds a .bod file by hand. header holds every u32 that precedes
// the records, in order.
func stream(header []uint32, recs ...rec) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, header)
	for _, r := range recs {
		buf.WriteString(r.typ)
		_ = binary.Write(&buf, binary.LittleEndian, r.color)
		_ = binary.Write(&buf, binary.LittleEndian, [2]int32{r.x, r.y})
		buf.Write(r.legacy)
	}
	return buf.Bytes()
}

var red = [4]float32{1, 0, 0, 1}

func TestDecodeVersion4SingleCell(t *testing.T) {
	data := stream([]uint32{4, 1, 0, 0}, rec{typ: "SPIK", color: red})
	want := []byte{4, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(data[:16], want) {
		t.Fatalf("header bytes %x, want %x", data[:16], want)
	}
	if len(data) != 16+24 {
		t.Fatalf("stream length %d, want 40", len(data))
	}

	o, err := bod.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Version != 4 || o.Orientation != 0 || o.CellCount() != 1 {
		t.Fatalf("header = %+v", o.Header())
	}
	if o.CombinationCount == nil || *o.CombinationCount != 0 {
		t.Fatalf("combination count = %v, want 0", o.CombinationCount)
	}
	if o.Size() != (bod.Point{X: 1, Y: 1}) || o.Offset() != (bod.Point{}) {
		t.Fatalf("size %v offset %v", o.Size(), o.Offset())
	}
	c, err := o.GetCell(0, 0)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if c.Type != "SPIK" || c.Color != (bod.Color{R: 1, A: 1}) || c.NormPos != (bod.Point{}) {
		t.Fatalf("cell = %+v", c)
	}
	if c.Legacy != nil {
		t.Fatalf("version 4 cell has legacy payload")
	}
}

func TestDecodeVersion2HasNoCombinationCount(t *testing.T) {
	legacy := []byte{9, 8, 7, 6}
	data := stream([]uint32{2, 1, 5}, rec{typ: "EYE_", color: red, x: 1, y: 1, legacy: legacy})
	if len(data) != 12+28 {
		t.Fatalf("stream length %d", len(data))
	}
	o, err := bod.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.CombinationCount != nil {
		t.Fatalf("version 2 decoded a combination count")
	}
	if o.Orientation != 5 {
		t.Fatalf("orientation = %d, want 5", o.Orientation)
	}

	// A stale combination count on a version 2 organism is never written.
	n := uint32(77)
	o.CombinationCount = &n
	out, err := bod.SaveToBytes(o)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("re-encoded %x, want %x", out, data)
	}
}

func TestVersion1LegacyPayloadRoundTrip(t *testing.T) {
	data := stream([]uint32{1, 2},
		rec{typ: "MOUT", color: [4]float32{0.25, 0.5, 0.75, 1}, x: -1, y: 2, legacy: []byte{0xde, 0xad, 0xbe, 0xef}},
		rec{typ: "SKIN", color: [4]float32{-3, 2, 9, 0}, x: 1, y: 0, legacy: []byte{1, 2, 3, 4}},
	)
	o, err := bod.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Orientation != 0 {
		t.Fatalf("version 1 orientation = %d", o.Orientation)
	}
	if o.Cells[0].Legacy == nil || *o.Cells[0].Legacy != [4]byte{0xde, 0xad, 0xbe, 0xef} {
		t.Fatalf("legacy payload = %v", o.Cells[0].Legacy)
	}
	out, err := bod.SaveToBytes(o)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("re-encoded %x, want %x", out, data)
	}
}

func TestRoundTripAcrossVersions(t *testing.T) {
	legacy := []byte{0, 1, 2, 3}
	streams := map[string][]byte{
		"v0": stream([]uint32{0, 1}, rec{typ: "AAAA", x: 3, y: -4, legacy: legacy}),
		"v1": stream([]uint32{1, 2}, rec{typ: "AAAA", legacy: legacy}, rec{typ: "BBBB", x: -7, y: 7, legacy: legacy}),
		"v2": stream([]uint32{2, 1, 3}, rec{typ: "AAAA", color: red, x: 2, legacy: legacy}),
		"v3": stream([]uint32{3, 3, 1},
			rec{typ: "AAAA", x: -2, y: -2}, rec{typ: "BBBB", x: 5}, rec{typ: "CCCC", y: 6}),
		"v4":   stream([]uint32{4, 2, 2, 11}, rec{typ: "SPIK", color: red}, rec{typ: "SPIK", x: 1}),
		"v9":   stream([]uint32{9, 1, 0, 1}, rec{typ: "FUTR", x: 100, y: -100}),
		"none": stream([]uint32{4, 0, 0, 0}),
	}
	for name, data := range streams {
		o1, err := bod.LoadFromBytes(data)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		out, err := bod.SaveToBytes(o1)
		if err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("%s: bytes changed through round trip", name)
		}
		o2, err := bod.LoadFromBytes(out)
		if err != nil {
			t.Fatalf("%s: decode again: %v", name, err)
		}
		if !reflect.DeepEqual(o1, o2) {
			t.Fatalf("%s: organism changed through round trip", name)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := stream([]uint32{1, 2},
		rec{typ: "MOUT", legacy: []byte{1, 1, 1, 1}},
		rec{typ: "SKIN", x: 1, legacy: []byte{2, 2, 2, 2}},
	)
	for n := 0; n < len(data); n++ {
		o, err := bod.LoadFromBytes(data[:n])
		if !errors.Is(err, bod.ErrTruncatedInput) {
			t.Fatalf("prefix %d: err = %v, want ErrTruncatedInput", n, err)
		}
		if o != nil {
			t.Fatalf("prefix %d: partial organism returned", n)
		}
	}
}

func TestDecodeBoundsIncludeOrigin(t *testing.T) {
	data := stream([]uint32{3, 2, 0}, rec{typ: "AAAA", x: 2, y: 3}, rec{typ: "BBBB", x: 4, y: 5})

	o, err := bod.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Offset() != (bod.Point{}) || o.Size() != (bod.Point{X: 5, Y: 6}) {
		t.Fatalf("origin bounds: offset %v size %v", o.Offset(), o.Size())
	}

	tight, err := bod.Decode(bytes.NewReader(data), bod.DecodeOptions{TightBounds: true})
	if err != nil {
		t.Fatalf("decode tight: %v", err)
	}
	if tight.Offset() != (bod.Point{X: 2, Y: 3}) || tight.Size() != (bod.Point{X: 3, Y: 3}) {
		t.Fatalf("tight bounds: offset %v size %v", tight.Offset(), tight.Size())
	}
	c, err := tight.GetCell(2, 2)
	if err != nil || c.Type != "BBBB" {
		t.Fatalf("tight GetCell(2,2) = %+v, %v", c, err)
	}
}

func TestDecodeEmptyOrganism(t *testing.T) {
	o, err := bod.LoadFromBytes(stream([]uint32{3, 0, 0}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Size() != (bod.Point{}) || !o.Indexed() {
		t.Fatalf("size %v indexed %v", o.Size(), o.Indexed())
	}
	if _, err := o.GetCell(0, 0); !errors.Is(err, bod.ErrOutOfBounds) {
		t.Fatalf("GetCell on empty organism: %v", err)
	}
}

func TestDecodeIndexAreaLimit(t *testing.T) {
	data := stream([]uint32{3, 1, 0}, rec{typ: "AAAA", x: 3, y: 3})
	if _, err := bod.Decode(bytes.NewReader(data), bod.DecodeOptions{MaxIndexArea: 15}); !errors.Is(err, bod.ErrIndexTooLarge) {
		t.Fatalf("err = %v, want ErrIndexTooLarge", err)
	}
	if _, err := bod.Decode(bytes.NewReader(data), bod.DecodeOptions{MaxIndexArea: 16}); err != nil {
		t.Fatalf("decode at limit: %v", err)
	}
}

func TestDecodeUnlimitedAreaRejectsOverflow(t *testing.T) {
	data := stream([]uint32{3, 2, 0},
		rec{typ: "AAAA", x: math.MinInt32, y: math.MinInt32},
		rec{typ: "BBBB", x: math.MaxInt32, y: math.MaxInt32},
	)
	o, err := bod.Decode(bytes.NewReader(data), bod.DecodeOptions{MaxIndexArea: -1})
	if !errors.Is(err, bod.ErrIndexTooLarge) {
		t.Fatalf("err = %v, want ErrIndexTooLarge", err)
	}
	if o != nil {
		t.Fatalf("organism returned for oversized index")
	}
}

func TestLoadSaveFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "snail.bod")
	out := filepath.Join(dir, "snail2.bod")
	data := stream([]uint32{4, 2, 1, 3}, rec{typ: "SPIK", color: red, x: -1}, rec{typ: "MOUT", y: 1})
	if err := bod.Save(mustDecode(t, data), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	o, err := bod.Load(in)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := bod.Save(o, out); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := bod.Load(out)
	if err != nil {
		t.Fatalf("load again: %v", err)
	}
	if !reflect.DeepEqual(o, got) {
		t.Fatalf("file round trip changed organism")
	}
	if _, err := bod.Load(filepath.Join(dir, "missing.bod")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func mustDecode(t *testing.T, data []byte) *bod.Organism {
	t.Helper()
	o, err := bod.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return o
}
