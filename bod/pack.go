package bod

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// PackCompression indicates the compression used for the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

// PackLayout specifies how the content section stores entries.
type PackLayout uint8

const (
	// LayoutRaw stores every entry's bytes inline.
	LayoutRaw PackLayout = 0
	// LayoutDedup stores each distinct file once and entries as references.
	LayoutDedup PackLayout = 1
)

const (
	packMagicStr = "BODPACK\x00"
	packVersion1 = 1
)

// PackEntry is one named .bod file inside a pack.
type PackEntry struct {
	Name string
	Data []byte
}

// Organism decodes the entry.
func (e PackEntry) Organism() (*Organism, error) {
	o, err := LoadFromBytes(e.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return o, nil
}

// Pack is an ordered collection of .bod files.
type Pack struct {
	Entries []PackEntry
}

// Add encodes o and appends it under name.
func (p *Pack) Add(name string, o *Organism) error {
	data, err := SaveToBytes(o)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.Entries = append(p.Entries, PackEntry{Name: name, Data: data})
	return nil
}

// Organisms decodes every entry, in order.
func (p *Pack) Organisms() ([]*Organism, error) {
	out := make([]*Organism, len(p.Entries))
	for i, e := range p.Entries {
		o, err := e.Organism()
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// Marshal encodes the pack with the raw layout.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	return p.MarshalEx(LayoutRaw, comp)
}

// MarshalEx encodes the pack with the given layout and compression codec.
func (p *Pack) MarshalEx(layout PackLayout, comp PackCompression) ([]byte, error) {
	var content bytes.Buffer
	_ = binary.Write(&content, binary.LittleEndian, uint8(layout))

	switch layout {
	case LayoutRaw:
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(p.Entries)))
		for _, e := range p.Entries {
			if err := writeName(&content, e.Name); err != nil {
				return nil, err
			}
			_ = binary.Write(&content, binary.LittleEndian, xxhash.Sum64(e.Data))
			_ = binary.Write(&content, binary.LittleEndian, uint32(len(e.Data)))
			_, _ = content.Write(e.Data)
		}
	case LayoutDedup:
		blobs, refs := buildBlobIndex(p.Entries)
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(blobs)))
		for _, b := range blobs {
			_ = binary.Write(&content, binary.LittleEndian, uint32(len(b)))
			_, _ = content.Write(b)
		}
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(p.Entries)))
		for i, e := range p.Entries {
			if err := writeName(&content, e.Name); err != nil {
				return nil, err
			}
			_ = binary.Write(&content, binary.LittleEndian, xxhash.Sum64(e.Data))
			_ = binary.Write(&content, binary.LittleEndian, uint32(refs[i]))
		}
	default:
		return nil, fmt.Errorf("unsupported pack layout: %d", layout)
	}

	var finalContent []byte
	switch comp {
	case PackCompNone:
		finalContent = content.Bytes()
	case PackCompZlib:
		var buf bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if _, err := zw.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		finalContent = buf.Bytes()
	case PackCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		finalContent = enc.EncodeAll(content.Bytes(), nil)
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("unsupported pack compression: %d", comp)
	}

	var out bytes.Buffer
	out.WriteString(packMagicStr)
	_ = binary.Write(&out, binary.LittleEndian, uint8(packVersion1))
	_ = binary.Write(&out, binary.LittleEndian, uint8(comp))
	_, _ = out.Write(finalContent)
	return out.Bytes(), nil
}

// UnmarshalPack parses a .bodpack and returns it with the compression used.
// Every entry's digest is verified.
func UnmarshalPack(data []byte) (*Pack, PackCompression, error) {
	if len(data) < len(packMagicStr)+2 || string(data[:len(packMagicStr)]) != packMagicStr {
		return nil, 0, ErrNotPack
	}
	version := data[len(packMagicStr)]
	comp := PackCompression(data[len(packMagicStr)+1])
	if version != packVersion1 {
		return nil, 0, fmt.Errorf("unsupported pack version: %d", version)
	}
	contentBytes := data[len(packMagicStr)+2:]
	switch comp {
	case PackCompNone:
	case PackCompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(contentBytes))
		if err != nil {
			return nil, 0, err
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		if err != nil {
			return nil, 0, err
		}
		contentBytes = b
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(contentBytes, nil)
		if err != nil {
			return nil, 0, err
		}
		contentBytes = b
	default:
		return nil, 0, fmt.Errorf("unsupported pack compression: %d", comp)
	}

	r := bytes.NewReader(contentBytes)
	var layout uint8
	if err := binary.Read(r, binary.LittleEndian, &layout); err != nil {
		return nil, 0, readErr("layout", err)
	}
	var pack *Pack
	var err error
	switch PackLayout(layout) {
	case LayoutRaw:
		pack, err = readRawEntries(r)
	case LayoutDedup:
		pack, err = readDedupEntries(r)
	default:
		err = fmt.Errorf("unknown pack layout: %d", layout)
	}
	if err != nil {
		return nil, 0, err
	}
	return pack, comp, nil
}

func readRawEntries(r *bytes.Reader) (*Pack, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, readErr("entry count", err)
	}
	pack := &Pack{Entries: make([]PackEntry, 0, min(int(n), 1<<12))}
	for i := uint32(0); i < n; i++ {
		name, sum, err := readEntryHead(r, i)
		if err != nil {
			return nil, err
		}
		payload, err := readBlob(r, fmt.Sprintf("entry %d", i))
		if err != nil {
			return nil, err
		}
		if xxhash.Sum64(payload) != sum {
			return nil, fmt.Errorf("%s: %w", name, ErrChecksum)
		}
		pack.Entries = append(pack.Entries, PackEntry{Name: name, Data: payload})
	}
	return pack, nil
}

func readDedupEntries(r *bytes.Reader) (*Pack, error) {
	var nBlobs uint32
	if err := binary.Read(r, binary.LittleEndian, &nBlobs); err != nil {
		return nil, readErr("blob count", err)
	}
	blobs := make([][]byte, 0, min(int(nBlobs), 1<<12))
	for i := uint32(0); i < nBlobs; i++ {
		b, err := readBlob(r, fmt.Sprintf("blob %d", i))
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, readErr("entry count", err)
	}
	pack := &Pack{Entries: make([]PackEntry, 0, min(int(n), 1<<12))}
	for i := uint32(0); i < n; i++ {
		name, sum, err := readEntryHead(r, i)
		if err != nil {
			return nil, err
		}
		var ref uint32
		if err := binary.Read(r, binary.LittleEndian, &ref); err != nil {
			return nil, readErr(name, err)
		}
		if ref >= nBlobs {
			return nil, fmt.Errorf("%s: invalid blob index %d", name, ref)
		}
		if xxhash.Sum64(blobs[ref]) != sum {
			return nil, fmt.Errorf("%s: %w", name, ErrChecksum)
		}
		data := append([]byte(nil), blobs[ref]...)
		pack.Entries = append(pack.Entries, PackEntry{Name: name, Data: data})
	}
	return pack, nil
}

func writeName(w *bytes.Buffer, name string) error {
	if len(name) > 0xFFFF {
		return fmt.Errorf("name too long: %s", name)
	}
	_ = binary.Write(w, binary.LittleEndian, uint16(len(name)))
	_, _ = w.WriteString(name)
	return nil
}

func readEntryHead(r *bytes.Reader, i uint32) (string, uint64, error) {
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return "", 0, readErr(fmt.Sprintf("entry %d name", i), err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return "", 0, readErr(fmt.Sprintf("entry %d name", i), err)
	}
	var sum uint64
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return "", 0, readErr(fmt.Sprintf("entry %d digest", i), err)
	}
	return string(nameBytes), sum, nil
}

func readBlob(r *bytes.Reader, what string) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, readErr(what, err)
	}
	if int64(n) > int64(r.Len()) {
		return nil, fmt.Errorf("%s: %w", what, ErrTruncatedInput)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, readErr(what, err)
	}
	return b, nil
}

// buildBlobIndex keeps one copy of each distinct entry payload and returns,
// per entry, the index of its blob.
func buildBlobIndex(entries []PackEntry) ([][]byte, []int) {
	blobs := make([][]byte, 0, len(entries))
	index := make(map[uint64][]int, len(entries))
	refs := make([]int, len(entries))
	for i, e := range entries {
		h := xxhash.Sum64(e.Data)
		ref := -1
		for _, idx := range index[h] {
			if bytes.Equal(blobs[idx], e.Data) {
				ref = idx
				break
			}
		}
		if ref < 0 {
			ref = len(blobs)
			blobs = append(blobs, e.Data)
			index[h] = append(index[h], ref)
		}
		refs[i] = ref
	}
	return blobs, refs
}
