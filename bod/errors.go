package bod

import "errors"

var (
	// ErrTruncatedInput is returned when the stream ends before a field is complete.
	ErrTruncatedInput = errors.New("bod: truncated input")
	// ErrInvalidCellType is returned when a cell type tag is not exactly 4 bytes.
	ErrInvalidCellType = errors.New("bod: cell type must be exactly 4 bytes")
	// ErrMissingField is returned when a field required by the format version is absent.
	ErrMissingField = errors.New("bod: missing version-gated field")
	// ErrPositionOverflow is returned when a raw position does not fit in int32.
	ErrPositionOverflow = errors.New("bod: position out of int32 range")

	// ErrOutOfBounds is returned for a position outside [0, size).
	ErrOutOfBounds = errors.New("bod: position outside grid")
	// ErrEmptySlot is returned when no cell occupies the requested position.
	ErrEmptySlot = errors.New("bod: no cell at position")
	// ErrIndexNotBuilt is returned when the index is stale; call BuildIndex.
	ErrIndexNotBuilt = errors.New("bod: index not built")
	// ErrIndexTooLarge is returned when width*height exceeds the index limit.
	ErrIndexTooLarge = errors.New("bod: index area exceeds limit")

	// ErrNotPack is returned when data does not start with the pack magic.
	ErrNotPack = errors.New("bod: not a .bodpack")
	// ErrChecksum is returned when a pack entry does not match its digest.
	ErrChecksum = errors.New("bod: pack entry checksum mismatch")
)
