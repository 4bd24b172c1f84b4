package bod

// Format thresholds. Orientation exists above versionOrientation, the
// combination count above versionCombination, and the legacy per-cell field
// below versionNoLegacy.
const (
	versionOrientation = 1
	versionNoLegacy    = 3
	versionCombination = 3

	// DefaultVersion is the version given to organisms built with New.
	DefaultVersion = 3
)

// Header holds the fixed fields preceding the cell records.
// Orientation and CombinationCount are only meaningful when the version
// carries them; CombinationCount is nil otherwise.
type Header struct {
	Version          uint32
	CellCount        uint32
	Orientation      uint32
	CombinationCount *uint32
}

func hasOrientation(ver uint32) bool { return ver > versionOrientation }

func hasCombination(ver uint32) bool { return ver > versionCombination }

func hasLegacy(ver uint32) bool { return ver < versionNoLegacy }

// recordSize returns the size in bytes of one cell record for the version.
func recordSize(ver uint32) int {
	n := TypeLen + 4*4 + 2*4
	if hasLegacy(ver) {
		n += 4
	}
	return n
}

// headerSize returns the size in bytes of the header for the version.
func headerSize(ver uint32) int {
	n := 8
	if hasOrientation(ver) {
		n += 4
	}
	if hasCombination(ver) {
		n += 4
	}
	return n
}
