/*
Package bod implements a decoder and encoder for .bod organism files.

An organism is a set of hexagonal cells addressed by axial coordinates. The
file is little-endian: a u32 format version, a u32 cell count, a u32
orientation when the version is above 1 and a u32 combination count when the
version is above 3, followed by one record per cell. A record is a 4-byte
type tag, four f32 color channels (red, green, blue, alpha) and two i32
coordinates, 24 bytes in all. Versions below 3 append 4 further bytes of
unknown meaning to every record; they are kept verbatim.

After decoding, cell coordinates are shifted by the bounding box minimum into
a dense row-major index so cells can be read and replaced by position.
*/
package bod
