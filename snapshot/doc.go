// Package snapshot implements the container format used to persist
// collections.
//
// A container is a small uncompressed preamble followed by named sections and
// a CRC32 trailer:
//
//	preamble   magic "DAI1" | format version | compression | codec name
//	section*   name | raw size | stored size | payload
//	end        zero-length name
//	trailer    CRC32 (IEEE) of everything before it
//
// Sections are compressed independently (zstd or lz4) and stored raw when
// compression does not help; a stored size of zero marks a raw payload. The
// codec and compression are recorded in the preamble, so a reader needs no
// out-of-band configuration to open a container.
//
// CRC32 detects accidental corruption (truncation, bit rot, partial writes).
// It is not cryptographically secure and does not detect deliberate tampering.
package snapshot
