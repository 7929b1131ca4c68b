package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/manish-aj/DocumentAI/codec"
)

const (
	// Magic identifies snapshot containers.
	Magic = "DAI1"

	// Version is the current container format version.
	Version uint16 = 1

	// maxNameLen bounds section and codec names (length is a single byte).
	maxNameLen = 255

	// maxSectionLen bounds section payloads. Larger values in a header mean
	// the container is corrupt, and refusing them avoids huge allocations.
	maxSectionLen = 1 << 30
)

var (
	// ErrBadMagic is returned when the input does not start with the
	// container magic.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrUnsupportedVersion is returned for containers written by an
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")

	// ErrUnknownCodec is returned when the codec recorded in the preamble is
	// not registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrUnknownCompression is returned for an unrecognized compression
	// algorithm.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")

	// ErrCorrupt is returned when the container structure is damaged.
	ErrCorrupt = errors.New("snapshot: corrupt container")

	// ErrClosed is returned when writing to a closed writer.
	ErrClosed = errors.New("snapshot: writer is closed")
)

// WriterOptions configures a container writer.
type WriterOptions struct {
	// Codec encodes section values and is recorded in the preamble.
	Codec codec.Codec

	// Compression is applied to section payloads.
	Compression Compression
}

// Writer writes a snapshot container to an underlying writer.
//
// Sections are written in call order and read back in the same order. Close
// finalizes the container; a container without its trailer does not verify.
type Writer struct {
	raw         io.Writer
	cw          *ChecksumWriter
	codec       codec.Codec
	compression Compression
	closed      bool
}

// NewWriter creates a container writer and emits the preamble.
func NewWriter(w io.Writer, optFns ...func(o *WriterOptions)) (*Writer, error) {
	opts := WriterOptions{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if !opts.Compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(opts.Compression))
	}

	name := opts.Codec.Name()
	if name == "" || len(name) > maxNameLen {
		return nil, fmt.Errorf("snapshot: invalid codec name %q", name)
	}

	sw := &Writer{
		raw:         w,
		cw:          NewChecksumWriter(w),
		codec:       opts.Codec,
		compression: opts.Compression,
	}

	if err := sw.writePreamble(name); err != nil {
		return nil, err
	}

	return sw, nil
}

func (w *Writer) writePreamble(codecName string) error {
	var buf bytes.Buffer

	buf.WriteString(Magic)

	var version [2]byte
	binary.LittleEndian.PutUint16(version[:], Version)
	buf.Write(version[:])

	buf.WriteByte(byte(w.compression))
	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)

	if _, err := w.cw.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("snapshot: write preamble: %w", err)
	}

	return nil
}

// Codec returns the codec recorded in the container preamble.
func (w *Writer) Codec() codec.Codec {
	return w.codec
}

// WriteSection appends a named section holding data.
func (w *Writer) WriteSection(name string, data []byte) error {
	if w.closed {
		return ErrClosed
	}

	if name == "" || len(name) > maxNameLen {
		return fmt.Errorf("snapshot: invalid section name %q", name)
	}

	if len(data) > maxSectionLen {
		return fmt.Errorf("snapshot: section %q exceeds %d bytes", name, maxSectionLen)
	}

	payload, compressed, err := compressSection(data, w.compression)
	if err != nil {
		return err
	}

	var hdr bytes.Buffer
	hdr.WriteByte(byte(len(name)))
	hdr.WriteString(name)

	// Raw size, then stored size. A stored size of zero marks a raw payload.
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:4], uint32(len(data)))
	if compressed {
		binary.LittleEndian.PutUint32(sizes[4:8], uint32(len(payload)))
	}
	hdr.Write(sizes[:])

	if _, err := w.cw.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("snapshot: write section %q: %w", name, err)
	}
	if _, err := w.cw.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write section %q: %w", name, err)
	}

	return nil
}

// EncodeSection marshals v with the container codec and writes it as a
// section.
func (w *Writer) EncodeSection(name string, v any) error {
	data, err := w.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("snapshot: encode section %q: %w", name, err)
	}

	return w.WriteSection(name, data)
}

// Close writes the end-of-sections marker and the checksum trailer.
// It does not close the underlying writer. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if _, err := w.cw.Write([]byte{0}); err != nil {
		return fmt.Errorf("snapshot: write end marker: %w", err)
	}

	// The trailer holds the checksum of everything before it, so it is
	// written around the checksumming writer.
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], w.cw.Sum())
	if _, err := w.raw.Write(trailer[:]); err != nil {
		return fmt.Errorf("snapshot: write checksum: %w", err)
	}

	return nil
}

// Reader reads a snapshot container.
//
// The trailer checksum is verified when NextSection reaches the end of the
// container, so a caller that stops early skips verification.
type Reader struct {
	raw         io.Reader
	cr          *ChecksumReader
	codec       codec.Codec
	compression Compression
	done        bool
}

// NewReader opens a container and validates its preamble.
func NewReader(r io.Reader) (*Reader, error) {
	cr := NewChecksumReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagic, err)
	}
	if string(magic[:]) != Magic {
		return nil, ErrBadMagic
	}

	var version [2]byte
	if _, err := io.ReadFull(cr, version[:]); err != nil {
		return nil, fmt.Errorf("%w: read version: %w", ErrCorrupt, err)
	}
	if v := binary.LittleEndian.Uint16(version[:]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	var meta [2]byte
	if _, err := io.ReadFull(cr, meta[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrCorrupt, err)
	}

	compression := Compression(meta[0])
	if !compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, meta[0])
	}

	nameLen := int(meta[1])
	if nameLen == 0 {
		return nil, fmt.Errorf("%w: empty codec name", ErrCorrupt)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(cr, name); err != nil {
		return nil, fmt.Errorf("%w: read codec name: %w", ErrCorrupt, err)
	}

	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	return &Reader{
		raw:         r,
		cr:          cr,
		codec:       c,
		compression: compression,
	}, nil
}

// Codec returns the codec recorded in the container preamble.
func (r *Reader) Codec() codec.Codec {
	return r.codec
}

// Compression returns the compression recorded in the container preamble.
func (r *Reader) Compression() Compression {
	return r.compression
}

// NextSection returns the next section in write order. At the end of the
// container it verifies the checksum trailer and returns io.EOF, or a
// ChecksumMismatchError when the content does not match.
func (r *Reader) NextSection() (string, []byte, error) {
	if r.done {
		return "", nil, io.EOF
	}

	var nameLen [1]byte
	if _, err := io.ReadFull(r.cr, nameLen[:]); err != nil {
		return "", nil, fmt.Errorf("%w: read section name: %w", ErrCorrupt, err)
	}

	if nameLen[0] == 0 {
		r.done = true
		return "", nil, r.verifyTrailer()
	}

	name := make([]byte, nameLen[0])
	if _, err := io.ReadFull(r.cr, name); err != nil {
		return "", nil, fmt.Errorf("%w: read section name: %w", ErrCorrupt, err)
	}

	var sizes [8]byte
	if _, err := io.ReadFull(r.cr, sizes[:]); err != nil {
		return "", nil, fmt.Errorf("%w: read section %q header: %w", ErrCorrupt, name, err)
	}

	rawLen := binary.LittleEndian.Uint32(sizes[0:4])
	storedLen := binary.LittleEndian.Uint32(sizes[4:8])
	if rawLen > maxSectionLen || storedLen > maxSectionLen {
		return "", nil, fmt.Errorf("%w: section %q size out of range", ErrCorrupt, name)
	}

	n := storedLen
	if n == 0 {
		n = rawLen
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r.cr, payload); err != nil {
		return "", nil, fmt.Errorf("%w: read section %q: %w", ErrCorrupt, name, err)
	}

	if storedLen == 0 {
		return string(name), payload, nil
	}

	data, err := decompressSection(payload, rawLen, r.compression)
	if err != nil {
		return "", nil, fmt.Errorf("section %q: %w", name, err)
	}

	return string(name), data, nil
}

// verifyTrailer reads the trailing checksum and compares it against the
// running sum. The trailer bytes are read around the checksumming reader.
func (r *Reader) verifyTrailer() error {
	var trailer [4]byte
	if _, err := io.ReadFull(r.raw, trailer[:]); err != nil {
		return fmt.Errorf("%w: read checksum: %w", ErrCorrupt, err)
	}

	if err := r.cr.Verify(binary.LittleEndian.Uint32(trailer[:])); err != nil {
		return err
	}

	return io.EOF
}
