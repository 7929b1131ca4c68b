package documentai

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/manish-aj/DocumentAI/blobstore"
	"github.com/manish-aj/DocumentAI/resource"
	"github.com/manish-aj/DocumentAI/snapshot"
)

// Section names inside the snapshot container.
const (
	sectionHeader  = "header"
	sectionItems   = "items"
	sectionVectors = "vectors"
)

// snapshotHeader describes the collection a container holds.
type snapshotHeader struct {
	Dimension int `json:"dimension"`
	Count     int `json:"count"`
}

// snapshotItem carries one member's identifier and payload data. Vectors
// travel in their own binary section.
type snapshotItem[K comparable, T any] struct {
	ID   K `json:"id"`
	Data T `json:"data"`
}

// SaveOptions configures snapshot saves.
type SaveOptions struct {
	// Compression selects the section compression. Defaults to zstd.
	Compression snapshot.Compression
}

// SaveToWriter writes the collection to w as a snapshot container.
//
// Live members are persisted in insertion order and removed slots are
// compacted away, so a restored collection ranks ties in the same order as
// the original. IDs and payload data are encoded with the collection's
// codec; the codec name is recorded in the container, so readers need no
// matching configuration.
func (c *Collection[K, T]) SaveToWriter(ctx context.Context, w io.Writer, optFns ...func(o *SaveOptions)) error {
	start := time.Now()
	n, err := c.save(ctx, w, optFns)

	c.metrics.RecordSnapshotSave(n, time.Since(start), err)
	c.logger.LogSnapshot(ctx, "writer", err)

	return err
}

// SaveToFile writes the collection to a snapshot file. The file is written
// to a temp path and renamed into place, so a crash never leaves a partial
// snapshot under the target name.
func (c *Collection[K, T]) SaveToFile(ctx context.Context, filename string, optFns ...func(o *SaveOptions)) error {
	start := time.Now()
	n, err := c.saveToFile(ctx, filename, optFns)

	c.metrics.RecordSnapshotSave(n, time.Since(start), err)
	c.logger.LogSnapshot(ctx, filename, err)

	return err
}

// SaveToStore streams the collection into a blob store under the given name.
// A failed save is aborted, not committed.
func (c *Collection[K, T]) SaveToStore(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *SaveOptions)) error {
	start := time.Now()
	n, err := c.saveToStore(ctx, store, name, optFns)

	c.metrics.RecordSnapshotSave(n, time.Since(start), err)
	c.logger.LogSnapshot(ctx, name, err)

	return err
}

// save writes the container. It returns the number of bytes written to w.
func (c *Collection[K, T]) save(ctx context.Context, w io.Writer, optFns []func(o *SaveOptions)) (int64, error) {
	opts := SaveOptions{
		Compression: snapshot.CompressionZstd,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Stable view of the members under the read lock; IO happens after.
	c.mu.RLock()
	hdr := snapshotHeader{
		Dimension: c.dimension,
		Count:     int(c.live.Cardinality()),
	}
	items := make([]snapshotItem[K, T], 0, hdr.Count)
	vecs := make([]byte, 0, hdr.Count*c.dimension*4)
	for slot := range c.live.All() {
		e := c.entries[slot]
		items = append(items, snapshotItem[K, T]{ID: e.id, Data: e.data})
		vecs = appendVectorLE(vecs, e.vector)
	}
	c.mu.RUnlock()

	cw := &countingWriter{w: w}
	sw, err := snapshot.NewWriter(resource.NewRateLimitedWriter(cw, c.controller, ctx), func(o *snapshot.WriterOptions) {
		o.Codec = c.codec
		o.Compression = opts.Compression
	})
	if err != nil {
		return cw.n, err
	}

	if err := sw.EncodeSection(sectionHeader, hdr); err != nil {
		return cw.n, err
	}
	if err := sw.EncodeSection(sectionItems, items); err != nil {
		return cw.n, err
	}
	if err := sw.WriteSection(sectionVectors, vecs); err != nil {
		return cw.n, err
	}
	if err := sw.Close(); err != nil {
		return cw.n, err
	}

	return cw.n, nil
}

func (c *Collection[K, T]) saveToFile(ctx context.Context, filename string, optFns []func(o *SaveOptions)) (int64, error) {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	n, err := c.save(ctx, buf, optFns)
	if err != nil {
		return n, err
	}
	if err := buf.Flush(); err != nil {
		return n, err
	}
	if err := tmp.Sync(); err != nil {
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return n, err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent the deferred cleanup from removing the final file.
	tmpName = ""
	return n, nil
}

func (c *Collection[K, T]) saveToStore(ctx context.Context, store blobstore.BlobStore, name string, optFns []func(o *SaveOptions)) (int64, error) {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	n, err := c.save(ctx, wb, optFns)
	if err != nil {
		blobstore.Discard(wb)
		return n, err
	}

	return n, wb.Close()
}

// LoadCollectionFromReader restores a collection from a snapshot container.
//
// The container's recorded codec decodes IDs and payload data, so K and T
// must round-trip through that codec. The collection options (logger,
// metrics, codec for future saves, resource controller) apply to the
// restored collection.
func LoadCollectionFromReader[K comparable, T any](ctx context.Context, r io.Reader, optFns ...Option) (*Collection[K, T], error) {
	opts := applyOptions(optFns)
	start := time.Now()

	c, n, err := loadCollection[K, T](ctx, r, opts, optFns)
	return finishLoad(ctx, opts, "reader", start, c, n, err)
}

// LoadCollectionFromFile restores a collection from a snapshot file.
func LoadCollectionFromFile[K comparable, T any](ctx context.Context, filename string, optFns ...Option) (*Collection[K, T], error) {
	opts := applyOptions(optFns)
	start := time.Now()

	f, err := os.Open(filename)
	if err != nil {
		return finishLoad[K, T](ctx, opts, filename, start, nil, 0, err)
	}
	defer f.Close()

	c, n, err := loadCollection[K, T](ctx, bufio.NewReaderSize(f, 256*1024), opts, optFns)
	return finishLoad(ctx, opts, filename, start, c, n, err)
}

// LoadCollectionFromStore restores a collection from a blob store.
func LoadCollectionFromStore[K comparable, T any](ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Collection[K, T], error) {
	opts := applyOptions(optFns)
	start := time.Now()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return finishLoad[K, T](ctx, opts, name, start, nil, 0, err)
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return finishLoad[K, T](ctx, opts, name, start, nil, 0, err)
	}
	defer rc.Close()

	c, n, err := loadCollection[K, T](ctx, rc, opts, optFns)
	return finishLoad(ctx, opts, name, start, c, n, err)
}

// loadCollection reads a container and rebuilds the collection. It returns
// the number of bytes consumed from r.
func loadCollection[K comparable, T any](ctx context.Context, r io.Reader, opts options, optFns []Option) (*Collection[K, T], int64, error) {
	cr := &countingReader{r: r}

	sr, err := snapshot.NewReader(resource.NewRateLimitedReader(cr, opts.controller, ctx))
	if err != nil {
		return nil, cr.n, err
	}

	var (
		hdr   *snapshotHeader
		items []snapshotItem[K, T]
		vecs  []byte
	)

	for {
		name, data, err := sr.NextSection()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cr.n, err
		}

		switch name {
		case sectionHeader:
			hdr = new(snapshotHeader)
			if err := sr.Codec().Unmarshal(data, hdr); err != nil {
				return nil, cr.n, fmt.Errorf("decode snapshot header: %w", err)
			}
		case sectionItems:
			if err := sr.Codec().Unmarshal(data, &items); err != nil {
				return nil, cr.n, fmt.Errorf("decode snapshot items: %w", err)
			}
		case sectionVectors:
			vecs = data
		default:
			// Skip sections written by newer versions.
		}
	}

	if hdr == nil {
		return nil, cr.n, fmt.Errorf("%w: missing %q section", snapshot.ErrCorrupt, sectionHeader)
	}
	if len(items) != hdr.Count {
		return nil, cr.n, fmt.Errorf("%w: %d items, header counts %d", snapshot.ErrCorrupt, len(items), hdr.Count)
	}
	if len(vecs) != hdr.Count*hdr.Dimension*4 {
		return nil, cr.n, fmt.Errorf("%w: vector section holds %d bytes, expected %d", snapshot.ErrCorrupt, len(vecs), hdr.Count*hdr.Dimension*4)
	}

	c, err := NewCollection[K, T](hdr.Dimension, optFns...)
	if err != nil {
		return nil, cr.n, err
	}

	stride := hdr.Dimension * 4
	for i, item := range items {
		vector := decodeVectorLE(vecs[i*stride:(i+1)*stride], hdr.Dimension)
		if err := c.add(ctx, item.ID, vector, item.Data); err != nil {
			return nil, cr.n, fmt.Errorf("restore member %v: %w", item.ID, err)
		}
	}

	return c, cr.n, nil
}

func finishLoad[K comparable, T any](ctx context.Context, opts options, location string, start time.Time, c *Collection[K, T], n int64, err error) (*Collection[K, T], error) {
	opts.metricsCollector.RecordSnapshotLoad(n, time.Since(start), err)

	count := 0
	if c != nil {
		count = c.Len()
	}
	opts.logger.LogRestore(ctx, location, count, err)

	if err != nil {
		return nil, err
	}
	return c, nil
}

func appendVectorLE(dst []byte, vector []float32) []byte {
	var b [4]byte
	for _, f := range vector {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		dst = append(dst, b[:]...)
	}
	return dst
}

func decodeVectorLE(src []byte, dimension int) []float32 {
	vector := make([]float32, dimension)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return vector
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
