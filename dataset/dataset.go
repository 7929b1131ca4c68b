package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Default column names.
const (
	DefaultIDColumn        = "id"
	DefaultTextColumn      = "text"
	DefaultEmbeddingColumn = "embedding"
)

// Record is one row of an embedding dataset.
type Record struct {
	// ID is the row's identifier.
	ID string

	// Text is the row's primary text, empty when the dataset has no text
	// column.
	Text string

	// Vector is the row's embedding.
	Vector []float32

	// Fields holds the remaining columns verbatim, nil when there are
	// none.
	Fields map[string]string
}

// RowError reports a failure at a specific data row. Row is 1-based and
// does not count the header.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ReaderOptions contains options for NewReader.
type ReaderOptions struct {
	// IDColumn names the identifier column. Default: "id".
	IDColumn string

	// TextColumn names the primary text column. A missing text column is
	// not an error; Text is then left empty. Default: "text".
	TextColumn string

	// EmbeddingColumn names the column holding the JSON-encoded embedding.
	// Default: "embedding".
	EmbeddingColumn string
}

func (o *ReaderOptions) fillDefaults() {
	if o.IDColumn == "" {
		o.IDColumn = DefaultIDColumn
	}
	if o.TextColumn == "" {
		o.TextColumn = DefaultTextColumn
	}
	if o.EmbeddingColumn == "" {
		o.EmbeddingColumn = DefaultEmbeddingColumn
	}
}

// Reader reads dataset records from CSV.
type Reader struct {
	csv    *csv.Reader
	header []string

	idIdx   int
	textIdx int // -1 when the dataset has no text column
	embIdx  int
	fields  []int

	row int
}

// NewReader builds a Reader over r and consumes the header row.
//
// The id and embedding columns must be present in the header.
func NewReader(r io.Reader, optFns ...func(o *ReaderOptions)) (*Reader, error) {
	opts := ReaderOptions{
		IDColumn:        DefaultIDColumn,
		TextColumn:      DefaultTextColumn,
		EmbeddingColumn: DefaultEmbeddingColumn,
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.fillDefaults()

	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dr := &Reader{
		csv:     cr,
		header:  header,
		idIdx:   -1,
		textIdx: -1,
		embIdx:  -1,
	}

	for i, name := range header {
		switch name {
		case opts.IDColumn:
			dr.idIdx = i
		case opts.TextColumn:
			dr.textIdx = i
		case opts.EmbeddingColumn:
			dr.embIdx = i
		default:
			dr.fields = append(dr.fields, i)
		}
	}

	if dr.idIdx < 0 {
		return nil, fmt.Errorf("missing column %q in header", opts.IDColumn)
	}
	if dr.embIdx < 0 {
		return nil, fmt.Errorf("missing column %q in header", opts.EmbeddingColumn)
	}

	return dr, nil
}

// Header returns the dataset's header row.
func (r *Reader) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// Read returns the next record. It returns io.EOF when the input is
// exhausted and a *RowError when a row cannot be parsed.
func (r *Reader) Read() (Record, error) {
	row, err := r.csv.Read()
	if err != nil {
		// csv.ParseError already carries the physical line number.
		return Record{}, err
	}
	r.row++

	var vec []float32
	if err := gojson.Unmarshal([]byte(row[r.embIdx]), &vec); err != nil {
		return Record{}, &RowError{
			Row: r.row,
			Err: fmt.Errorf("parse %q: %w", r.header[r.embIdx], err),
		}
	}

	rec := Record{
		ID:     row[r.idIdx],
		Vector: vec,
	}
	if r.textIdx >= 0 {
		rec.Text = row[r.textIdx]
	}
	if len(r.fields) > 0 {
		rec.Fields = make(map[string]string, len(r.fields))
		for _, i := range r.fields {
			rec.Fields[r.header[i]] = row[i]
		}
	}

	return rec, nil
}

// ReadAll returns all remaining records. It stops at the first malformed
// row.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// WriterOptions contains options for NewWriter.
type WriterOptions struct {
	// IDColumn names the identifier column. Default: "id".
	IDColumn string

	// TextColumn names the primary text column. Default: "text".
	TextColumn string

	// EmbeddingColumn names the embedding column. Default: "embedding".
	EmbeddingColumn string

	// FieldColumns fixes the free columns and their order. Default: the
	// first written record's field names, sorted.
	FieldColumns []string
}

// Writer emits dataset records as CSV. The header is written with the
// first record.
type Writer struct {
	csv    *csv.Writer
	opts   WriterOptions
	fields []string

	wroteHeader bool
	row         int
}

// NewWriter builds a Writer on w.
func NewWriter(w io.Writer, optFns ...func(o *WriterOptions)) *Writer {
	opts := WriterOptions{
		IDColumn:        DefaultIDColumn,
		TextColumn:      DefaultTextColumn,
		EmbeddingColumn: DefaultEmbeddingColumn,
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.IDColumn == "" {
		opts.IDColumn = DefaultIDColumn
	}
	if opts.TextColumn == "" {
		opts.TextColumn = DefaultTextColumn
	}
	if opts.EmbeddingColumn == "" {
		opts.EmbeddingColumn = DefaultEmbeddingColumn
	}

	return &Writer{
		csv:  csv.NewWriter(w),
		opts: opts,
	}
}

// Write appends one record. Records may omit field columns (the cell stays
// empty) but must not introduce ones absent from the header.
func (w *Writer) Write(rec Record) error {
	if !w.wroteHeader {
		w.fields = w.opts.FieldColumns
		if w.fields == nil {
			w.fields = make([]string, 0, len(rec.Fields))
			for name := range rec.Fields {
				w.fields = append(w.fields, name)
			}
			sort.Strings(w.fields)
		}

		header := make([]string, 0, 3+len(w.fields))
		header = append(header, w.opts.IDColumn, w.opts.TextColumn)
		header = append(header, w.fields...)
		header = append(header, w.opts.EmbeddingColumn)

		if err := w.csv.Write(header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	w.row++

	for name := range rec.Fields {
		if !slices.Contains(w.fields, name) {
			return &RowError{
				Row: w.row,
				Err: fmt.Errorf("field %q is not in the header", name),
			}
		}
	}

	embedding, err := gojson.Marshal(rec.Vector)
	if err != nil {
		return &RowError{Row: w.row, Err: err}
	}

	row := make([]string, 0, 3+len(w.fields))
	row = append(row, rec.ID, rec.Text)
	for _, name := range w.fields {
		row = append(row, rec.Fields[name])
	}
	row = append(row, string(embedding))

	if err := w.csv.Write(row); err != nil {
		return &RowError{Row: w.row, Err: err}
	}

	return nil
}

// WriteAll writes all records and flushes.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
