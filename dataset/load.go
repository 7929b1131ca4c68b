package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	documentai "github.com/manish-aj/DocumentAI"
)

// ErrEmptyDataset is returned when a dataset holds no records.
var ErrEmptyDataset = errors.New("empty dataset")

// LoadOptions contains options for LoadCollection.
type LoadOptions struct {
	ReaderOptions

	// Collection options are forwarded to NewCollection.
	Collection []documentai.Option
}

// LoadCollection reads an embedding dataset and loads it into a new
// Collection keyed by record ID, with the full Record as payload. The
// collection dimension comes from the first record's vector.
//
// Rows that cannot be added (duplicate IDs, dimension drift) fail the load
// with a *RowError.
func LoadCollection(ctx context.Context, r io.Reader, optFns ...func(o *LoadOptions)) (*documentai.Collection[string, Record], error) {
	opts := LoadOptions{
		ReaderOptions: ReaderOptions{
			IDColumn:        DefaultIDColumn,
			TextColumn:      DefaultTextColumn,
			EmbeddingColumn: DefaultEmbeddingColumn,
		},
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	opts.ReaderOptions.fillDefaults()

	dr, err := NewReader(r, func(o *ReaderOptions) {
		*o = opts.ReaderOptions
	})
	if err != nil {
		return nil, err
	}

	var c *documentai.Collection[string, Record]
	row := 0
	for {
		rec, err := dr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++

		if c == nil {
			c, err = documentai.NewCollection[string, Record](len(rec.Vector), opts.Collection...)
			if err != nil {
				return nil, &RowError{Row: row, Err: err}
			}
		}

		if err := c.Add(ctx, rec.ID, rec.Vector, rec); err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
	}

	if c == nil {
		return nil, ErrEmptyDataset
	}

	return c, nil
}

// LoadCollectionFromFile opens path and loads it with LoadCollection.
func LoadCollectionFromFile(ctx context.Context, path string, optFns ...func(o *LoadOptions)) (*documentai.Collection[string, Record], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return LoadCollection(ctx, f, optFns...)
}
