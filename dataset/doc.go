// Package dataset reads and writes embedding datasets in their common CSV
// interchange form: an id column, free text columns, and an embedding
// column holding a JSON array of numbers.
//
//	id,text,category,embedding
//	r1,"great product",reviews,"[0.12,-0.03,0.98]"
//	r2,"arrived broken",reviews,"[-0.40,0.22,0.11]"
//
// Column names are configurable. Every column that is not the id, text, or
// embedding column is preserved verbatim in Record.Fields.
//
// # Usage
//
//	f, _ := os.Open("reviews.csv")
//	defer f.Close()
//
//	c, err := dataset.LoadCollection(ctx, f)
//	if err != nil {
//		return err
//	}
//	matches, err := c.Rank(ctx, queryEmbedding)
package dataset
