package convert

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/pagescrub/core"
)

// Batch converts rows concurrently with at most workers conversions in
// flight (workers < 1 means one). Results are returned in input order. A row
// that fails, including by panicking, only sets its own Result.Err.
//
// Cancelling ctx stops new rows from starting; rows never started carry
// ctx.Err() in their Result and Batch returns ctx.Err().
func (c *Converter) Batch(ctx context.Context, rows []core.Row, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(rows))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := range rows {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(rows); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i] = c.convertSafe(rows[i])
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func (c *Converter) convertSafe(row core.Row) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("converting row %s: panic: %v", row.ID, r)}
		}
	}()
	return c.Convert(row.Content)
}
