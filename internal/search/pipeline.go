package search

import (
	"context"
	"runtime"
	"sync"

	"github.com/kwslab/kwspot/pkg/models"
)

// SearchAll runs every query against the matcher using a fixed pool of
// workers. Queries are independent, so they fan out freely; results land in
// per-query slots and are concatenated in query order, which keeps the output
// deterministic regardless of worker count. Within a query, hits keep the
// matcher's ascending start order.
func SearchAll(ctx context.Context, workers int, m *Matcher, queries []models.QueryPhrase) ([]models.Hit, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(queries) && len(queries) > 0 {
		workers = len(queries)
	}

	jobs := make(chan int, workers*2)
	perQuery := make([][]models.Hit, len(queries))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case qi, ok := <-jobs:
					if !ok {
						return
					}
					perQuery[qi] = m.Search(queries[qi])
				}
			}
		}()
	}

feed:
	for qi := range queries {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- qi:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Hit
	for _, hits := range perQuery {
		out = append(out, hits...)
	}
	return out, nil
}
