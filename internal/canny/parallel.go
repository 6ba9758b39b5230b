package canny

import "golang.org/x/sync/errgroup"

// forEachRow calls fn once for every row in [0, height). Rows are split into
// contiguous bands run by at most workers goroutines; forEachRow returns when
// every band is finished. fn must only write output belonging to its row.
func forEachRow(height, workers int, fn func(y int)) {
	if workers <= 1 || height < 2 {
		for y := 0; y < height; y++ {
			fn(y)
		}
		return
	}

	band := (height + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < height; start += band {
		end := min(start+band, height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				fn(y)
			}
			return nil
		})
	}
	_ = g.Wait()
}
