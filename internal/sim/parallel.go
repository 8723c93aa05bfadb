package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/solitons/internal/config"
)

// Sweep runs independent configurations on up to workers goroutines.
// Results keep the order of cfgs. A failing run cancels the others and its
// error is returned in preference to the resulting cancellations.
func (s *Simulator) Sweep(ctx context.Context, cfgs []*config.Config, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// observers are not shared across goroutines
			run := New(s.logger.With("run", idx))
			results[idx], errs[idx] = run.Run(ctx, cfg)
			if errs[idx] != nil {
				cancel()
			}
		}(i, cfg)
	}

	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return results, nil
}
