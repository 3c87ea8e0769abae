package agent

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/trendscout/internal/model"
)

// scrapeAll executes the plan's tasks concurrently and merges their
// items. A failing task contributes one entry to the errors list and
// never aborts its siblings.
func (a *Agent) scrapeAll(ctx context.Context, plan []model.ScrapeTask) ([]model.ContentItem, []string) {
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	var mu sync.Mutex
	var items []model.ContentItem
	var errs []string

	for _, task := range plan {
		task := task
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = append(errs, fmt.Sprintf("%s: panic: %v", task.Source, r))
					mu.Unlock()
				}
			}()

			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", task.Source, err))
				mu.Unlock()
				return nil
			}

			got := a.sources.Lookup(task.Source).Scrape(ctx, task.URL, task.Keywords, task.TimeWindow)

			mu.Lock()
			items = append(items, got...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck // tasks isolate their own failures

	zap.L().Info("agent: scrape complete",
		zap.Int("tasks", len(plan)),
		zap.Int("items", len(items)),
		zap.Int("errors", len(errs)),
	)
	return items, errs
}
