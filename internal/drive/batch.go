package drive

import (
	"context"
	"sync"
)

// DefaultBatchConcurrency bounds parallel batch workers. Kept small to
// respect Drive's per-user rate limits.
const DefaultBatchConcurrency = 5

// Item is one unit of work in a batch: an input value plus the
// correlation key its result is reported under.
type Item struct {
	// Key correlates the item with its entry in the result map;
	// defaults to Input when empty
	Key string

	// Input is the file ID, path or local source the worker operates on
	Input string
}

// Items builds a batch from plain inputs, using each input as its own
// correlation key.
func Items(inputs []string) []Item {
	items := make([]Item, len(inputs))
	for i, in := range inputs {
		items[i] = Item{Key: in, Input: in}
	}
	return items
}

// Result is the outcome of one batch item: a value or a captured
// failure, never both.
type Result[R any] struct {
	Value R
	Err   error
}

// OK reports whether the item succeeded.
func (r Result[R]) OK() bool { return r.Err == nil }

// Coordinator fans a homogeneous operation out over a set of items
// with bounded concurrency, isolating per-item failures. Every worker
// invocation runs through Retry, so each item carries its own
// independent retry budget.
type Coordinator struct {
	// Concurrency bounds parallel workers; DefaultBatchConcurrency
	// when zero or negative
	Concurrency int

	// Retry wraps each item's worker; a default Retryer when nil
	Retry *Retryer
}

// NewCoordinator returns a Coordinator with the default concurrency
// and retry policy.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		Concurrency: DefaultBatchConcurrency,
		Retry:       NewRetryer(),
	}
}

// Run dispatches worker over every item and blocks until all have
// completed, successfully or not. The returned map holds exactly one
// entry per distinct correlation key; one item's failure never cancels
// or blocks its siblings. Items sharing a key overwrite each other,
// so callers wanting distinct entries supply distinct keys.
//
// Iteration order of the map is unspecified.
func Run[R any](ctx context.Context, c *Coordinator, items []Item, worker func(ctx context.Context, item Item) (R, error)) map[string]Result[R] {
	retry := c.Retry
	if retry == nil {
		retry = NewRetryer()
	}
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	// Workers write disjoint slice slots, so collection needs no lock.
	outcomes := make([]Result[R], len(items))

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			item := items[i]
			value, err := Retry(ctx, retry, func() (R, error) {
				return worker(ctx, item)
			})
			outcomes[i] = Result[R]{Value: value, Err: err}
		}(i)
	}
	wg.Wait()

	results := make(map[string]Result[R], len(items))
	for i, item := range items {
		key := item.Key
		if key == "" {
			key = item.Input
		}
		results[key] = outcomes[i]
	}
	return results
}
