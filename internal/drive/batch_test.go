package drive

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsUsesInputAsKey(t *testing.T) {
	items := Items([]string{"a", "b"})
	require.Len(t, items, 2)
	assert.Equal(t, Item{Key: "a", Input: "a"}, items[0])
	assert.Equal(t, Item{Key: "b", Input: "b"}, items[1])
}

func TestRunAllSucceed(t *testing.T) {
	c := &Coordinator{Concurrency: 3, Retry: noSleepRetryer(0)}

	results := Run(context.Background(), c, Items([]string{"a", "b", "c", "d", "e"}),
		func(ctx context.Context, item Item) (string, error) {
			return "done-" + item.Input, nil
		})

	require.Len(t, results, 5)
	for key, res := range results {
		assert.True(t, res.OK(), "item %s", key)
		assert.Equal(t, "done-"+key, res.Value)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	for _, concurrency := range []int{1, 2, 10} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			c := &Coordinator{Concurrency: concurrency, Retry: noSleepRetryer(0)}

			results := Run(context.Background(), c, Items([]string{"1", "2", "3", "4", "5"}),
				func(ctx context.Context, item Item) (bool, error) {
					if item.Input == "3" {
						return false, transientErr(403)
					}
					return true, nil
				})

			require.Len(t, results, 5)
			failed := 0
			for key, res := range results {
				if res.Err != nil {
					failed++
					assert.Equal(t, "3", key)
				} else {
					assert.True(t, res.Value)
				}
			}
			assert.Equal(t, 1, failed)
		})
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	c := &Coordinator{Concurrency: 2, Retry: noSleepRetryer(0)}

	var current, peak atomic.Int32
	results := Run(context.Background(), c, Items([]string{"a", "b", "c", "d", "e", "f"}),
		func(ctx context.Context, item Item) (struct{}, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			return struct{}{}, nil
		})

	require.Len(t, results, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunPerItemRetryBudget(t *testing.T) {
	c := &Coordinator{Concurrency: 4, Retry: noSleepRetryer(2)}

	var mu sync.Mutex
	attempts := map[string]int{}

	results := Run(context.Background(), c, Items([]string{"a", "b", "c"}),
		func(ctx context.Context, item Item) (bool, error) {
			mu.Lock()
			attempts[item.Input]++
			n := attempts[item.Input]
			mu.Unlock()
			// Every item fails transiently once, then succeeds.
			if n == 1 {
				return false, transientErr(503)
			}
			return true, nil
		})

	require.Len(t, results, 3)
	for key, res := range results {
		require.NoError(t, res.Err, "item %s", key)
		assert.Equal(t, 2, attempts[key], "item %s gets its own retry budget", key)
	}
}

func TestRunExhaustedItemReportsAttempts(t *testing.T) {
	c := &Coordinator{Concurrency: 1, Retry: noSleepRetryer(1)}

	results := Run(context.Background(), c, Items([]string{"x"}),
		func(ctx context.Context, item Item) (bool, error) {
			return false, transientErr(503)
		})

	res := results["x"]
	require.Error(t, res.Err)
	var ree *RetryExhaustedError
	require.ErrorAs(t, res.Err, &ree)
	assert.Equal(t, 2, ree.Attempts)
}

func TestRunExplicitKeys(t *testing.T) {
	c := &Coordinator{Concurrency: 2, Retry: noSleepRetryer(0)}

	items := []Item{
		{Key: "first", Input: "/tmp/a"},
		{Key: "second", Input: "/tmp/b"},
	}
	results := Run(context.Background(), c, items,
		func(ctx context.Context, item Item) (string, error) {
			return item.Input, nil
		})

	require.Len(t, results, 2)
	assert.Equal(t, "/tmp/a", results["first"].Value)
	assert.Equal(t, "/tmp/b", results["second"].Value)
}

func TestRunDuplicateKeysCollapse(t *testing.T) {
	c := &Coordinator{Concurrency: 1, Retry: noSleepRetryer(0)}

	results := Run(context.Background(), c, Items([]string{"a", "a"}),
		func(ctx context.Context, item Item) (bool, error) {
			return true, nil
		})

	assert.Len(t, results, 1, "items sharing a correlation key overwrite each other")
}

func TestRunEmptyBatch(t *testing.T) {
	c := NewCoordinator()
	results := Run(context.Background(), c, nil,
		func(ctx context.Context, item Item) (bool, error) {
			t.Fatal("worker must not run for an empty batch")
			return false, nil
		})
	assert.Empty(t, results)
}

func TestBatchDeletePartialFailure(t *testing.T) {
	gw := newFakeGateway()
	ids := map[string]string{
		"a": gw.addFile("root", "a", "text/plain"),
		"b": gw.addFile("root", "b", "text/plain"),
		"c": gw.addFile("root", "c", "text/plain"),
	}
	gw.deleteErr = func(fileID string) error {
		if fileID == ids["b"] {
			return transientErr(403)
		}
		return nil
	}

	retry := noSleepRetryer(2)
	client := &Client{
		gateway: gw,
		retry:   retry,
		batch:   &Coordinator{Concurrency: 3, Retry: retry},
	}

	results := client.BatchDelete(context.Background(), []string{ids["a"], ids["b"], ids["c"]})
	require.Len(t, results, 3)
	assert.True(t, results[ids["a"]].Value)
	assert.True(t, results[ids["c"]].Value)
	require.Error(t, results[ids["b"]].Err)
	assert.False(t, results[ids["b"]].Value)

	_, _, deletes := gw.counts()
	assert.Equal(t, 3, deletes, "a permanent per-item failure is not retried")
}
