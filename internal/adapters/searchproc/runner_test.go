package searchproc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/adapters/searchproc"
	"hotel_finder/internal/domain"
)

// script writes an executable sh script and returns a runner that invokes it.
func script(t *testing.T, body string, timeout time.Duration) *searchproc.Runner {
	t.Helper()
	return scriptWith(t, body, searchproc.Options{MaxProcs: 2, Timeout: timeout})
}

func scriptWith(t *testing.T, body string, o searchproc.Options) *searchproc.Runner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700))
	o.Python, o.Script = "sh", path
	return searchproc.New(o)
}

func pf(f float64) *float64 { return &f }

func TestSearchArgs(t *testing.T) {
	args := searchproc.SearchArgs(domain.SearchQuery{
		Query: "gần chợ Bến Thành", TopK: 20, MinPrice: pf(500000), MinStar: pf(3.5), District: " Quận 1 ",
	})
	assert.Equal(t, []string{
		"--query", "gần chợ Bến Thành", "--top-k", "20",
		"--min-price", "500000", "--min-star", "3.5", "--district", "Quận 1",
	}, args)
}

func TestRunner_Search_Success(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args.txt")
	r := script(t, `printf '%s\n' "$@" > `+out+`
echo '{"success": true, "hotels": []}'`, 5*time.Second)

	stdout, err := r.Search(context.Background(), domain.SearchQuery{Query: "pool", TopK: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "hotels": []}`, string(stdout))

	seen, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "--query\npool\n--top-k\n3\n", string(seen))
}

func TestRunner_Search_NonZeroExit(t *testing.T) {
	r := script(t, `echo "Traceback: index missing" >&2
exit 3`, 5*time.Second)

	_, err := r.Search(context.Background(), domain.SearchQuery{Query: "x", TopK: 1})
	var perr *searchproc.Error
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, searchproc.ReasonExit, perr.Reason)
	assert.Equal(t, 3, perr.ExitCode)
	assert.True(t, strings.Contains(perr.Stderr, "index missing"))
}

func TestRunner_Search_Timeout(t *testing.T) {
	r := script(t, `exec sleep 5`, 200*time.Millisecond)

	start := time.Now()
	_, err := r.Search(context.Background(), domain.SearchQuery{Query: "x", TopK: 1})
	var perr *searchproc.Error
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, searchproc.ReasonTimeout, perr.Reason)
	assert.Less(t, time.Since(start), 4*time.Second, "process must be killed at the deadline")
}

func TestRunner_Search_SpawnFailure(t *testing.T) {
	r := searchproc.New(searchproc.Options{Python: filepath.Join(t.TempDir(), "no-such-python"), Script: "x.py"})

	_, err := r.Search(context.Background(), domain.SearchQuery{Query: "x", TopK: 1})
	var perr *searchproc.Error
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, searchproc.ReasonSpawn, perr.Reason)
}

func TestRunner_CreateEmbeddings(t *testing.T) {
	r := script(t, `if [ "$1" = "--create-embeddings" ]; then echo '{"success": true, "count": 42}'; else exit 9; fi`, 5*time.Second)

	stdout, err := r.CreateEmbeddings(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "count": 42}`, string(stdout))
}

func TestRunner_Search_QueueWaitCountsTowardTimeout(t *testing.T) {
	r := scriptWith(t, "exec sleep 5", searchproc.Options{MaxProcs: 1, Timeout: 400 * time.Millisecond})

	start := time.Now()
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := r.Search(context.Background(), domain.SearchQuery{Query: "x", TopK: 1})
			errs <- err
		}()
	}
	for i := 0; i < 2; i++ {
		err := <-errs
		var perr *searchproc.Error
		require.True(t, errors.As(err, &perr), "got %v", err)
		assert.Equal(t, searchproc.ReasonTimeout, perr.Reason)
	}
	// the queued call gives up at its own deadline instead of waiting for the slot
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}

func TestRunner_Search_CanceledWhileQueued(t *testing.T) {
	r := scriptWith(t, "exec sleep 5", searchproc.Options{MaxProcs: 1, Timeout: 3 * time.Second})

	busyCtx, stopBusy := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Search(busyCtx, domain.SearchQuery{Query: "busy", TopK: 1})
	}()
	t.Cleanup(func() { stopBusy(); <-done })
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := r.Search(ctx, domain.SearchQuery{Query: "x", TopK: 1})
	var perr *searchproc.Error
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, searchproc.ReasonCanceled, perr.Reason)
}
