// Package searchproc runs the external semantic search script.
package searchproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

// Timeout is the hard ceiling for one search run; the process is killed after it.
const Timeout = 120 * time.Second

type Reason string

const (
	ReasonSpawn    Reason = "spawn"
	ReasonExit     Reason = "exit"
	ReasonTimeout  Reason = "timeout"
	ReasonCanceled Reason = "canceled"
)

// Error describes why a run produced no usable stdout.
type Error struct {
	Reason   Reason
	ExitCode int
	Stderr   string // last few KB only
	Err      error
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonExit:
		return fmt.Sprintf("search process exited with %d: %s", e.ExitCode, e.Stderr)
	default:
		return fmt.Sprintf("search process %s: %v", e.Reason, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// FailureReason reports the failure class as a short label for logs and metrics.
func (e *Error) FailureReason() string { return string(e.Reason) }

type Options struct {
	Python       string
	Script       string
	MaxProcs     int
	Timeout      time.Duration // defaults to Timeout
	EmbedTimeout time.Duration
}

type Runner struct {
	python       string
	script       string
	timeout      time.Duration
	embedTimeout time.Duration
	sem          *semaphore.Weighted
}

func New(o Options) *Runner {
	if o.MaxProcs <= 0 {
		o.MaxProcs = 4
	}
	if o.Timeout <= 0 {
		o.Timeout = Timeout
	}
	if o.EmbedTimeout <= 0 {
		o.EmbedTimeout = 10 * time.Minute
	}
	return &Runner{
		python:       o.Python,
		script:       o.Script,
		timeout:      o.Timeout,
		embedTimeout: o.EmbedTimeout,
		sem:          semaphore.NewWeighted(int64(o.MaxProcs)),
	}
}

func (r *Runner) Search(ctx context.Context, q domain.SearchQuery) ([]byte, error) {
	return r.run(ctx, "search", r.timeout, SearchArgs(q))
}

// CreateEmbeddings rebuilds the search index. It is an admin action and gets
// its own, longer timeout.
func (r *Runner) CreateEmbeddings(ctx context.Context) ([]byte, error) {
	return r.run(ctx, "create_embeddings", r.embedTimeout, []string{"--create-embeddings"})
}

// SearchArgs renders q as command-line flags for the search script.
func SearchArgs(q domain.SearchQuery) []string {
	args := []string{"--query", q.Query, "--top-k", strconv.Itoa(q.TopK)}
	num := func(flag string, v *float64) {
		if v != nil {
			args = append(args, flag, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	num("--min-price", q.MinPrice)
	num("--max-price", q.MaxPrice)
	num("--min-star", q.MinStar)
	if d := strings.TrimSpace(q.District); d != "" {
		args = append(args, "--district", d)
	}
	return args
}

func (r *Runner) run(ctx context.Context, endpoint string, timeout time.Duration, args []string) ([]byte, error) {
	// the ceiling covers the wait for a slot as well as the run itself
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// bound the number of interpreters alive at once
	if err := r.sem.Acquire(runCtx, 1); err != nil {
		reason := ReasonCanceled
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			reason = ReasonTimeout
		}
		observability.ObserveExternal("search_process", endpoint, -1, timeout)
		log.Warn().
			Str("component", "searchproc").
			Str("endpoint", endpoint).
			Str("reason", string(reason)).
			Msg("no free search slot before the deadline")
		return nil, &Error{Reason: reason, ExitCode: -1, Err: err}
	}
	defer r.sem.Release(1)

	argv := args
	if r.script != "" {
		argv = append([]string{r.script}, args...)
	}
	cmd := exec.CommandContext(runCtx, r.python, argv...)
	// children that inherited stdout must not hold Wait open after the kill
	cmd.WaitDelay = 2 * time.Second

	var stdout bytes.Buffer
	stderr := &tailBuffer{max: 4096}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	took := time.Since(start)

	code := -1
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	observability.ObserveExternal("search_process", endpoint, code, took)

	if err != nil {
		perr := &Error{ExitCode: code, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			perr.Reason = ReasonTimeout
		case ctx.Err() != nil:
			perr.Reason = ReasonCanceled
		case errors.As(err, &exitErr):
			perr.Reason = ReasonExit
		default:
			perr.Reason = ReasonSpawn
		}
		log.Warn().
			Str("component", "searchproc").
			Str("endpoint", endpoint).
			Str("reason", string(perr.Reason)).
			Int("exit_code", code).
			Dur("took", took).
			Str("stderr", perr.Stderr).
			Msg("search process failed")
		return nil, perr
	}

	log.Debug().
		Str("component", "searchproc").
		Str("endpoint", endpoint).
		Int("stdout_bytes", stdout.Len()).
		Dur("took", took).
		Msg("search process finished")
	return stdout.Bytes(), nil
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
