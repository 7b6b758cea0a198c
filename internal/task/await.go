// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/ocean-bridge/internal/httputil"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// Result is the raw annealing payload fetched for a completed task.
// Solutions, Values, and SolutionCounts are parallel slices; counts may
// be absent when the service reports raw per-shot records.
type Result struct {
	ProblemType        types.ProblemType `json:"problemType"`
	Solutions          [][]int           `json:"solutions"`
	Values             []float64         `json:"values"`
	SolutionCounts     []int             `json:"solutionCounts"`
	VariableCount      int               `json:"variableCount"`
	ActiveVariables    []int             `json:"activeVariables"`
	TaskMetadata       map[string]any    `json:"taskMetadata"`
	AdditionalMetadata map[string]any    `json:"additionalMetadata"`
}

// Await polls the task at cfg.Interval until it reaches a terminal state
// and, on COMPLETED, fetches and returns the raw result. FAILED and
// CANCELLED surface as *FailedError and *CancelledError. Transient
// transport failures during a poll are retried with exponential backoff
// up to cfg.MaxRetries before the wait aborts. Cancelling ctx stops the
// local wait promptly; the remote task keeps running unless Cancel is
// called. cfg.MaxWait, when non-zero, bounds the whole wait.
func (t *Task) Await(ctx context.Context, cfg types.PollConfig) (*Result, error) {
	cfg = cfg.WithDefaults()
	if cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxWait)
		defer cancel()
	}

	poll := func(req *http.Request) (*http.Response, error) {
		return httputil.DoWithRetry(ctx, t.client.HTTP, req, cfg.MaxRetries, cfg.RetryBaseDelay)
	}

	var last State
	for {
		body, err := t.fetch(ctx, "", poll)
		if err != nil {
			return nil, fmt.Errorf("awaiting task %s: %w", t.ID, err)
		}
		t.observe(body)

		if body.State != last {
			t.client.Logger.Info().Str("task", t.ID).Str("state", string(body.State)).Msg("task state")
			last = body.State
		}

		switch body.State {
		case StateCompleted:
			return t.Result(ctx)
		case StateFailed:
			return nil, &FailedError{TaskID: t.ID, Reason: body.FailureReason}
		case StateCancelled:
			return nil, &CancelledError{TaskID: t.ID}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("awaiting task %s: %w", t.ID, ctx.Err())
		case <-time.After(cfg.Interval):
		}
	}
}

// Result fetches the raw payload of a completed task.
func (t *Task) Result(ctx context.Context) (*Result, error) {
	reqURL := fmt.Sprintf("%s/tasks/%s/result", t.client.BaseURL, t.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	t.client.setHeaders(req)

	resp, err := t.client.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching result for task %s: %w", t.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("result for task %s returned HTTP %d", t.ID, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing result for task %s: %w", t.ID, err)
	}
	return &result, nil
}
