// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package task submits annealing problems to the remote service as
// asynchronous tasks and polls them to a terminal state.
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// State is a task lifecycle state. The remote service moves a task
// through CREATED → QUEUED → RUNNING and then exactly one of COMPLETED,
// FAILED, or CANCELLED. Terminal states never transition again.
type State string

const (
	StateCreated   State = "CREATED"
	StateQueued    State = "QUEUED"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
	StateCancelled State = "CANCELLED"
)

// Terminal reports whether the state ends the wait loop.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Client talks to the service's task endpoints.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Token     string
	UserAgent string

	// Logger records task state transitions while polling.
	// Defaults to a no-op logger.
	Logger zerolog.Logger
}

// CreateRequest describes one task submission. The problem must already
// be validated against the device topology and the parameters already
// translated to the service vocabulary.
type CreateRequest struct {
	DeviceID         string
	Problem          types.Problem
	DeviceParameters map[string]any
	Shots            int
	Destination      types.S3Destination
}

// wireProblem is the JSON shape the service expects: linear biases keyed
// by variable, quadratic biases keyed "u,v".
type wireProblem struct {
	Type      types.ProblemType  `json:"type"`
	Linear    map[string]float64 `json:"linear"`
	Quadratic map[string]float64 `json:"quadratic"`
	Offset    float64            `json:"offset,omitempty"`
}

func toWireProblem(p types.Problem) wireProblem {
	w := wireProblem{
		Type:      p.Type,
		Linear:    make(map[string]float64, len(p.Linear)),
		Quadratic: make(map[string]float64, len(p.Quadratic)),
		Offset:    p.Offset,
	}
	for v, bias := range p.Linear {
		w.Linear[strconv.Itoa(v)] = bias
	}
	for e, bias := range p.Quadratic {
		w.Quadratic[fmt.Sprintf("%d,%d", e.U, e.V)] = bias
	}
	return w
}

type createBody struct {
	ClientToken       string         `json:"clientToken"`
	DeviceID          string         `json:"deviceId"`
	Problem           wireProblem    `json:"problem"`
	DeviceParameters  map[string]any `json:"deviceParameters,omitempty"`
	Shots             int            `json:"shots,omitempty"`
	OutputS3Bucket    string         `json:"outputS3Bucket,omitempty"`
	OutputS3KeyPrefix string         `json:"outputS3KeyPrefix,omitempty"`
}

type taskBody struct {
	ID            string `json:"id"`
	State         State  `json:"state"`
	FailureReason string `json:"failureReason,omitempty"`
}

// Create submits the problem as a new remote task and returns the task
// handle without waiting. A rejected submission (bad request, bad
// credentials, device unavailable) is fatal and surfaced immediately as
// a *SubmissionError; submissions are never retried.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	body := createBody{
		ClientToken:       uuid.NewString(),
		DeviceID:          req.DeviceID,
		Problem:           toWireProblem(req.Problem),
		DeviceParameters:  req.DeviceParameters,
		Shots:             req.Shots,
		OutputS3Bucket:    req.Destination.Bucket,
		OutputS3KeyPrefix: req.Destination.KeyPrefix,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding task request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tasks", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("task submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, newSubmissionError(resp)
	}

	var created taskBody
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("parsing task creation response: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("task creation response carries no task id")
	}

	c.Logger.Info().Str("task", created.ID).Str("device", req.DeviceID).Msg("task created")
	return &Task{ID: created.ID, client: c}, nil
}

// Handle returns a task handle for an already-submitted task, for
// resuming a wait started in an earlier process.
func (c *Client) Handle(taskID string) *Task {
	return &Task{ID: taskID, client: c}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

// SubmissionError reports a task creation refused by the remote service.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("task submission rejected (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("task submission rejected (HTTP %d)", e.StatusCode)
}

func newSubmissionError(resp *http.Response) *SubmissionError {
	serr := &SubmissionError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(raw, &body) == nil {
		serr.Message = body.Message
	}
	return serr
}

// FailedError reports a task that reached the FAILED terminal state.
// Distinct from transport errors: the submission and polling succeeded,
// the task itself did not.
type FailedError struct {
	TaskID string
	Reason string
}

func (e *FailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Reason)
	}
	return fmt.Sprintf("task %s failed", e.TaskID)
}

// CancelledError reports a task that reached the CANCELLED terminal state.
type CancelledError struct {
	TaskID string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("task %s was cancelled", e.TaskID)
}

// Task is the handle for one submitted remote task. Owned by a single
// sampling call for its duration; safe for concurrent use anyway since
// independent calls may poll their own tasks in parallel.
type Task struct {
	ID string

	client *Client

	mu       sync.Mutex
	terminal State
	reason   string
}

// State polls the task's current lifecycle state. Once a terminal state
// has been observed it is returned from memory: terminal states are
// immutable, so repeated polling is side-effect free.
func (t *Task) State(ctx context.Context) (State, error) {
	t.mu.Lock()
	if t.terminal.Terminal() {
		st := t.terminal
		t.mu.Unlock()
		return st, nil
	}
	t.mu.Unlock()

	body, err := t.fetch(ctx, "", t.client.HTTP.Do)
	if err != nil {
		return "", err
	}
	t.observe(body)
	return body.State, nil
}

func (t *Task) observe(body taskBody) {
	if !body.State.Terminal() {
		return
	}
	t.mu.Lock()
	t.terminal = body.State
	t.reason = body.FailureReason
	t.mu.Unlock()
}

// fetch GETs the task resource (or a sub-resource) and decodes it.
func (t *Task) fetch(ctx context.Context, suffix string, do func(*http.Request) (*http.Response, error)) (taskBody, error) {
	reqURL := fmt.Sprintf("%s/tasks/%s%s", t.client.BaseURL, t.ID, suffix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return taskBody{}, fmt.Errorf("creating request: %w", err)
	}
	t.client.setHeaders(req)

	resp, err := do(req)
	if err != nil {
		return taskBody{}, fmt.Errorf("task %s status: %w", t.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return taskBody{}, fmt.Errorf("task %s status returned HTTP %d", t.ID, resp.StatusCode)
	}

	var body taskBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return taskBody{}, fmt.Errorf("parsing task %s status: %w", t.ID, err)
	}
	return body, nil
}

// Cancel asks the remote service to cancel the task. Cancelling the
// local wait alone never stops the remote task; this is the explicit
// request that does.
func (t *Task) Cancel(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/tasks/%s/cancel", t.client.BaseURL, t.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	t.client.setHeaders(req)

	resp, err := t.client.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("cancelling task %s: %w", t.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("cancelling task %s returned HTTP %d", t.ID, resp.StatusCode)
	}
	t.client.Logger.Info().Str("task", t.ID).Msg("cancel requested")
	return nil
}
