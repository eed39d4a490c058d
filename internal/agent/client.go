// Package agent is the technician-side sync client: it holds the local
// job list behind the optimistic coordinator, records location events
// through the durable queue, and talks to the fieldsync API.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/offline"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// APIError is a non-2xx response from the server, decoded from the
// standard response envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client is an authenticated HTTP client for the fieldsync API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return nil
}

// FetchJobs retrieves the technician's current assignment list; the
// server is authoritative and the result feeds Coordinator.Refresh.
func (c *Client) FetchJobs(ctx context.Context) ([]job.JobResponse, error) {
	var jobs []job.JobResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs?limit=100", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJob sends a sparse field patch for one job. Satisfies
// offline.RemoteUpdateFunc.
func (c *Client) UpdateJob(ctx context.Context, id string, fields offline.Fields) error {
	req := job.UpdateJobRequest{Fields: fields}
	return c.do(ctx, http.MethodPatch, "/api/v1/jobs/"+id, req, nil)
}

// DeliverLocationEntry pushes one queued location event. Satisfies
// offline.DeliverFunc. A duplicate delivery succeeds: the server
// collapses it into the stored record.
func (c *Client) DeliverLocationEntry(ctx context.Context, entryID, jobID string, event offline.EventKind, loc geo.Fix) error {
	req := checkin.SubmitRequest{
		EntryID:  entryID,
		JobID:    jobID,
		Event:    string(event),
		Location: loc,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/check-ins", req, nil)
}
