// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/httputil"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// Request is the body posted to the submission service.
type Request struct {
	AssignmentCode  string `json:"assignmentCode"`
	Content         string `json:"content"`
	FileName        string `json:"fileName"`
	StudentID       string `json:"studentId"`
	AIPercentage    int    `json:"aiPercentage"`
	WriterSessionID string `json:"writerSessionId"`
}

// Response is the service's answer. Error is set instead of the other
// fields when the submission was refused.
type Response struct {
	SubmissionID    string `json:"submissionId"`
	SubmittedAt     string `json:"submittedAt"`
	WordCount       int    `json:"wordCount"`
	AssignmentTitle string `json:"assignmentTitle"`
	Error           string `json:"error,omitempty"`
}

// Submitter sends a finished draft.
type Submitter interface {
	Submit(ctx context.Context, req Request) (*Response, error)
}

// Client posts submissions over HTTP. It never retries.
type Client struct {
	http   httputil.Doer
	cfg    types.SubmissionConfig
	logger *zap.Logger
}

// NewClient returns a Client for cfg.Endpoint. A nil client uses one with
// cfg.Timeout.
func NewClient(cfg types.SubmissionConfig, client *http.Client, logger *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: client, cfg: cfg, logger: logging.OrNop(logger)}
}

// Submit posts req once. Transport failures wrap ErrSubmissionTransport; a
// service error message wraps ErrSubmissionRejected.
func (c *Client) Submit(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrSubmissionTransport)
	}
	headers := map[string]string{}
	if c.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + c.cfg.Token
	}

	var resp Response
	err := httputil.PostJSON(ctx, c.http, httputil.Request{
		URL:       c.cfg.Endpoint,
		UserAgent: c.cfg.UserAgent,
		Headers:   headers,
	}, req, &resp, c.logger)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			var body Response
			if json.Unmarshal(se.Body, &body) == nil && body.Error != "" {
				return nil, fmt.Errorf("%w: %s", ErrSubmissionRejected, body.Error)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrSubmissionTransport, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionRejected, resp.Error)
	}
	return &resp, nil
}
