// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assignment

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

// Checker validates a single code against the assignment service.
type Checker interface {
	Check(ctx context.Context, code string) (*CheckResult, error)
}

// CheckResult is the service's answer for one code.
type CheckResult struct {
	Valid      bool                  `json:"valid"`
	Error      string                `json:"error,omitempty"`
	Assignment *types.AssignmentInfo `json:"assignment,omitempty"`
}

type checkRequest struct {
	AssignmentCode string `json:"assignmentCode"`
}

// Client calls the assignment validation endpoint.
type Client struct {
	http   httputil.Doer
	cfg    types.AssignmentConfig
	logger *zap.Logger
}

// NewClient returns a Client for cfg.Endpoint. A nil client uses one with
// cfg.Timeout.
func NewClient(cfg types.AssignmentConfig, client *http.Client, logger *zap.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: client, cfg: cfg, logger: logging.OrNop(logger)}
}

// Check posts the code. A 4xx answer carrying a JSON body is decoded like
// a 2xx one so the service's error message reaches the user.
func (c *Client) Check(ctx context.Context, code string) (*CheckResult, error) {
	if c.cfg.Endpoint == "" {
		return nil, errors.New("no validation endpoint configured")
	}

	var res CheckResult
	err := httputil.PostJSON(ctx, c.http, httputil.Request{
		URL:        c.cfg.Endpoint,
		UserAgent:  c.cfg.UserAgent,
		MaxRetries: c.cfg.MaxRetries,
	}, checkRequest{AssignmentCode: code}, &res, c.logger)

	var se *httputil.StatusError
	if errors.As(err, &se) && se.StatusCode < 500 {
		if jerr := json.Unmarshal(se.Body, &res); jerr == nil && res.Error != "" {
			res.Valid = false
			return &res, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("validating code: %w", err)
	}
	return &res, nil
}
