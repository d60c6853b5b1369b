// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"sync"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// History stores submission records. Records are append-only.
type History interface {
	Append(ctx context.Context, rec types.SubmissionRecord) error

	// List returns the records for a writer session, oldest first. An
	// empty sessionID lists every session.
	List(ctx context.Context, sessionID string) ([]types.SubmissionRecord, error)
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	mu      sync.Mutex
	records []types.SubmissionRecord
}

// NewMemoryHistory returns an empty MemoryHistory.
func NewMemoryHistory() *MemoryHistory { return &MemoryHistory{} }

func (h *MemoryHistory) Append(_ context.Context, rec types.SubmissionRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *MemoryHistory) List(_ context.Context, sessionID string) ([]types.SubmissionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []types.SubmissionRecord
	for _, r := range h.records {
		if sessionID == "" || r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}
