package yearbookclient

import (
	"context"
	"sync"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/roster"
)

type bulkCreator interface {
	BulkCreateStudents(ctx context.Context, batch roster.Batch) (*dto.BulkUploadResult, error)
}

// Submitter allows at most one bulk upload at a time. Once sent, a submission runs to
// completion even if the caller's context is cancelled.
type Submitter struct {
	client bulkCreator

	mu      sync.Mutex
	pending bool
}

// NewSubmitter wraps client.
func NewSubmitter(client bulkCreator) *Submitter {
	return &Submitter{client: client}
}

// Pending reports whether a submission is in progress.
func (s *Submitter) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Submit sends batch, or returns ErrSubmissionInFlight while another call is pending.
func (s *Submitter) Submit(ctx context.Context, batch roster.Batch) (*dto.BulkUploadResult, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.pending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
	}()

	return s.client.BulkCreateStudents(context.WithoutCancel(ctx), batch)
}
