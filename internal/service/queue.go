package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrEntryNotFound means the entry is not in the provider's queue.
var ErrEntryNotFound = errors.New("queue entry not found")

// ErrIllegalTransition means the requested lifecycle step is not legal from
// the entry's current status. The queue only ever moves forward.
var ErrIllegalTransition = errors.New("illegal queue transition")

// queueAPI is the slice of the consultation backend the queue consumes.
type queueAPI interface {
	PatientQueue(ctx context.Context, providerID string) ([]model.QueueEntry, error)
}

// QueueService tracks consultation lifecycles for a provider's patient
// queue. The backend owns the entry list; local transitions are overlaid on
// it until the backend reflects them.
type QueueService struct {
	consultations queueAPI
	logger        *zap.Logger

	mu          sync.RWMutex
	transitions map[string]map[string]model.QueueStatus // providerID → entryID → status
}

// NewQueueService creates a new QueueService.
func NewQueueService(consultations queueAPI, logger *zap.Logger) *QueueService {
	return &QueueService{
		consultations: consultations,
		logger:        logger,
		transitions:   make(map[string]map[string]model.QueueStatus),
	}
}

// Load fetches the provider's queue with local transitions applied. An empty
// provider identifier is a hard authentication error, never a silent empty
// queue.
func (s *QueueService) Load(ctx context.Context, providerID string) ([]model.QueueEntry, error) {
	if providerID == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	entries, err := s.consultations.PatientQueue(ctx, providerID)
	if err != nil {
		s.logger.Error("failed to load patient queue",
			zap.Error(err),
			zap.String("provider_id", providerID),
		)
		return nil, err
	}

	s.mu.RLock()
	overlay := s.transitions[providerID]
	for i := range entries {
		if status, ok := overlay[entries[i].ID]; ok {
			entries[i].Status = status
		}
	}
	s.mu.RUnlock()

	return entries, nil
}

// Start moves a waiting consultation to in-progress. Video and in-person
// consultations differ only in how the UI presents them; the transition is
// the same.
func (s *QueueService) Start(ctx context.Context, providerID, entryID string) (*model.QueueEntry, error) {
	return s.transition(ctx, providerID, entryID, model.QueueWaiting, model.QueueInProgress)
}

// Complete moves an in-progress consultation to completed. Completing from
// any other state is a programming error and fails loudly.
func (s *QueueService) Complete(ctx context.Context, providerID, entryID string) (*model.QueueEntry, error) {
	return s.transition(ctx, providerID, entryID, model.QueueInProgress, model.QueueCompleted)
}

func (s *QueueService) transition(ctx context.Context, providerID, entryID string, from, to model.QueueStatus) (*model.QueueEntry, error) {
	entries, err := s.Load(ctx, providerID)
	if err != nil {
		return nil, err
	}

	var entry *model.QueueEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, entryID)
	}

	if entry.Status != from {
		return nil, fmt.Errorf("%w: entry %q is %s, moving to %s requires %s",
			ErrIllegalTransition, entryID, entry.Status, to, from)
	}

	s.mu.Lock()
	overlay, ok := s.transitions[providerID]
	if !ok {
		overlay = make(map[string]model.QueueStatus)
		s.transitions[providerID] = overlay
	}
	overlay[entryID] = to
	s.mu.Unlock()

	entry.Status = to

	s.logger.Info("queue entry transitioned",
		zap.String("provider_id", providerID),
		zap.String("entry_id", entryID),
		zap.String("status", string(to)),
	)

	return entry, nil
}

// FilterQueue returns the entries with the given status; "all" returns the
// whole queue.
func FilterQueue(entries []model.QueueEntry, status string) []model.QueueEntry {
	if status == "all" || status == "" {
		return entries
	}

	matched := make([]model.QueueEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == model.QueueStatus(status) {
			matched = append(matched, e)
		}
	}
	return matched
}

// SummarizeQueue recomputes the per-status counters from the entry list.
// The counters are never cached separately from the entries.
func SummarizeQueue(entries []model.QueueEntry) model.QueueSummary {
	var summary model.QueueSummary
	for _, e := range entries {
		switch e.Status {
		case model.QueueWaiting:
			summary.Waiting++
		case model.QueueInProgress:
			summary.InProgress++
		case model.QueueCompleted:
			summary.Completed++
		}
	}
	return summary
}
