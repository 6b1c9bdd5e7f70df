// Package override implements the status-override layer: user-supplied
// corrections to a project's upstream status, plus notes and coordinator
// action items, persisted as one JSON blob in object storage.
package override

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/model"
	"github.com/cfolkers/caribou-portal/internal/repository"
	"github.com/cfolkers/caribou-portal/pkg/metrics"
)

type Service struct {
	repo   *repository.OverrideRepository
	logger *zap.Logger
	now    func() time.Time

	// Serializes read-modify-write cycles on the override blob within this
	// process. Writes across processes remain last-writer-wins.
	mu sync.Mutex
}

func NewService(repo *repository.OverrideRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// All returns the current override map.
func (s *Service) All(ctx context.Context) model.OverrideMap {
	return s.repo.Load(ctx)
}

// Get returns the override entry for projectID, if one exists.
func (s *Service) Get(ctx context.Context, projectID string) (model.StatusOverride, bool) {
	o, ok := s.repo.Load(ctx)[projectID]
	return o, ok
}

// SetStatus records a status correction. originalStatus is the authoritative
// status at override time and is kept for audit and reset display.
func (s *Service) SetStatus(ctx context.Context, projectID, status, updatedBy, originalStatus string) error {
	err := s.mutate(ctx, projectID, func(o *model.StatusOverride) {
		o.Status = status
		o.UpdatedBy = updatedBy
		o.UpdatedAt = model.Timestamp(s.now())
		o.OriginalStatus = originalStatus
	})
	s.recordSave("status", err)
	return err
}

// SetNotes records free-text notes on the project's entry.
func (s *Service) SetNotes(ctx context.Context, projectID, notes, updatedBy string) error {
	err := s.mutate(ctx, projectID, func(o *model.StatusOverride) {
		o.Notes = notes
		o.NotesUpdatedBy = updatedBy
		o.NotesUpdatedAt = model.Timestamp(s.now())
	})
	s.recordSave("notes", err)
	return err
}

// SetActions records coordinator action items on the project's entry.
func (s *Service) SetActions(ctx context.Context, projectID, actions, updatedBy string) error {
	err := s.mutate(ctx, projectID, func(o *model.StatusOverride) {
		o.CoordinatorActions = actions
		o.ActionsUpdatedBy = updatedBy
		o.ActionsUpdatedAt = model.Timestamp(s.now())
	})
	s.recordSave("actions", err)
	return err
}

// Reset removes the entry for projectID, reverting the project to its
// authoritative status. Resetting an absent entry is a no-op.
func (s *Service) Reset(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides := s.repo.Load(ctx)
	if _, ok := overrides[projectID]; !ok {
		return nil
	}
	delete(overrides, projectID)

	err := s.repo.Save(ctx, overrides)
	s.recordSave("reset", err)
	return err
}

func (s *Service) mutate(ctx context.Context, projectID string, apply func(*model.StatusOverride)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read before every write so concurrent edits to other projects in
	// this process are not clobbered.
	overrides := s.repo.Load(ctx)
	entry := overrides[projectID]
	apply(&entry)
	overrides[projectID] = entry

	return s.repo.Save(ctx, overrides)
}

func (s *Service) recordSave(field string, err error) {
	if err != nil {
		s.logger.Error("failed to save status overrides",
			zap.String("field", field), zap.Error(err))
		metrics.RecordOverrideSave(field, "error")
		return
	}
	metrics.RecordOverrideSave(field, "success")
}

const bullet = "•"

// FormatActionsAsBullets renders action text one bullet per line for display.
func FormatActionsAsBullets(actions string) string {
	if actions == "" {
		return ""
	}
	var out []string
	for _, line := range strings.Split(actions, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, bullet) {
			line = bullet + " " + line
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// ParseActionsFromBullets strips bullets back off for editing.
func ParseActionsFromBullets(bulleted string) string {
	if bulleted == "" {
		return ""
	}
	var out []string
	for _, line := range strings.Split(bulleted, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, strings.TrimPrefix(line, bullet+" "))
	}
	return strings.Join(out, "\n")
}
