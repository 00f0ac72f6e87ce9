package services

import (
	"context"
	"fmt"
	"time"

	"alumni-form/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulatedSubmitter stands in for a real submission endpoint. It waits for a
// fixed delay and logs the record; nothing is persisted.
type SimulatedSubmitter struct {
	log   *zap.Logger
	delay func() time.Duration
}

// NewSimulatedSubmitter creates a submitter. delay is read on every call so a
// reloaded configuration applies to the next submission.
func NewSimulatedSubmitter(log *zap.Logger, delay func() time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{log: log, delay: delay}
}

// Submit waits for the configured delay, then logs the record under a fresh
// reference. A cancelled ctx aborts the wait and is reported as an error.
func (s *SimulatedSubmitter) Submit(ctx context.Context, record models.FormRecord) (string, error) {
	timer := time.NewTimer(s.delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("submission interrupted: %w", ctx.Err())
	case <-timer.C:
	}

	ref := uuid.NewString()
	s.log.Info("Alumni data submitted",
		zap.String("reference", ref),
		zap.String("full_name", record.FullName),
		zap.Bool("has_student_id", record.StudentID != ""),
		zap.Bool("has_email", record.Email != ""),
		zap.Bool("has_phone", record.Phone != ""),
		zap.Int("completion", record.CompletionPercentage()),
	)
	return ref, nil
}
