package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressInput carries a new progress log. Date is YYYY-MM-DD; empty means today (UTC).
type ProgressInput struct {
	WorkoutID   primitive.ObjectID
	Value       float64
	Date        string
	Description string
}

// ProgressService is the progress ledger.
type ProgressService interface {
	LogProgress(ctx context.Context, s domain.Session, in ProgressInput) (*domain.ProgressEntry, error)
	// ListProgress returns every entry for a Trainer and the caller's own entries for a Trainee.
	ListProgress(ctx context.Context, s domain.Session) ([]domain.ProgressEntry, error)
	ListOwnProgress(ctx context.Context, s domain.Session) ([]domain.ProgressEntry, error)
	GetProgress(ctx context.Context, s domain.Session, id primitive.ObjectID) (*domain.ProgressEntry, error)
}

type progressService struct {
	progress repository.ProgressRepository
	workouts repository.WorkoutRepository
	guard    *Guard
	now      func() time.Time
}

func NewProgressService(store repository.Store, guard *Guard) ProgressService {
	return &progressService{
		progress: store.Progress,
		workouts: store.Workouts,
		guard:    guard,
		now:      time.Now,
	}
}

func (s *progressService) LogProgress(ctx context.Context, sess domain.Session, in ProgressInput) (*domain.ProgressEntry, error) {
	if err := s.guard.RequireRole(sess, ActionLogProgress); err != nil {
		return nil, err
	}

	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.workouts.GetByID(ctx, in.WorkoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	entry := &domain.ProgressEntry{
		UserID:      sess.UserID, // Always the caller
		WorkoutID:   in.WorkoutID,
		Value:       in.Value,
		Date:        date,
		Description: strings.TrimSpace(in.Description),
	}
	if _, err := s.progress.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *progressService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, validationError("date must use the YYYY-MM-DD format")
	}
	return date, nil
}

func (s *progressService) ListProgress(ctx context.Context, sess domain.Session) ([]domain.ProgressEntry, error) {
	if err := s.guard.RequireRole(sess, ActionViewProgress); err != nil {
		return nil, err
	}
	if sess.Role == domain.RoleTrainer {
		return s.progress.GetAll(ctx)
	}
	return s.progress.GetByUserID(ctx, sess.UserID)
}

func (s *progressService) ListOwnProgress(ctx context.Context, sess domain.Session) ([]domain.ProgressEntry, error) {
	if err := s.guard.RequireRole(sess, ActionViewProgress); err != nil {
		return nil, err
	}
	return s.progress.GetByUserID(ctx, sess.UserID)
}

func (s *progressService) GetProgress(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	return s.guard.AuthorizeProgress(ctx, sess, ActionViewProgress, id)
}
