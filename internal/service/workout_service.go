package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutInput carries the fields of a new catalog workout.
type WorkoutInput struct {
	Name        string
	Exercise    string
	Duration    int // Minutes
	Type        string
	Description string
}

// WorkoutService manages the global workout catalog.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, s domain.Session, in WorkoutInput) (*domain.Workout, error)
	// ListWorkouts returns the caller's own workouts for a Trainer and the
	// whole catalog for a Trainee.
	ListWorkouts(ctx context.Context, s domain.Session) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, s domain.Session, id primitive.ObjectID) (*domain.Workout, error)
}

type workoutService struct {
	workouts repository.WorkoutRepository
	guard    *Guard
}

func NewWorkoutService(store repository.Store, guard *Guard) WorkoutService {
	return &workoutService{workouts: store.Workouts, guard: guard}
}

func (s *workoutService) CreateWorkout(ctx context.Context, sess domain.Session, in WorkoutInput) (*domain.Workout, error) {
	if err := s.guard.RequireRole(sess, ActionCreateWorkout); err != nil {
		return nil, err
	}
	in.Name, in.Exercise, in.Type = strings.TrimSpace(in.Name), strings.TrimSpace(in.Exercise), strings.TrimSpace(in.Type)
	if in.Name == "" || in.Exercise == "" || in.Type == "" {
		return nil, validationError("name, exercise and type are required")
	}
	if in.Duration <= 0 {
		return nil, validationError("duration must be a positive number of minutes")
	}

	workout := &domain.Workout{
		Name:        in.Name,
		Exercise:    in.Exercise,
		Duration:    in.Duration,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   sess.UserID,
	}
	if _, err := s.workouts.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, sess domain.Session) ([]domain.Workout, error) {
	if err := s.guard.RequireRole(sess, ActionViewWorkouts); err != nil {
		return nil, err
	}
	if sess.Role == domain.RoleTrainer {
		return s.workouts.GetByCreator(ctx, sess.UserID)
	}
	return s.workouts.GetAll(ctx)
}

func (s *workoutService) GetWorkout(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Workout, error) {
	if err := s.guard.RequireRole(sess, ActionViewWorkouts); err != nil {
		return nil, err
	}
	workout, err := s.workouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}
