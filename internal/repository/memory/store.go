// Package memory holds map-backed repositories used by tests and by the
// "memory" database driver. Each repository enforces the same uniqueness
// rules as the Mongo indexes, under a single mutex.
package memory

import (
	"alcyxob/fitness-tracker/internal/repository"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStore returns a repository.Store backed entirely by memory.
func NewStore() repository.Store {
	return repository.Store{
		Users:       NewUserRepository(),
		Groups:      NewGroupRepository(),
		Invites:     NewInviteCodeRepository(),
		Memberships: NewMembershipRepository(),
		Workouts:    NewWorkoutRepository(),
		Plans:       NewWorkoutPlanRepository(),
		PlanEntries: NewPlanEntryRepository(),
		Assignments: NewPlanAssignmentRepository(),
		Progress:    NewProgressRepository(),
	}
}

// table is an insertion-ordered map of records keyed by ObjectID.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) put(id primitive.ObjectID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

// filter returns copies of the rows keep accepts, in insertion order.
func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for _, id := range t.order {
		row := t.rows[id]
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func all[T any](T) bool { return true }

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// newestFirst sorts rows by the created timestamp returned by at, descending.
// The sort is stable so rows created in the same instant keep insertion order.
func newestFirst[T any](rows []T, at func(T) time.Time) []T {
	sort.SliceStable(rows, func(i, j int) bool {
		return at(rows[i]).After(at(rows[j]))
	})
	return rows
}
