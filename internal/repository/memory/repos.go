package memory

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Users ---

type userRepository struct {
	t          *table[domain.User]
	byUsername map[string]primitive.ObjectID
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{t: newTable[domain.User](), byUsername: make(map[string]primitive.ObjectID)}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, taken := r.byUsername[user.Username]; taken {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	r.t.put(user.ID, *user)
	r.byUsername[user.Username] = user.ID
	return user.ID, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.t.mu.RLock()
	id, ok := r.byUsername[username]
	r.t.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.t.get(id)
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.t.get(id)
}

// --- Groups ---

type groupRepository struct {
	t *table[domain.Group]
}

func NewGroupRepository() repository.GroupRepository {
	return &groupRepository{t: newTable[domain.Group]()}
}

func (r *groupRepository) Create(_ context.Context, group *domain.Group) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	group.ID = primitive.NewObjectID()
	group.CreatedAt = time.Now().UTC()
	r.t.put(group.ID, *group)
	return group.ID, nil
}

func (r *groupRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Group, error) {
	return r.t.get(id)
}

func (r *groupRepository) GetByOwnerID(_ context.Context, ownerID primitive.ObjectID) ([]domain.Group, error) {
	rows := r.t.filter(func(g domain.Group) bool { return g.OwnerID == ownerID })
	return newestFirst(rows, func(g domain.Group) time.Time { return g.CreatedAt }), nil
}

func (r *groupRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Group, error) {
	set := idSet(ids)
	rows := r.t.filter(func(g domain.Group) bool { _, ok := set[g.ID]; return ok })
	return newestFirst(rows, func(g domain.Group) time.Time { return g.CreatedAt }), nil
}

// --- Invite codes ---

type inviteCodeRepository struct {
	mu    sync.RWMutex
	codes map[string]domain.InviteCode
	order []string
}

func NewInviteCodeRepository() repository.InviteCodeRepository {
	return &inviteCodeRepository{codes: make(map[string]domain.InviteCode)}
}

func (r *inviteCodeRepository) Create(_ context.Context, invite *domain.InviteCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[invite.Code]; exists {
		return repository.ErrDuplicate
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	r.codes[invite.Code] = *invite
	r.order = append(r.order, invite.Code)
	return nil
}

func (r *inviteCodeRepository) GetByCode(_ context.Context, code string) (*domain.InviteCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invite, ok := r.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &invite, nil
}

func (r *inviteCodeRepository) GetByGroupID(_ context.Context, groupID primitive.ObjectID) ([]domain.InviteCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.InviteCode{}
	for _, code := range r.order {
		if inv := r.codes[code]; inv.GroupID == groupID {
			out = append(out, inv)
		}
	}
	return newestFirst(out, func(i domain.InviteCode) time.Time { return i.CreatedAt }), nil
}

// --- Memberships ---

type pair struct{ a, b primitive.ObjectID }

type membershipRepository struct {
	t     *table[domain.Membership]
	pairs map[pair]struct{}
}

func NewMembershipRepository() repository.MembershipRepository {
	return &membershipRepository{t: newTable[domain.Membership](), pairs: make(map[pair]struct{})}
}

func (r *membershipRepository) AddIfAbsent(_ context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	key := pair{groupID, userID}
	if _, exists := r.pairs[key]; exists {
		return false, nil
	}
	m := domain.Membership{ID: primitive.NewObjectID(), GroupID: groupID, UserID: userID, JoinedAt: time.Now().UTC()}
	r.t.put(m.ID, m)
	r.pairs[key] = struct{}{}
	return true, nil
}

func (r *membershipRepository) IsMember(_ context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	_, ok := r.pairs[pair{groupID, userID}]
	return ok, nil
}

func (r *membershipRepository) GetUserIDsByGroupID(_ context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rows := r.t.filter(func(m domain.Membership) bool { return m.GroupID == groupID })
	ids := make([]primitive.ObjectID, len(rows))
	for i, m := range rows {
		ids[i] = m.UserID
	}
	return ids, nil
}

func (r *membershipRepository) CountByGroupID(_ context.Context, groupID primitive.ObjectID) (int64, error) {
	return int64(len(r.t.filter(func(m domain.Membership) bool { return m.GroupID == groupID }))), nil
}

func (r *membershipRepository) GetGroupIDsByUserID(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rows := r.t.filter(func(m domain.Membership) bool { return m.UserID == userID })
	ids := make([]primitive.ObjectID, len(rows))
	for i, m := range rows {
		ids[i] = m.GroupID
	}
	return ids, nil
}

// --- Workouts ---

type workoutRepository struct {
	t *table[domain.Workout]
}

func NewWorkoutRepository() repository.WorkoutRepository {
	return &workoutRepository{t: newTable[domain.Workout]()}
}

func (r *workoutRepository) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()
	r.t.put(workout.ID, *workout)
	return workout.ID, nil
}

func (r *workoutRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.t.get(id)
}

func (r *workoutRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	set := idSet(ids)
	return r.t.filter(func(w domain.Workout) bool { _, ok := set[w.ID]; return ok }), nil
}

func (r *workoutRepository) GetAll(_ context.Context) ([]domain.Workout, error) {
	return newestFirst(r.t.filter(all[domain.Workout]), func(w domain.Workout) time.Time { return w.CreatedAt }), nil
}

func (r *workoutRepository) GetByCreator(_ context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error) {
	rows := r.t.filter(func(w domain.Workout) bool { return w.CreatedBy == trainerID })
	return newestFirst(rows, func(w domain.Workout) time.Time { return w.CreatedAt }), nil
}

// --- Workout plans ---

type workoutPlanRepository struct {
	t *table[domain.WorkoutPlan]
}

func NewWorkoutPlanRepository() repository.WorkoutPlanRepository {
	return &workoutPlanRepository{t: newTable[domain.WorkoutPlan]()}
}

func (r *workoutPlanRepository) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	r.t.put(plan.ID, *plan)
	return plan.ID, nil
}

func (r *workoutPlanRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.t.get(id)
}

func (r *workoutPlanRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	set := idSet(ids)
	rows := r.t.filter(func(p domain.WorkoutPlan) bool { _, ok := set[p.ID]; return ok })
	return newestFirst(rows, func(p domain.WorkoutPlan) time.Time { return p.CreatedAt }), nil
}

func (r *workoutPlanRepository) GetByCreator(_ context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	rows := r.t.filter(func(p domain.WorkoutPlan) bool { return p.CreatedBy == trainerID })
	return newestFirst(rows, func(p domain.WorkoutPlan) time.Time { return p.CreatedAt }), nil
}

// --- Plan entries ---

type planSlot struct {
	plan  primitive.ObjectID
	order int
}

type planEntryRepository struct {
	t     *table[domain.PlanEntry]
	slots map[planSlot]struct{}
}

func NewPlanEntryRepository() repository.PlanEntryRepository {
	return &planEntryRepository{t: newTable[domain.PlanEntry](), slots: make(map[planSlot]struct{})}
}

func (r *planEntryRepository) Insert(_ context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	slot := planSlot{entry.PlanID, entry.Order}
	if _, taken := r.slots[slot]; taken {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	entry.ID = primitive.NewObjectID()
	entry.AddedAt = time.Now().UTC()
	r.t.put(entry.ID, *entry)
	r.slots[slot] = struct{}{}
	return entry.ID, nil
}

func (r *planEntryRepository) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanEntry, error) {
	rows := r.t.filter(func(e domain.PlanEntry) bool { return e.PlanID == planID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })
	return rows, nil
}

// --- Plan assignments ---

type planAssignmentRepository struct {
	t     *table[domain.PlanAssignment]
	pairs map[pair]struct{}
}

func NewPlanAssignmentRepository() repository.PlanAssignmentRepository {
	return &planAssignmentRepository{t: newTable[domain.PlanAssignment](), pairs: make(map[pair]struct{})}
}

func (r *planAssignmentRepository) AssignIfAbsent(_ context.Context, planID, groupID primitive.ObjectID) (bool, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	key := pair{planID, groupID}
	if _, exists := r.pairs[key]; exists {
		return false, nil
	}
	a := domain.PlanAssignment{ID: primitive.NewObjectID(), PlanID: planID, GroupID: groupID, AssignedAt: time.Now().UTC()}
	r.t.put(a.ID, a)
	r.pairs[key] = struct{}{}
	return true, nil
}

func (r *planAssignmentRepository) GetGroupIDsByPlanID(_ context.Context, planID primitive.ObjectID) ([]primitive.ObjectID, error) {
	rows := r.t.filter(func(a domain.PlanAssignment) bool { return a.PlanID == planID })
	ids := make([]primitive.ObjectID, len(rows))
	for i, a := range rows {
		ids[i] = a.GroupID
	}
	return ids, nil
}

func (r *planAssignmentRepository) GetPlanIDsByGroupIDs(_ context.Context, groupIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	groups := idSet(groupIDs)
	rows := r.t.filter(func(a domain.PlanAssignment) bool { _, ok := groups[a.GroupID]; return ok })
	seen := make(map[primitive.ObjectID]struct{}, len(rows))
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, a := range rows {
		if _, dup := seen[a.PlanID]; dup {
			continue
		}
		seen[a.PlanID] = struct{}{}
		ids = append(ids, a.PlanID)
	}
	return ids, nil
}

// --- Progress ---

type progressRepository struct {
	t *table[domain.ProgressEntry]
}

func NewProgressRepository() repository.ProgressRepository {
	return &progressRepository{t: newTable[domain.ProgressEntry]()}
}

func (r *progressRepository) Create(_ context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	r.t.put(entry.ID, *entry)
	return entry.ID, nil
}

func (r *progressRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgressEntry, error) {
	return r.t.get(id)
}

func (r *progressRepository) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	return byDate(r.t.filter(func(p domain.ProgressEntry) bool { return p.UserID == userID })), nil
}

func (r *progressRepository) GetAll(_ context.Context) ([]domain.ProgressEntry, error) {
	return byDate(r.t.filter(all[domain.ProgressEntry])), nil
}

// byDate orders entries most recent date first, then most recently logged.
func byDate(rows []domain.ProgressEntry) []domain.ProgressEntry {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows
}
