package api

import (
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/logger"
	"alcyxob/fitness-tracker/internal/repository/memory"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var testJWT = config.JWTConfig{Secret: "api-test-secret", Expiration: time.Hour, CookieName: "jwt"}

func newTestRouter(files storage.FileStorage) *gin.Engine {
	store := memory.NewStore()
	guard := service.NewGuard(store)
	router := gin.New()
	SetupRoutes(router, testJWT, Services{
		Auth:     service.NewAuthService(store.Users, testJWT.Secret, testJWT.Expiration),
		Groups:   service.NewGroupService(store, guard, files, service.InviteOptions{BaseURL: "http://test", QRSize: 64}),
		Workouts: service.NewWorkoutService(store, guard),
		Plans:    service.NewPlanService(store, guard),
		Progress: service.NewProgressService(store, guard),
	})
	return router
}

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signedIn signs up and signs in a user, returning a client carrying the session cookie.
func signedIn(t *testing.T, router *gin.Engine, username, role string) *client {
	t.Helper()
	anon := &client{t: t, router: router}
	w := anon.do(http.MethodPost, "/api/auth/signup", gin.H{"username": username, "password": "pw-" + username, "role": role})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = anon.do(http.MethodPost, "/api/auth/signin", gin.H{"username": username, "password": "pw-" + username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testJWT.CookieName {
			assert.True(t, ck.HttpOnly)
			assert.Equal(t, int(time.Hour.Seconds()), ck.MaxAge)
			return &client{t: t, router: router, cookie: ck}
		}
	}
	t.Fatalf("signin did not set the %s cookie", testJWT.CookieName)
	return nil
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(nil)
	anon := &client{t: t, router: router}

	w := anon.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "x", "password": "p", "role": "Coach"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	alice := signedIn(t, router, "alice", "Trainer")

	w = anon.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "alice", "password": "p", "role": "Trainee"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate username")

	w = anon.do(http.MethodPost, "/api/auth/signin", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = alice.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[SessionResponse](t, w)
	assert.Equal(t, "Trainer", string(me.Role))
	assert.Len(t, me.UserID, 24)

	w = anon.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged := &client{t: t, router: router, cookie: &http.Cookie{Name: "jwt", Value: "garbage"}}
	w = forged.do(http.MethodGet, "/api/workouts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = alice.do(http.MethodPost, "/api/auth/signout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestBearerHeaderFallback(t *testing.T) {
	router := newTestRouter(nil)
	alice := signedIn(t, router, "alice", "Trainee")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+alice.cookie.Value)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGroupFlow(t *testing.T) {
	router := newTestRouter(nil)
	coach := signedIn(t, router, "coach", "Trainer")
	rival := signedIn(t, router, "rival", "Trainer")
	bob := signedIn(t, router, "bob", "Trainee")
	carol := signedIn(t, router, "carol", "Trainee")

	w := bob.do(http.MethodPost, "/api/groups", gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = coach.do(http.MethodPost, "/api/groups", gin.H{"name": "Morning Crew", "description": "6am"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decode[CreateGroupResponse](t, w)
	assert.NotEmpty(t, group.InviteCode)

	w = coach.do(http.MethodPost, "/api/groups/"+group.ID+"/invite", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	invite := decode[InviteResponse](t, w)

	w = bob.do(http.MethodPost, "/api/groups/"+group.ID+"/invite", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = rival.do(http.MethodPost, "/api/groups/"+group.ID+"/invite", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = coach.do(http.MethodPost, "/api/groups/0123456789abcdef01234567/invite", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = coach.do(http.MethodPost, "/api/groups/not-an-id/invite", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = bob.do(http.MethodPost, "/api/groups/join", gin.H{"invite_code": invite.InviteCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	joined := decode[JoinGroupResponse](t, w)
	assert.False(t, joined.AlreadyMember)
	assert.Equal(t, group.ID, joined.Group.ID)
	assert.Equal(t, int64(1), joined.Group.MembersCount)

	w = bob.do(http.MethodPost, "/api/groups/join?invite_code="+invite.InviteCode, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rejoined := decode[JoinGroupResponse](t, w)
	assert.True(t, rejoined.AlreadyMember)
	assert.Equal(t, int64(1), rejoined.Group.MembersCount)

	w = carol.do(http.MethodPost, "/api/groups/join", gin.H{"invite_code": "unknown"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = coach.do(http.MethodPost, "/api/groups/join", gin.H{"invite_code": invite.InviteCode})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = coach.do(http.MethodGet, "/api/groups/"+group.ID+"/members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[[]string](t, w)
	assert.Len(t, members, 1)

	w = bob.do(http.MethodGet, "/api/auth/me", nil)
	assert.Contains(t, members, decode[SessionResponse](t, w).UserID)

	w = rival.do(http.MethodGet, "/api/groups/"+group.ID+"/members", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = bob.do(http.MethodGet, "/api/groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]GroupResponse](t, w), 1)

	w = coach.do(http.MethodGet, "/api/groups/"+group.ID+"/invites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]InviteResponse](t, w), 2)

	w = coach.do(http.MethodGet, "/api/groups/"+group.ID+"/invites/"+invite.InviteCode+"/qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

type mockFileStorage struct {
	mock.Mock
}

func (m *mockFileStorage) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	return m.Called(ctx, key, contentType, body).Error(0)
}

func (m *mockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func TestInviteQR_RedirectsToStorage(t *testing.T) {
	files := new(mockFileStorage)
	router := newTestRouter(files)
	coach := signedIn(t, router, "coach", "Trainer")

	w := coach.do(http.MethodPost, "/api/groups", gin.H{"name": "G"})
	require.Equal(t, http.StatusCreated, w.Code)
	group := decode[CreateGroupResponse](t, w)

	key := storage.InviteQRKey(group.ID, group.InviteCode)
	files.On("PutObject", mock.Anything, key, "image/png", mock.AnythingOfType("[]uint8")).Return(nil)
	files.On("GeneratePresignedDownloadURL", mock.Anything, key, storage.DefaultPresignedURLExpiry).Return("https://bucket/qr.png?sig=1", nil)

	w = coach.do(http.MethodGet, "/api/groups/"+group.ID+"/invites/"+group.InviteCode+"/qr", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://bucket/qr.png?sig=1", w.Header().Get("Location"))
	files.AssertExpectations(t)
}

func TestPlanFlow(t *testing.T) {
	router := newTestRouter(nil)
	coach := signedIn(t, router, "coach", "Trainer")
	bob := signedIn(t, router, "bob", "Trainee")

	w := bob.do(http.MethodPost, "/api/workouts", gin.H{"name": "x", "exercise": "y", "duration": 10, "type": "z"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var workoutIDs []string
	for _, name := range []string{"warmup", "main"} {
		w = coach.do(http.MethodPost, "/api/workouts", gin.H{"name": name, "exercise": "Squats", "duration": 15, "type": "Strength"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		workoutIDs = append(workoutIDs, decode[WorkoutResponse](t, w).ID)
	}

	w = bob.do(http.MethodGet, "/api/workouts/"+workoutIDs[0], nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = coach.do(http.MethodPost, "/api/workout-plans", gin.H{"name": "Week 1"})
	require.Equal(t, http.StatusCreated, w.Code)
	plan := decode[PlanResponse](t, w)
	base := "/api/workout-plans/" + plan.ID

	w = coach.do(http.MethodPost, base+"/workouts", gin.H{"workout_id": workoutIDs[1], "order": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = coach.do(http.MethodPost, base+"/workouts", gin.H{"workout_id": workoutIDs[0], "order": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = coach.do(http.MethodPost, base+"/workouts", gin.H{"workout_id": workoutIDs[0], "order": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = coach.do(http.MethodPost, base+"/workouts", gin.H{"workout_id": "0123456789abcdef01234567", "order": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = coach.do(http.MethodPost, base+"/workouts", gin.H{"workout_id": workoutIDs[0]})
	assert.Equal(t, http.StatusBadRequest, w.Code, "order is required")

	w = coach.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[PlanDetailsResponse](t, w)
	require.Len(t, details.Workouts, 2)
	assert.Equal(t, "warmup", details.Workouts[0].Workout.Name)
	assert.Equal(t, "main", details.Workouts[1].Workout.Name)

	w = coach.do(http.MethodPost, "/api/groups", gin.H{"name": "G"})
	require.Equal(t, http.StatusCreated, w.Code)
	group := decode[CreateGroupResponse](t, w)
	w = bob.do(http.MethodPost, "/api/groups/join", gin.H{"invite_code": group.InviteCode})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "not assigned yet")

	w = bob.do(http.MethodPost, base+"/assign", gin.H{"group_id": group.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = coach.do(http.MethodPost, base+"/assign", gin.H{"group_id": group.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = coach.do(http.MethodPost, base+"/assign", gin.H{"group_id": group.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[AssignPlanResponse](t, w).AlreadyAssigned)

	w = bob.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{group.ID}, decode[PlanDetailsResponse](t, w).GroupIDs)

	w = bob.do(http.MethodGet, "/api/workout-plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]PlanResponse](t, w), 1)
}

func TestProgressFlow(t *testing.T) {
	router := newTestRouter(nil)
	coach := signedIn(t, router, "coach", "Trainer")
	bob := signedIn(t, router, "bob", "Trainee")
	carol := signedIn(t, router, "carol", "Trainee")

	w := coach.do(http.MethodPost, "/api/workouts", gin.H{"name": "run", "exercise": "Running", "duration": 30, "type": "Cardio"})
	require.Equal(t, http.StatusCreated, w.Code)
	workoutID := decode[WorkoutResponse](t, w).ID

	w = coach.do(http.MethodPost, "/api/progress", gin.H{"workout_id": workoutID, "value": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = bob.do(http.MethodPost, "/api/progress", gin.H{"workout_id": workoutID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "value is required")

	w = bob.do(http.MethodPost, "/api/progress", gin.H{"workout_id": workoutID, "value": 5.5, "date": "2024-05-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[ProgressResponse](t, w)
	assert.Equal(t, "2024-05-01", entry.Date)

	w = bob.do(http.MethodPost, "/api/progress", gin.H{"workout_id": workoutID, "value": 1, "date": "May 1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = carol.do(http.MethodGet, "/api/progress/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "5.5")

	w = bob.do(http.MethodGet, "/api/progress/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = coach.do(http.MethodGet, "/api/progress/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = carol.do(http.MethodGet, "/api/progress/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]ProgressResponse](t, w))

	w = coach.do(http.MethodGet, "/api/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]ProgressResponse](t, w), 1)
}

func TestRespondWithError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	respondWithError(c, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())

	for kind, status := range map[error]int{
		service.ErrValidation:     http.StatusBadRequest,
		service.ErrAuthentication: http.StatusUnauthorized,
		service.ErrForbidden:      http.StatusForbidden,
		service.ErrNotFound:       http.StatusNotFound,
		service.ErrConflict:       http.StatusConflict,
		service.ErrOrderTaken:     http.StatusConflict,
	} {
		assert.Equal(t, status, statusFor(kind), kind.Error())
	}
}
