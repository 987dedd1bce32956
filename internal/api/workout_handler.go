package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required"`
	Exercise    string `json:"exercise" binding:"required"`
	Duration    int    `json:"duration" binding:"required"` // Minutes
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

type WorkoutResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Exercise    string    `json:"exercise"`
	Duration    int       `json:"duration"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateWorkout godoc
// @Summary Add a workout to the catalog
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Missing field or non-positive duration"
// @Failure 403 {object} gin.H "Not a trainer"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), session, service.WorkoutInput{
		Name:        req.Name,
		Exercise:    req.Exercise,
		Duration:    req.Duration,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List workouts
// @Description Trainers see the workouts they created; trainees see the whole catalog.
// @Tags Workouts
// @Produce json
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), session)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetWorkout godoc
// @Summary Get a workout by ID
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), session, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		Name:        w.Name,
		Exercise:    w.Exercise,
		Duration:    w.Duration,
		Type:        w.Type,
		Description: w.Description,
		CreatedBy:   w.CreatedBy.Hex(),
		CreatedAt:   w.CreatedAt,
	}
}
