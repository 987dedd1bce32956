package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type LogProgressRequest struct {
	WorkoutID   string   `json:"workout_id" binding:"required"`
	Value       *float64 `json:"value" binding:"required"`
	Date        string   `json:"date"` // YYYY-MM-DD, defaults to today
	Description string   `json:"description"`
}

type ProgressResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WorkoutID   string    `json:"workout_id"`
	Value       float64   `json:"value"`
	Date        string    `json:"date"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogProgress godoc
// @Summary Log progress for the calling trainee
// @Tags Progress
// @Accept json
// @Produce json
// @Param entry body LogProgressRequest true "Progress entry"
// @Success 201 {object} ProgressResponse
// @Failure 400 {object} gin.H "Missing value or malformed date"
// @Failure 403 {object} gin.H "Not a trainee"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /progress [post]
func (h *ProgressHandler) LogProgress(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req LogProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	workoutID, ok := parseIDField(c, "workout_id", req.WorkoutID)
	if !ok {
		return
	}

	entry, err := h.progressService.LogProgress(c.Request.Context(), session, service.ProgressInput{
		WorkoutID:   workoutID,
		Value:       *req.Value,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgressToResponse(entry))
}

// ListProgress godoc
// @Summary List progress entries
// @Description Trainers see every entry; trainees see their own.
// @Tags Progress
// @Produce json
// @Success 200 {array} ProgressResponse
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	h.list(c, h.progressService.ListProgress)
}

// ListOwnProgress godoc
// @Summary Progress entries of the caller
// @Tags Progress
// @Produce json
// @Success 200 {array} ProgressResponse
// @Router /progress/user [get]
func (h *ProgressHandler) ListOwnProgress(c *gin.Context) {
	h.list(c, h.progressService.ListOwnProgress)
}

func (h *ProgressHandler) list(c *gin.Context, fetch func(context.Context, domain.Session) ([]domain.ProgressEntry, error)) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	entries, err := fetch(c.Request.Context(), session)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]ProgressResponse, len(entries))
	for i := range entries {
		resp[i] = MapProgressToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetProgress godoc
// @Summary Get a progress entry
// @Description Trainees only reach their own entries; other ids answer 404.
// @Tags Progress
// @Produce json
// @Param id path string true "Progress entry ID"
// @Success 200 {object} ProgressResponse
// @Failure 404 {object} gin.H
// @Router /progress/{id} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, err := h.progressService.GetProgress(c.Request.Context(), session, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgressToResponse(entry))
}

func MapProgressToResponse(p *domain.ProgressEntry) ProgressResponse {
	return ProgressResponse{
		ID:          p.ID.Hex(),
		UserID:      p.UserID.Hex(),
		WorkoutID:   p.WorkoutID.Hex(),
		Value:       p.Value,
		Date:        p.Date.UTC().Format(domain.DateLayout),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
