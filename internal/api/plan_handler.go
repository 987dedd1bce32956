package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddWorkoutRequest struct {
	WorkoutID string `json:"workout_id" binding:"required"`
	Order     *int   `json:"order" binding:"required"` // Pointer so a missing order is distinguishable
}

type AssignPlanRequest struct {
	GroupID string `json:"group_id" binding:"required"`
}

type PlanResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type PlanWorkoutResponse struct {
	Order   int             `json:"order"`
	Workout WorkoutResponse `json:"workout"`
}

type PlanDetailsResponse struct {
	PlanResponse
	Workouts []PlanWorkoutResponse `json:"workouts"`
	GroupIDs []string              `json:"group_ids"`
}

type PlanEntryResponse struct {
	PlanID    string `json:"plan_id"`
	WorkoutID string `json:"workout_id"`
	Order     int    `json:"order"`
}

type AssignPlanResponse struct {
	PlanID          string `json:"plan_id"`
	GroupID         string `json:"group_id"`
	AlreadyAssigned bool   `json:"already_assigned"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create an empty workout plan
// @Tags WorkoutPlans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse
// @Failure 403 {object} gin.H "Not a trainer"
// @Router /workout-plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.CreatePlan(c.Request.Context(), session, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List workout plans
// @Description Trainers see plans they created; trainees see plans assigned to their groups.
// @Tags WorkoutPlans
// @Produce json
// @Success 200 {array} PlanResponse
// @Router /workout-plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), session)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]PlanResponse, len(plans))
	for i := range plans {
		resp[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlan godoc
// @Summary Get a plan with its workouts in order
// @Tags WorkoutPlans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanDetailsResponse
// @Failure 403 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /workout-plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	details, err := h.planService.GetPlan(c.Request.Context(), session, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanDetailsToResponse(details))
}

// AddWorkout godoc
// @Summary Place a workout in a plan at a given order
// @Tags WorkoutPlans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param entry body AddWorkoutRequest true "Workout and order"
// @Success 201 {object} PlanEntryResponse
// @Failure 400 {object} gin.H "Unknown workout or invalid order"
// @Failure 403 {object} gin.H "Caller did not create the plan"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Order already used in this plan"
// @Router /workout-plans/{id}/workouts [post]
func (h *PlanHandler) AddWorkout(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workoutID, ok := parseIDField(c, "workout_id", req.WorkoutID)
	if !ok {
		return
	}

	entry, err := h.planService.AddWorkoutToPlan(c.Request.Context(), session, planID, workoutID, *req.Order)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, PlanEntryResponse{
		PlanID:    entry.PlanID.Hex(),
		WorkoutID: entry.WorkoutID.Hex(),
		Order:     entry.Order,
	})
}

// AssignPlan godoc
// @Summary Assign a plan to a group
// @Description Idempotent: assigning an already assigned plan answers 200.
// @Tags WorkoutPlans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param body body AssignPlanRequest true "Target group"
// @Success 201 {object} AssignPlanResponse
// @Success 200 {object} AssignPlanResponse
// @Failure 403 {object} gin.H "Caller does not own the group or the plan"
// @Failure 404 {object} gin.H "Plan or group not found"
// @Router /workout-plans/{id}/assign [post]
func (h *PlanHandler) AssignPlan(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AssignPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	groupID, ok := parseIDField(c, "group_id", req.GroupID)
	if !ok {
		return
	}

	created, err := h.planService.AssignPlanToGroup(c.Request.Context(), session, planID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, AssignPlanResponse{PlanID: planID.Hex(), GroupID: groupID.Hex(), AlreadyAssigned: !created})
}

func MapPlanToResponse(p *domain.WorkoutPlan) PlanResponse {
	return PlanResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy.Hex(),
		CreatedAt:   p.CreatedAt,
	}
}

func MapPlanDetailsToResponse(d *domain.PlanDetails) PlanDetailsResponse {
	resp := PlanDetailsResponse{
		PlanResponse: MapPlanToResponse(&d.Plan),
		Workouts:     make([]PlanWorkoutResponse, len(d.Items)),
		GroupIDs:     make([]string, len(d.GroupIDs)),
	}
	for i := range d.Items {
		resp.Workouts[i] = PlanWorkoutResponse{Order: d.Items[i].Order, Workout: MapWorkoutToResponse(&d.Items[i].Workout)}
	}
	for i, id := range d.GroupIDs {
		resp.GroupIDs[i] = id.Hex()
	}
	return resp
}
