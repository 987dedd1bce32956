package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// --- DTOs ---

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type GroupResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	OwnerID      string    `json:"owner_id"`
	MembersCount int64     `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateGroupResponse struct {
	GroupResponse
	InviteCode string `json:"invite_code"`
}

type JoinGroupResponse struct {
	Group         GroupResponse `json:"group"`
	AlreadyMember bool          `json:"already_member"`
}

type InviteResponse struct {
	InviteCode string    `json:"invite_code"`
	GroupID    string    `json:"group_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// --- Handler Methods ---

// CreateGroup godoc
// @Summary Create a group owned by the calling trainer
// @Description Also issues the group's first invite code.
// @Tags Groups
// @Accept json
// @Produce json
// @Param group body CreateGroupRequest true "Group details"
// @Success 201 {object} CreateGroupResponse
// @Failure 400 {object} gin.H "Empty name"
// @Failure 403 {object} gin.H "Not a trainer"
// @Router /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, invite, err := h.groupService.CreateGroup(c.Request.Context(), session, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateGroupResponse{GroupResponse: MapGroupToResponse(group), InviteCode: invite.Code})
}

// ListGroups godoc
// @Summary Groups the caller owns (Trainer) or has joined (Trainee)
// @Tags Groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Router /groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	groups, err := h.groupService.ListGroups(c.Request.Context(), session)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]GroupResponse, len(groups))
	for i := range groups {
		resp[i] = MapGroupToResponse(&groups[i])
	}
	c.JSON(http.StatusOK, resp)
}

// JoinGroup godoc
// @Summary Redeem an invite code
// @Description The code is read from the invite_code query parameter (QR links) or the JSON body.
// Redeeming a code for a group the caller already belongs to succeeds without creating a second membership.
// @Tags Groups
// @Accept json
// @Produce json
// @Param body body JoinGroupRequest false "Invite code"
// @Success 200 {object} JoinGroupResponse
// @Failure 403 {object} gin.H "Not a trainee"
// @Failure 404 {object} gin.H "Unknown invite code"
// @Router /groups/join [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	code := c.Query("invite_code")
	if code == "" {
		var req JoinGroupRequest
		if !bindJSON(c, &req) {
			return
		}
		code = req.InviteCode
	}

	group, alreadyMember, err := h.groupService.RedeemInvite(c.Request.Context(), session, code)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, JoinGroupResponse{Group: MapGroupToResponse(group), AlreadyMember: alreadyMember})
}

// GenerateInvite godoc
// @Summary Issue a new invite code for a group
// @Description Previously issued codes remain valid.
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 201 {object} InviteResponse
// @Failure 403 {object} gin.H "Caller does not own the group"
// @Failure 404 {object} gin.H "Group not found"
// @Router /groups/{id}/invite [post]
func (h *GroupHandler) GenerateInvite(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invite, err := h.groupService.GenerateInvite(c.Request.Context(), session, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapInviteToResponse(invite))
}

// ListInvites godoc
// @Summary Live invite codes of a group, newest first
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {array} InviteResponse
// @Router /groups/{id}/invites [get]
func (h *GroupHandler) ListInvites(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invites, err := h.groupService.ListInvites(c.Request.Context(), session, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	resp := make([]InviteResponse, len(invites))
	for i := range invites {
		resp[i] = MapInviteToResponse(&invites[i])
	}
	c.JSON(http.StatusOK, resp)
}

// InviteQR godoc
// @Summary QR card of an invite link
// @Description PNG inline, or a redirect to a presigned object storage URL when storage is configured.
// @Tags Groups
// @Produce png
// @Param id path string true "Group ID"
// @Param code path string true "Invite code"
// @Success 200 {file} binary
// @Success 302
// @Failure 404 {object} gin.H "Group or code not found"
// @Router /groups/{id}/invites/{code}/qr [get]
func (h *GroupHandler) InviteQR(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	qr, err := h.groupService.InviteQR(c.Request.Context(), session, groupID, c.Param("code"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if qr.URL != "" {
		c.Redirect(http.StatusFound, qr.URL)
		return
	}
	c.Data(http.StatusOK, "image/png", qr.PNG)
}

// ListMembers godoc
// @Summary Member user ids of a group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {array} string
// @Failure 403 {object} gin.H "Caller does not own the group"
// @Failure 404 {object} gin.H "Group not found"
// @Router /groups/{id}/members [get]
func (h *GroupHandler) ListMembers(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), session, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	ids := make([]string, len(members))
	for i, id := range members {
		ids[i] = id.Hex()
	}
	c.JSON(http.StatusOK, ids)
}

func MapGroupToResponse(g *domain.Group) GroupResponse {
	return GroupResponse{
		ID:           g.ID.Hex(),
		Name:         g.Name,
		Description:  g.Description,
		OwnerID:      g.OwnerID.Hex(),
		MembersCount: g.MembersCount,
		CreatedAt:    g.CreatedAt,
	}
}

func MapInviteToResponse(inv *domain.InviteCode) InviteResponse {
	return InviteResponse{InviteCode: inv.Code, GroupID: inv.GroupID.Hex(), CreatedAt: inv.CreatedAt}
}
