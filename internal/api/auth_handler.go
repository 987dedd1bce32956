package api

import (
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	cookie      config.JWTConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, cookie config.JWTConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// --- Request/Response Structs ---

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"` // "Trainer" or "Trainee"
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SigninResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SessionResponse struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// --- Handler Methods ---

// Signup godoc
// @Summary Register a new user (Trainer or Trainee)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body SignupRequest true "Signup details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid role, or username already exists"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Signin godoc
// @Summary Sign in
// @Description Verifies credentials and sets the session cookie. The token is also returned in the body.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SigninRequest true "Credentials"
// @Success 200 {object} SigninResponse
// @Failure 401 {object} gin.H "Invalid username or password"
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Signin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, int(h.authService.TokenTTL().Seconds()), "/", "", h.cookie.SecureCookie, true)
	c.JSON(http.StatusOK, SigninResponse{Token: token, User: MapUserToResponse(user)})
}

// Signout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Success 200 {object} gin.H
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me godoc
// @Summary Decoded session of the caller
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{UserID: session.UserID.Hex(), Role: session.Role})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
