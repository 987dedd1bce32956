package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextSessionKey is the gin context key holding the caller's domain.Session.
const ContextSessionKey = "session"

// AuthMiddleware verifies the session token carried in the session cookie,
// falling back to an "Authorization: Bearer" header, and stores the decoded
// session in the context.
func AuthMiddleware(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.Verify(tokenFromRequest(c, cookieName))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	// Expecting "Bearer <token>"
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RequireAction rejects the request early when the caller's role may not
// perform action. Must run AFTER AuthMiddleware. Ownership is still checked
// by the services.
func RequireAction(action service.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getSessionFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if !service.Allows(session.Role, action) {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' may not %s", session.Role, action))
			return
		}
		c.Next()
	}
}

// Helper function to get the session from context (used by handlers)
func getSessionFromContext(c *gin.Context) (domain.Session, error) {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return domain.Session{}, errors.New("session not found in context")
	}
	session, ok := raw.(domain.Session)
	if !ok {
		return domain.Session{}, errors.New("invalid session type in context")
	}
	return session, nil
}

// mustSession writes a 500 and returns false when the context carries no session.
func mustSession(c *gin.Context) (domain.Session, bool) {
	session, err := getSessionFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return domain.Session{}, false
	}
	return session, true
}

// parseIDParam reads a hex ObjectID path parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseIDField(c *gin.Context, field, value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", field))
		return primitive.NilObjectID, false
	}
	return id, true
}
