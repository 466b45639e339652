package handlers

import (
	"net/http"

	"emma-client/internal/auth"
	"emma-client/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSessionRequest is the optional body of POST /auth/session
type CreateSessionRequest struct {
	Email string `json:"email"`
}

// CreateSession handles POST /auth/session
// Local single-user login: every caller is signed in as the default user.
func CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
	}

	token, expiresAt, err := auth.GenerateToken(session.DefaultUserID, req.Email)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to issue session", err)
		return
	}

	c.JSON(http.StatusOK, session.Session{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    expiresAt,
		User: &session.User{
			ID:    session.DefaultUserID,
			Email: req.Email,
		},
	})
}
