package handlers

import (
	"errors"
	"net/http"

	"emma-client/internal/agents"
	"emma-client/internal/database"
	"emma-client/internal/middleware"
	"emma-client/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultAgentName is the agent every user starts with.
const defaultAgentName = "EMMA"

// InstallDefaultAgent handles POST /agents/default/install
// Idempotent: a second call reports the existing agent.
func InstallDefaultAgent(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
		return
	}

	var req agents.InstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "permission denied to install agents for another user",
			"code":    "42501",
		})
		return
	}

	db := database.GetDB()
	var agent models.Agent
	err := db.Where("user_id = ? AND is_default = ?", userID, true).First(&agent).Error
	switch {
	case err == nil:
		c.JSON(http.StatusOK, agents.InstallResponse{AgentID: agent.ID, Installed: false})
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respondWithError(c, http.StatusInternalServerError, "Failed to look up default agent", err)
		return
	}

	agent = models.Agent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      defaultAgentName,
		IsDefault: true,
	}
	if err := db.Create(&agent).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to install default agent", err)
		return
	}

	c.JSON(http.StatusCreated, agents.InstallResponse{AgentID: agent.ID, Installed: true})
}
