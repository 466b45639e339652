package handlers

import (
	"errors"
	"net/http"
	"strings"

	"emma-client/internal/database"
	"emma-client/internal/featureflags"
	"emma-client/internal/logging"
	"emma-client/internal/models"
	"emma-client/internal/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UpsertFlagRequest is the body of PUT /feature-flags/:name
type UpsertFlagRequest struct {
	Enabled     *bool   `json:"enabled" binding:"required"`
	Description *string `json:"description"`
}

func toFlag(f models.FeatureFlag) featureflags.Flag {
	return featureflags.Flag{
		Name:    f.Name,
		Enabled: f.Enabled,
		Details: &featureflags.Details{
			Description: f.Description,
			UpdatedAt:   f.UpdatedAt.UTC(),
		},
	}
}

func publishFlagEvent(evt featureflags.Event) {
	if _, err := realtime.GetHub().BroadcastJSON(realtime.FlagsTopic, evt); err != nil {
		logging.Warn("Failed to broadcast flag event", zap.String("type", evt.Type), zap.Error(err))
	}
}

// ListFlags handles GET /feature-flags
func ListFlags(c *gin.Context) {
	var rows []models.FeatureFlag
	if err := database.GetDB().Find(&rows).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to fetch feature flags", err)
		return
	}

	flags := make(map[string]bool, len(rows))
	for _, f := range rows {
		flags[f.Name] = f.Enabled
	}
	c.JSON(http.StatusOK, featureflags.AllFlagsResponse{Flags: flags})
}

// GetFlag handles GET /feature-flags/:name
func GetFlag(c *gin.Context) {
	name := c.Param("name")

	var flag models.FeatureFlag
	if err := database.GetDB().Where("name = ?", name).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Feature flag not found"})
			return
		}
		respondWithError(c, http.StatusInternalServerError, "Failed to fetch feature flag", err)
		return
	}
	c.JSON(http.StatusOK, toFlag(flag))
}

// UpsertFlag handles PUT /feature-flags/:name
func UpsertFlag(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Flag name is required"})
		return
	}

	var req UpsertFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	db := database.GetDB()
	var flag models.FeatureFlag
	err := db.Where("name = ?", name).First(&flag).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(c, http.StatusInternalServerError, "Failed to fetch feature flag", err)
		return
	}

	flag.Name = name
	flag.Enabled = *req.Enabled
	if req.Description != nil {
		flag.Description = *req.Description
	}
	write := db.Save
	if err != nil {
		write = db.Create
	}
	if err := write(&flag).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to save feature flag", err)
		return
	}

	publishFlagEvent(featureflags.Event{Type: featureflags.EventFlagUpdated, FlagName: flag.Name, Enabled: flag.Enabled})
	c.JSON(http.StatusOK, toFlag(flag))
}

// DeleteFlag handles DELETE /feature-flags/:name
func DeleteFlag(c *gin.Context) {
	name := c.Param("name")

	result := database.GetDB().Where("name = ?", name).Delete(&models.FeatureFlag{})
	if result.Error != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to delete feature flag", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Feature flag not found"})
		return
	}

	publishFlagEvent(featureflags.Event{Type: featureflags.EventFlagDeleted, FlagName: name})
	c.Status(http.StatusNoContent)
}

// ResetFlags handles POST /feature-flags/reset
// Replaces every flag with the client default table.
func ResetFlags(c *gin.Context) {
	defaults := featureflags.Defaults()
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FeatureFlag{}).Error; err != nil {
			return err
		}
		return database.SeedFlags(tx, defaults)
	})
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to reset feature flags", err)
		return
	}

	publishFlagEvent(featureflags.Event{Type: featureflags.EventFlagsReset})
	c.JSON(http.StatusOK, featureflags.AllFlagsResponse{Flags: defaults})
}
