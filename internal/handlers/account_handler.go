package handlers

import (
	"net/http"

	"emma-client/internal/accounts"
	"emma-client/internal/database"
	"emma-client/internal/middleware"
	"emma-client/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetAccounts handles POST /rpc/get_accounts
// Returns the caller's accounts, creating the personal account on first use.
func GetAccounts(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
		return
	}

	name := c.GetString(middleware.ContextEmail)
	if name == "" {
		name = userID
	}

	db := database.GetDB()
	var personal models.Account
	err := db.Where("primary_owner_user_id = ? AND personal_account = ?", userID, true).
		Attrs(models.Account{
			ID:                 uuid.NewString(),
			Name:               name,
			Slug:               userID,
			PersonalAccount:    true,
			PrimaryOwnerUserID: userID,
		}).
		FirstOrCreate(&personal).Error
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to load personal account", err)
		return
	}

	var rows []models.Account
	if err := db.Where("primary_owner_user_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to fetch accounts", err)
		return
	}

	resp := make([]accounts.Account, 0, len(rows))
	for _, a := range rows {
		resp = append(resp, accounts.Account{
			AccountID:       a.ID,
			Name:            a.Name,
			Slug:            a.Slug,
			PersonalAccount: a.PersonalAccount,
			Role:            "owner",
			IsPrimaryOwner:  true,
			CreatedAt:       a.CreatedAt,
			UpdatedAt:       a.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
