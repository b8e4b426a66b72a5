package users

import (
	"errors"
	"net/http"

	"project/database"
	"project/ledger"
	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

func InfoHandler(w http.ResponseWriter, r *http.Request) {
	// Auth middleware sets user ID in context; use that
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	invested, err := ledger.Default().UserTotal(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var count int64
	db.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ?", uid, models.StatusCanceled).
		Count(&count)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":     user.ID,
				"name":   user.Name,
				"email":  user.Email,
				"status": user.Status,
			},
			"total_invested": utils.RoundFloat(invested, 2),
			"investments":    count,
		},
	})
}
