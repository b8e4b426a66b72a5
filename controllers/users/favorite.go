package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"project/database"
	"project/models"
	"project/utils"
)

type FavoriteRequest struct {
	PropertyID string `json:"propertyId"`
}

// POST /api/users/favorites toggles a property favorite and reports the new state.
func ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	propertyID := strings.TrimSpace(req.PropertyID)
	if propertyID == "" || propertyID == "undefined" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "propertyId is required"})
		return
	}

	db := database.DB
	var existing models.Favorite
	err := db.Where("user_id = ? AND property_id = ?", uid, propertyID).First(&existing).Error
	if err == nil {
		if err := db.Delete(&existing).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Removed from favorites", Data: map[string]interface{}{"favorited": false}})
		return
	}

	fav := models.Favorite{UserID: uid, PropertyID: propertyID}
	if err := db.Create(&fav).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Added to favorites", Data: map[string]interface{}{"favorited": true}})
}

// GET /api/users/favorites
func ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var favs []models.Favorite
	if err := database.DB.Where("user_id = ?", uid).Order("created_at DESC").Find(&favs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: favs})
}
