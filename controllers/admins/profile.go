package admins

import (
	"encoding/json"
	"net/http"
	"strings"

	"project/database"
	"project/models"
	"project/utils"
)

func currentAdmin(w http.ResponseWriter, r *http.Request) (*models.Admin, bool) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return nil, false
	}
	var admin models.Admin
	if err := database.DB.First(&admin, adminID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Admin not found"})
		return nil, false
	}
	return &admin, true
}

// GET /api/admin/profile
func GetAdminProfile(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: admin})
}

type updateAdminProfileRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// PUT /api/admin/profile
func UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentAdmin(w, r)
	if !ok {
		return
	}

	var req updateAdminProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	updates := map[string]interface{}{}
	if v := strings.TrimSpace(req.Username); v != "" {
		updates["username"] = v
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		updates["name"] = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		updates["email"] = v
	}
	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}

	if err := database.DB.Model(admin).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := database.DB.First(admin, admin.ID).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Profile updated", Data: admin})
}

type updateAdminPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PUT /api/admin/password
func UpdateAdminPassword(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentAdmin(w, r)
	if !ok {
		return
	}

	var req updateAdminPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if len(req.NewPassword) < 8 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "New password must be at least 8 characters"})
		return
	}
	if !admin.ValidatePassword(req.CurrentPassword) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Current password is incorrect"})
		return
	}

	admin.Password = req.NewPassword
	if err := admin.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := database.DB.Model(admin).Update("password", admin.Password).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password updated"})
}
