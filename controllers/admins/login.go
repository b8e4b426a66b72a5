package admins

import (
	"encoding/json"
	"net/http"
	"time"

	"project/models"
	"project/utils"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return
	}

	admin, err := models.GetAdminByUsername(req.Username)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid username or password",
		})
		return
	}

	if !admin.ValidatePassword(req.Password) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Invalid username or password",
		})
		return
	}

	token, err := utils.GenerateAccessTokenWithExpiry(uint(admin.ID), "admin", 6*time.Hour)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to issue token",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Signed in successfully",
		Data: map[string]interface{}{
			"token": token,
			"admin": admin,
		},
	})
}
