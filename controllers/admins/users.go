package admins

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"project/database"
	"project/ledger"
	"project/models"
	"project/utils"

	"github.com/gorilla/mux"
)

// GET /api/admin/users
// Optional ?q= matches name or email, ?status= filters exactly.
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := paginate(r)
	q := r.URL.Query()

	db := database.DB.Model(&models.User{})
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		like := "%" + v + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		db = db.Where("status = ?", v)
	}

	var totalRows int64
	if err := db.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var rows []models.User
	if err := db.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": rows,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// GET /api/admin/users/{id}
func GetUserDetail(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id64).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var invested float64
	database.DB.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ?", id64, models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").Scan(&invested)

	var count int64
	database.DB.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ?", id64, models.StatusCanceled).
		Count(&count)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":           user,
			"total_invested": utils.RoundFloat(invested, 2),
			"investments":    count,
		},
	})
}

// GET /api/admin/user-history?email=
// Support-desk lookup: resolves a user by email and returns their ledger rows.
func UserHistoryHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "email is required"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	rows, err := ledger.Default().List(ledger.Filter{UserID: user.ID})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	total, err := ledger.Default().UserTotal(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":           user,
			"total_invested": utils.RoundFloat(total, 2),
			"investments":    rows,
		},
	})
}

type updateUserStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/users/{id}/status
// Suspended users keep their ledger rows but cannot sign in.
func UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	var req updateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	status := strings.TrimSpace(req.Status)
	switch strings.ToLower(status) {
	case "active":
		status = "Active"
	case "suspended":
		status = "Suspended"
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "status must be Active or Suspended"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id64).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	if err := database.DB.Model(&user).Update("status", status).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	user.Status = status

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User updated", Data: user})
}
