package admins

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"project/database"
	"project/ledger"
	"project/models"
	"project/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func paginate(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// GET /api/admin/investments
// Full ledger listing with optional user/property/status filters.
func ListInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := paginate(r)
	q := r.URL.Query()

	db := database.DB.Model(&models.Investment{})
	if v := strings.TrimSpace(q.Get("propertyId")); v != "" {
		db = db.Where("property_id = ?", v)
	}
	if v := strings.ToUpper(strings.TrimSpace(q.Get("status"))); v != "" {
		db = db.Where("status = ?", v)
	}
	if v, err := strconv.Atoi(q.Get("userId")); err == nil && v > 0 {
		db = db.Where("user_id = ?", v)
	}

	var totalRows int64
	if err := db.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Aggregates over the filtered set, not just the current page. Canceled
	// rows never count toward invested or fee totals.
	var stats struct {
		TotalInvested float64
		TotalFees     float64
	}
	if err := db.Session(&gorm.Session{}).
		Where("status <> ?", models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0) as total_invested, COALESCE(SUM(fee), 0) as total_fees").
		Scan(&stats).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var rows []models.Investment
	if err := db.Order("created_at DESC, id DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": rows,
			"stats": map[string]interface{}{
				"count":          totalRows,
				"total_invested": utils.RoundFloat(stats.TotalInvested, 2),
				"total_fees":     utils.RoundFloat(stats.TotalFees, 2),
			},
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// GET /api/admin/investments/cancel-requests
// The review queue: every investment waiting for a cancellation decision.
func CancelRequestsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := ledger.Default().List(ledger.Filter{Status: models.StatusCancelRequested})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: rows})
}

type ReviewCancelRequest struct {
	Action string `json:"action"`
}

// POST /api/admin/investments/{id}/review-cancel
func ReviewCancelHandler(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	var req ReviewCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	inv, err := ledger.Default().ReviewCancel(uint(id64), adminID, strings.ToLower(strings.TrimSpace(req.Action)))
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	summary, err := ledger.Default().Summary(inv.PropertyID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	msg := "Cancellation approved"
	if inv.Status == models.StatusActive {
		msg = "Cancellation rejected"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: msg,
		Data: map[string]interface{}{
			"investment": inv,
			"funding":    summary,
		},
	})
}

// GET /api/admin/users/{id}/investments
func UserInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}
	rows, err := ledger.Default().List(ledger.Filter{UserID: uint(id64)})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	total, err := ledger.Default().UserTotal(uint(id64))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_invested": utils.RoundFloat(total, 2),
			"investments":    rows,
		},
	})
}

// writeLedgerError mirrors the user-side error mapping for admin endpoints.
func writeLedgerError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	if errors.As(err, &vErr) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: vErr.Error()})
		return
	}
	var tErr *ledger.InvalidTransitionError
	if errors.As(err, &tErr) {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: tErr.Error()})
		return
	}
	if errors.Is(err, ledger.ErrNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
		return
	}
	utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
}
