package users

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"project/database"
	"project/models"
	"project/utils"
)

const (
	cashbackRate = 0.01
	// Invested amount over the trailing 12 months that upgrades the member tier.
	plusTierThreshold = 10000
)

// GET /api/users/rewards
func RewardsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	db := database.DB

	var lifetime float64
	if err := db.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ?", uid, models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").Scan(&lifetime).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	since := time.Now().AddDate(-1, 0, 0)
	var trailing float64
	if err := db.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ? AND created_at >= ?", uid, models.StatusCanceled, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&trailing).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	tier := "standard"
	if trailing >= plusTierThreshold {
		tier = "plus"
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tier":                     tier,
			"cashback_rate":            cashbackRate,
			"cashback_earned":          utils.RoundFloat(lifetime*cashbackRate, 2),
			"invested_last_12_months":  utils.RoundFloat(trailing, 2),
			"plus_tier_threshold":      float64(plusTierThreshold),
			"remaining_to_plus":        utils.RoundFloat(maxFloat(plusTierThreshold-trailing, 0), 2),
			"lifetime_invested_amount": utils.RoundFloat(lifetime, 2),
		},
	})
}

// GET /api/users/rewards/referral
// The referral link is derived from the user id; nothing is stored for it.
func ReferralHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	base := os.Getenv("APP_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	code := fmt.Sprintf("PF-%06d", uid)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"referral_code": code,
			"referral_link": strings.TrimRight(base, "/") + "/register?ref=" + code,
		},
	})
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
