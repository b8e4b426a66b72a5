package admins

import (
	"net/http"
	"time"

	"project/database"
	"project/models"
	"project/utils"
)

type DailyInvestment struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

type PropertyTotal struct {
	PropertyID string  `json:"property_id"`
	Title      string  `json:"title"`
	Invested   float64 `json:"invested"`
}

type DashboardStats struct {
	TotalUsers          int64             `json:"total_users"`
	TotalInvestments    int64             `json:"total_investments"`
	ActiveInvestments   int64             `json:"active_investments"`
	PendingCancels      int64             `json:"pending_cancels"`
	CanceledInvestments int64             `json:"canceled_investments"`
	TotalInvested       float64           `json:"total_invested"`
	TotalFees           float64           `json:"total_fees"`
	RetainedFees        float64           `json:"retained_fees"`
	FundedProperties    int64             `json:"funded_properties"`
	OverviewInvestments []DailyInvestment `json:"overview_investments"`
	TopProperties       []PropertyTotal   `json:"top_properties"`
}

func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	// initialize slices to ensure empty arrays are returned (not null)
	stats.OverviewInvestments = make([]DailyInvestment, 0)
	stats.TopProperties = make([]PropertyTotal, 0)

	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.Investment{}).Count(&stats.TotalInvestments)
	db.Model(&models.Investment{}).Where("status = ?", models.StatusActive).Count(&stats.ActiveInvestments)
	db.Model(&models.Investment{}).Where("status = ?", models.StatusCancelRequested).Count(&stats.PendingCancels)
	db.Model(&models.Investment{}).Where("status = ?", models.StatusCanceled).Count(&stats.CanceledInvestments)

	db.Model(&models.Investment{}).
		Where("status <> ?", models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalInvested)
	db.Model(&models.Investment{}).
		Where("status <> ?", models.StatusCanceled).
		Select("COALESCE(SUM(fee), 0)").Scan(&stats.TotalFees)
	db.Model(&models.Investment{}).
		Where("status = ?", models.StatusCanceled).
		Select("COALESCE(SUM(retained_fee), 0)").Scan(&stats.RetainedFees)

	db.Model(&models.PropertyMeta{}).Count(&stats.FundedProperties)

	// Daily invested amounts over the trailing week.
	investMap := map[string]float64{}
	since := time.Now().AddDate(0, 0, -6).Truncate(24 * time.Hour)
	rows, err := db.Model(&models.Investment{}).
		Select("DATE(created_at) as day, COALESCE(SUM(amount), 0) as amount").
		Where("status <> ? AND created_at >= ?", models.StatusCanceled, since).
		Group("DATE(created_at)").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var amount float64
			if scanErr := rows.Scan(&day, &amount); scanErr == nil {
				investMap[day] = amount
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		stats.OverviewInvestments = append(stats.OverviewInvestments, DailyInvestment{Day: d, Amount: investMap[d]})
	}

	// Top five properties by live invested amount.
	topRows, err := db.Model(&models.Investment{}).
		Select("property_id, MAX(title) as title, COALESCE(SUM(amount), 0) as invested").
		Where("status <> ?", models.StatusCanceled).
		Group("property_id").
		Order("invested DESC").
		Limit(5).
		Rows()
	if err == nil {
		defer topRows.Close()
		for topRows.Next() {
			var pt PropertyTotal
			if scanErr := topRows.Scan(&pt.PropertyID, &pt.Title, &pt.Invested); scanErr == nil {
				stats.TopProperties = append(stats.TopProperties, pt)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: stats})
}
