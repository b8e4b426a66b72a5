package users

import (
	"net/http"
	"strconv"

	"project/ledger"
	"project/models"
	"project/utils"
)

// holding is one property position aggregated from the user's ledger entries.
type holding struct {
	PropertyID    string                `json:"property_id"`
	Title         string                `json:"title"`
	City          string                `json:"city"`
	ImageURL      string                `json:"image_url"`
	TotalAmount   float64               `json:"total_amount"`
	TotalFee      float64               `json:"total_fee"`
	Investments   int                   `json:"investments"`
	PendingCancel int                   `json:"pending_cancel"`
	Funding       ledger.FundingSummary `json:"funding"`
}

// GET /api/users/portfolio
func PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	svc := ledger.Default()

	rows, err := svc.List(ledger.Filter{UserID: uid})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	byProperty := make(map[string]*holding)
	order := make([]string, 0)
	var totalInvested float64
	for _, inv := range rows {
		if inv.Status == models.StatusCanceled {
			continue
		}
		h, ok := byProperty[inv.PropertyID]
		if !ok {
			h = &holding{
				PropertyID: inv.PropertyID,
				Title:      inv.Title,
				City:       inv.City,
				ImageURL:   inv.ImageURL,
			}
			byProperty[inv.PropertyID] = h
			order = append(order, inv.PropertyID)
		}
		h.TotalAmount += inv.Amount
		h.TotalFee += inv.Fee
		h.Investments++
		if inv.Status == models.StatusCancelRequested {
			h.PendingCancel++
		}
		totalInvested += inv.Amount
	}

	// One grouped query for the funding state of every held property.
	ids := make([]string, 0, len(order))
	ids = append(ids, order...)
	summaries, err := svc.SummaryBatch(ids)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	holdings := make([]holding, 0, len(order))
	for _, id := range order {
		h := byProperty[id]
		if s, ok := summaries[id]; ok {
			h.Funding = s
		}
		holdings = append(holdings, *h)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_invested": utils.RoundFloat(totalInvested, 2),
			"properties":     len(holdings),
			"holdings":       holdings,
		},
	})
}

// GET /api/users/investments/recent
func RecentInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = 5
	}

	rows, err := ledger.Default().List(ledger.Filter{UserID: uid})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	recent := make([]models.Investment, 0, limit)
	for _, inv := range rows {
		if inv.Status == models.StatusCanceled {
			continue
		}
		recent = append(recent, inv)
		if len(recent) == limit {
			break
		}
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: recent})
}
