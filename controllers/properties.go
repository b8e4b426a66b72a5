package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"project/catalog"
	"project/ledger"
	"project/utils"

	"github.com/gorilla/mux"
)

var (
	catalogOnce   sync.Once
	catalogClient *catalog.Client
)

func catalogDefault() *catalog.Client {
	catalogOnce.Do(func() {
		httpClient := &http.Client{Timeout: 15 * time.Second}
		catalogClient = catalog.NewClient(httpClient, catalog.NewCache(30*time.Second))
	})
	return catalogClient
}

// propertyView is one catalog record enriched with its live funding state.
type propertyView struct {
	catalog.Property
	EstimatedTarget float64               `json:"estimatedTarget"`
	Funding         ledger.FundingSummary `json:"funding"`
}

func parsePrice(q string) float64 {
	if q == "" {
		return -1
	}
	v, err := strconv.ParseFloat(q, 64)
	if err != nil || v < 0 {
		return -1
	}
	return v
}

// GET /api/properties
// Lists catalog records with funding summaries resolved in one grouped query,
// never one query per row.
func ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := catalogDefault().Search(r.Context(), catalog.Query{
		Page:     page,
		Limit:    limit,
		Q:        q.Get("q"),
		City:     q.Get("city"),
		Type:     q.Get("type"),
		MinPrice: parsePrice(q.Get("minPrice")),
		MaxPrice: parsePrice(q.Get("maxPrice")),
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Property catalog is unavailable"})
		return
	}

	ids := make([]string, 0, len(result.Properties))
	for _, p := range result.Properties {
		ids = append(ids, p.ID)
	}
	summaries, err := ledger.Default().SummaryBatch(ids)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	views := make([]propertyView, 0, len(result.Properties))
	for _, p := range result.Properties {
		views = append(views, propertyView{
			Property:        p,
			EstimatedTarget: catalog.EstimateTarget(p),
			Funding:         summaries[p.ID],
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"pages":      result.Pages,
			"properties": views,
		},
	})
}

// GET /api/properties/{id}/funding
// Public funding view for a single property. When the request carries a valid
// bearer token the caller's own stake is included.
func PropertyFundingHandler(w http.ResponseWriter, r *http.Request) {
	propertyID := strings.TrimSpace(mux.Vars(r)["id"])
	if propertyID == "" || propertyID == "undefined" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "propertyId is required"})
		return
	}

	summary, err := ledger.Default().Summary(propertyID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	data := map[string]interface{}{
		"property_id": propertyID,
		"funding":     summary,
	}
	if uid, ok := utils.GetUserID(r); ok && uid != 0 {
		mine, err := ledger.Default().UserInvested(uid, propertyID)
		if err == nil {
			data["my_invested"] = utils.RoundFloat(mine, 2)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}
