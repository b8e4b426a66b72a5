package users

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"project/ledger"
	"project/utils"

	"github.com/gorilla/mux"
)

type CreateInvestmentRequest struct {
	PropertyID      string  `json:"propertyId"`
	Amount          float64 `json:"amount"`
	SuggestedTarget float64 `json:"suggestedTarget"`
	PriceHint       float64 `json:"priceHint"`
	Title           string  `json:"title"`
	City            string  `json:"city"`
	ImageURL        string  `json:"imageUrl"`
	PaymentMethod   string  `json:"paymentMethod"`
}

// writeLedgerError maps ledger error types onto HTTP responses so every
// handler reports admission and transition failures the same way.
func writeLedgerError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	if errors.As(err, &vErr) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: vErr.Error()})
		return
	}
	var cErr *ledger.CapacityError
	if errors.As(err, &cErr) {
		msg := "Investment exceeds the remaining funding capacity"
		if cErr.FullyFunded {
			msg = "Property is fully funded"
		}
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false,
			Message: msg,
			Data: map[string]interface{}{
				"target_amount":  cErr.TargetAmount,
				"total_invested": cErr.TotalInvested,
				"remaining":      cErr.Remaining,
				"fully_funded":   cErr.FullyFunded,
			},
		})
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

// POST /api/users/investments
func CreateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	inv, summary, err := ledger.Default().Admit(uid, ledger.AdmitInput{
		PropertyID:      req.PropertyID,
		Amount:          req.Amount,
		SuggestedTarget: req.SuggestedTarget,
		PriceHint:       req.PriceHint,
		Title:           req.Title,
		City:            req.City,
		ImageURL:        req.ImageURL,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investment created",
		Data: map[string]interface{}{
			"investment": inv,
			"funding":    summary,
		},
	})
}

// GET /api/users/investments
func ListInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	rows, err := ledger.Default().List(ledger.Filter{
		UserID:     uid,
		PropertyID: strings.TrimSpace(r.URL.Query().Get("propertyId")),
		Status:     strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))),
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	totalRows := len(rows)
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit
	if offset > totalRows {
		offset = totalRows
	}
	end := offset + limit
	if end > totalRows {
		end = totalRows
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": rows[offset:end],
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /api/users/investments/{id}
func GetInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	inv, err := ledger.Default().Get(id, uid)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	summary, err := ledger.Default().Summary(inv.PropertyID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: map[string]interface{}{
		"investment": inv,
		"funding":    summary,
	}})
}

// POST /api/users/investments/{id}/cancel
func CancelInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	inv, summary, err := ledger.Default().Cancel(id, uid)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Investment canceled",
		Data: map[string]interface{}{
			"investment": inv,
			"funding":    summary,
			"refund": map[string]interface{}{
				"refund_amount": inv.RefundAmount,
				"retained_fee":  inv.RetainedFee,
			},
		},
	})
}

type RequestCancelBody struct {
	Reason string `json:"reason"`
}

// POST /api/users/investments/{id}/request-cancel
func RequestCancelHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	var body RequestCancelBody
	_ = json.NewDecoder(r.Body).Decode(&body)

	inv, err := ledger.Default().RequestCancel(id, uid, strings.TrimSpace(body.Reason))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Cancellation requested", Data: inv})
}

// DELETE /api/users/investments/{id}
func DeleteInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid id"})
		return
	}

	if err := ledger.Default().Delete(id, uid); err != nil {
		writeLedgerError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Investment deleted"})
}

func pathID(r *http.Request) (uint, bool) {
	idStr := mux.Vars(r)["id"]
	id64, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
