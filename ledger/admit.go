package ledger

import (
	"fmt"
	"math"
	"strings"

	"project/models"

	"gorm.io/gorm"
)

// AdmitInput carries a funding request plus the display snapshot the client
// saw. SuggestedTarget and PriceHint only matter on first access to a
// property; once a meta row exists they are ignored.
type AdmitInput struct {
	PropertyID      string
	Amount          float64
	SuggestedTarget float64
	PriceHint       float64
	Title           string
	City            string
	ImageURL        string
	PaymentMethod   string
}

// Admit validates a funding request against the property's remaining capacity
// and, on success, appends an ACTIVE ledger entry and returns it together with
// the post-insert funding view.
//
// The sum-check-insert sequence runs under the property's admission lock and a
// storage transaction, so two concurrent admissions can never both consume the
// same remaining capacity.
func (s *Service) Admit(userID uint, in AdmitInput) (*models.Investment, FundingSummary, error) {
	propertyID := strings.TrimSpace(in.PropertyID)
	// Clients that serialize an unset value send the literal string
	// "undefined"; it must never become a grouping key.
	if propertyID == "" || propertyID == "undefined" {
		return nil, FundingSummary{}, &ValidationError{Field: "propertyId", Reason: "is required"}
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return nil, FundingSummary{}, &ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	if s.minAmount > 0 && in.Amount < s.minAmount {
		return nil, FundingSummary{}, &ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("must be at least %.0f", s.minAmount),
		}
	}

	target := s.ResolveTarget(propertyID, in.PriceHint, in.SuggestedTarget)

	mu := s.lockFor(propertyID)
	mu.Lock()
	defer mu.Unlock()

	var inv models.Investment
	var summary FundingSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		invested, err := sumInvested(tx, propertyID)
		if err != nil {
			return fmt.Errorf("aggregate invested for %s: %w", propertyID, err)
		}
		remaining := target - invested
		if remaining <= 0 {
			return &CapacityError{
				TargetAmount:  target,
				TotalInvested: invested,
				FullyFunded:   true,
			}
		}
		if in.Amount > remaining {
			return &CapacityError{
				TargetAmount:  target,
				TotalInvested: invested,
				Remaining:     remaining,
			}
		}

		fee := math.Round(in.Amount * s.feeRate)
		method := strings.TrimSpace(in.PaymentMethod)
		if method == "" {
			method = "card"
		}
		inv = models.Investment{
			UserID:        userID,
			PropertyID:    propertyID,
			Title:         in.Title,
			City:          in.City,
			ImageURL:      in.ImageURL,
			TargetAmount:  target,
			Amount:        in.Amount,
			Fee:           fee,
			TotalCharged:  in.Amount + fee,
			PaymentMethod: method,
			Status:        models.StatusActive,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("create investment: %w", err)
		}

		// Recompute inside the transaction so the caller sees the
		// post-insert view, not the stale pre-insert one.
		updated, err := sumInvested(tx, propertyID)
		if err != nil {
			return fmt.Errorf("aggregate invested after insert: %w", err)
		}
		summary = summarize(target, updated)
		return nil
	})
	if err != nil {
		return nil, FundingSummary{}, err
	}
	return &inv, summary, nil
}
