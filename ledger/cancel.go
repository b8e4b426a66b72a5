package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"project/models"

	"gorm.io/gorm"
)

// Review decisions accepted by ReviewCancel.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

func (s *Service) findOwned(id, userID uint) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load investment %d: %w", id, err)
	}
	return &inv, nil
}

// Get returns a single ledger entry owned by the user.
func (s *Service) Get(id, userID uint) (*models.Investment, error) {
	return s.findOwned(id, userID)
}

// Cancel moves an investment directly to CANCELED. Only the owning user may
// cancel, and canceling an already-canceled investment returns the existing
// record unchanged. The fee is retained: refund = amount - fee.
func (s *Service) Cancel(id, userID uint) (*models.Investment, FundingSummary, error) {
	inv, err := s.findOwned(id, userID)
	if err != nil {
		return nil, FundingSummary{}, err
	}

	if inv.Status != models.StatusCanceled {
		now := time.Now()
		updates := map[string]interface{}{
			"status":        models.StatusCanceled,
			"refund_amount": math.Max(inv.Amount-inv.Fee, 0),
			"retained_fee":  inv.Fee,
			"canceled_at":   now,
		}
		if err := s.db.Model(inv).Updates(updates).Error; err != nil {
			return nil, FundingSummary{}, fmt.Errorf("cancel investment %d: %w", id, err)
		}
		if err := s.db.First(inv, inv.ID).Error; err != nil {
			return nil, FundingSummary{}, fmt.Errorf("reload investment %d: %w", id, err)
		}
	}

	// The canceled amount leaves the funding sum immediately.
	summary, err := s.Summary(inv.PropertyID)
	if err != nil {
		return nil, FundingSummary{}, err
	}
	return inv, summary, nil
}

// RequestCancel marks an ACTIVE investment as CANCEL_REQUESTED for admin
// review. Re-requesting a pending cancellation is a no-op; a canceled
// investment cannot be requested again.
func (s *Service) RequestCancel(id, userID uint, reason string) (*models.Investment, error) {
	inv, err := s.findOwned(id, userID)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.StatusCancelRequested:
		return inv, nil
	case models.StatusCanceled:
		return nil, &InvalidTransitionError{Status: inv.Status, Action: "request cancellation of"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":              models.StatusCancelRequested,
		"cancel_reason":       reason,
		"cancel_requested_at": now,
	}
	if err := s.db.Model(inv).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("request cancel for investment %d: %w", id, err)
	}
	if err := s.db.First(inv, inv.ID).Error; err != nil {
		return nil, fmt.Errorf("reload investment %d: %w", id, err)
	}
	return inv, nil
}

// ReviewCancel resolves a pending cancellation request. Approval applies the
// same refund accounting as a direct cancel; rejection returns the investment
// to ACTIVE with no financial side effects. Reviewing an investment that is
// not in CANCEL_REQUESTED is an error, not a silent no-op.
func (s *Service) ReviewCancel(id uint, adminID int64, decision string) (*models.Investment, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, &ValidationError{Field: "action", Reason: "must be 'approve' or 'reject'"}
	}

	var inv models.Investment
	if err := s.db.First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load investment %d: %w", id, err)
	}
	if inv.Status != models.StatusCancelRequested {
		return nil, &InvalidTransitionError{Status: inv.Status, Action: "review"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"cancel_reviewed_at": now,
		"cancel_reviewed_by": adminID,
	}
	if decision == DecisionApprove {
		updates["status"] = models.StatusCanceled
		updates["refund_amount"] = math.Max(inv.Amount-inv.Fee, 0)
		updates["retained_fee"] = inv.Fee
		updates["canceled_at"] = now
	} else {
		updates["status"] = models.StatusActive
	}
	if err := s.db.Model(&inv).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("review cancel for investment %d: %w", id, err)
	}
	if err := s.db.First(&inv, inv.ID).Error; err != nil {
		return nil, fmt.Errorf("reload investment %d: %w", id, err)
	}
	return &inv, nil
}

// Delete hard-removes a ledger entry. Status transitions are preferred so the
// audit history survives; deletion is only allowed once the record is CANCELED
// and therefore no longer contributes to any funding sum.
func (s *Service) Delete(id, userID uint) error {
	inv, err := s.findOwned(id, userID)
	if err != nil {
		return err
	}
	if inv.Status != models.StatusCanceled {
		return &InvalidTransitionError{Status: inv.Status, Action: "delete"}
	}
	if err := s.db.Delete(inv).Error; err != nil {
		return fmt.Errorf("delete investment %d: %w", id, err)
	}
	return nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	UserID     uint
	PropertyID string
	Status     string
}

// List returns ledger entries newest first.
func (s *Service) List(f Filter) ([]models.Investment, error) {
	q := s.db.Model(&models.Investment{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.PropertyID != "" {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []models.Investment
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return rows, nil
}
