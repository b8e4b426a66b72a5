package ledger

import (
	"fmt"
	"math"

	"project/models"
	"project/utils"

	"gorm.io/gorm"
)

// FundingSummary is the derived funding view of a single property. It is
// recomputed from the ledger on every read; the funded percentage is rounded
// to two decimals and deliberately not clamped at 100 — admission control
// already guarantees the sum never exceeds the target.
type FundingSummary struct {
	TargetAmount  float64 `json:"target_amount"`
	TotalInvested float64 `json:"total_invested"`
	Remaining     float64 `json:"remaining"`
	FundedPercent float64 `json:"funded_percent"`
}

func summarize(target, invested float64) FundingSummary {
	sum := FundingSummary{
		TargetAmount:  target,
		TotalInvested: invested,
		Remaining:     math.Max(target-invested, 0),
	}
	if target > 0 {
		sum.FundedPercent = utils.RoundFloat(invested/target*100, 2)
	}
	return sum
}

// sumInvested totals the amounts of all non-canceled investments for one
// property inside the given transaction/session.
func sumInvested(tx *gorm.DB, propertyID string) (float64, error) {
	var total float64
	err := tx.Model(&models.Investment{}).
		Where("property_id = ? AND status <> ?", propertyID, models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// Summary computes the funding view for one property, resolving (and lazily
// creating) its target first.
func (s *Service) Summary(propertyID string) (FundingSummary, error) {
	target := s.ResolveTarget(propertyID, 0, 0)
	invested, err := sumInvested(s.db, propertyID)
	if err != nil {
		return FundingSummary{}, fmt.Errorf("aggregate invested for %s: %w", propertyID, err)
	}
	return summarize(target, invested), nil
}

// SummaryBatch computes funding views for many properties in one grouped sum
// query plus one meta lookup, for list views. Properties without a stored meta
// row are reported against the default target without persisting anything.
func (s *Service) SummaryBatch(propertyIDs []string) (map[string]FundingSummary, error) {
	out := make(map[string]FundingSummary, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return out, nil
	}

	type row struct {
		PropertyID string
		Invested   float64
	}
	var rows []row
	err := s.db.Model(&models.Investment{}).
		Where("property_id IN ? AND status <> ?", propertyIDs, models.StatusCanceled).
		Select("property_id, COALESCE(SUM(amount), 0) AS invested").
		Group("property_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate invested batch: %w", err)
	}
	investedBy := make(map[string]float64, len(rows))
	for _, r := range rows {
		investedBy[r.PropertyID] = r.Invested
	}

	var metas []models.PropertyMeta
	if err := s.db.Where("property_id IN ?", propertyIDs).Find(&metas).Error; err != nil {
		return nil, fmt.Errorf("load property metas: %w", err)
	}
	targetBy := make(map[string]float64, len(metas))
	for _, m := range metas {
		targetBy[m.PropertyID] = m.TargetAmount
	}

	for _, id := range propertyIDs {
		target, ok := targetBy[id]
		if !ok {
			target = DefaultTarget
		}
		out[id] = summarize(target, investedBy[id])
	}
	return out, nil
}

// UserTotal totals one user's non-canceled investments across all properties.
func (s *Service) UserTotal(userID uint) (float64, error) {
	var total float64
	err := s.db.Model(&models.Investment{}).
		Where("user_id = ? AND status <> ?", userID, models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("aggregate user total: %w", err)
	}
	return total, nil
}

// UserInvested totals one user's non-canceled investments in a property, for
// personalized views.
func (s *Service) UserInvested(userID uint, propertyID string) (float64, error) {
	var total float64
	err := s.db.Model(&models.Investment{}).
		Where("user_id = ? AND property_id = ? AND status <> ?", userID, propertyID, models.StatusCanceled).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("aggregate user invested: %w", err)
	}
	return total, nil
}
