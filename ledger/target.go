package ledger

import (
	"errors"
	"log"
	"math"

	"project/models"

	"gorm.io/gorm"
)

// fallbackTarget derives a funding goal when no meta row exists and the client
// suggested nothing usable: 120% of the catalog price when known, otherwise
// the flat default.
func fallbackTarget(priceHint float64) float64 {
	if priceHint > 0 && !math.IsInf(priceHint, 0) {
		return math.Round(priceHint * 1.2)
	}
	return DefaultTarget
}

// ResolveTarget returns the authoritative funding target for a property,
// creating the PropertyMeta row on first access.
//
// Once a meta row exists its TargetAmount always wins; a client-suggested
// value is only honored at creation time and only inside [MinTarget,
// MaxTarget]. Storage failures degrade to the computed fallback so a funding
// view can still be rendered; they are logged, never fatal.
func (s *Service) ResolveTarget(propertyID string, priceHint, suggested float64) float64 {
	var meta models.PropertyMeta
	err := s.db.Where("property_id = ?", propertyID).First(&meta).Error
	if err == nil {
		return meta.TargetAmount
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ledger] read meta for %s: %v", propertyID, err)
		return fallbackTarget(priceHint)
	}

	target := fallbackTarget(priceHint)
	if suggested != 0 {
		if suggested >= MinTarget && suggested <= MaxTarget {
			target = suggested
		} else {
			log.Printf("[ledger] suggested target %.2f for %s out of range [%d..%d], using %.2f",
				suggested, propertyID, MinTarget, MaxTarget, target)
		}
	}

	meta = models.PropertyMeta{PropertyID: propertyID, TargetAmount: target}
	if err := s.db.Create(&meta).Error; err != nil {
		// Unique index on property_id: a concurrent first access may have won
		// the create. Re-read and return the winner's value; any other create
		// failure degrades to the fallback.
		var winner models.PropertyMeta
		if rerr := s.db.Where("property_id = ?", propertyID).First(&winner).Error; rerr == nil {
			return winner.TargetAmount
		}
		log.Printf("[ledger] create meta for %s: %v", propertyID, err)
	}
	return target
}
