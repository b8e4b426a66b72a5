package models

import "time"

// PropertyMeta carries the funding target for a catalog property. Funding state
// itself is never stored here; it is derived from the investments table.
// Created lazily on first reference, after which TargetAmount is authoritative.
type PropertyMeta struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PropertyID   string  `gorm:"type:varchar(191);not null;uniqueIndex" json:"property_id"`
	TargetAmount float64 `gorm:"type:decimal(15,2);not null;default:250000" json:"target_amount"`
	ImageURL     *string `gorm:"size:512" json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PropertyMeta) TableName() string {
	return "property_metas"
}
