package models

import "time"

// Investment statuses. CANCELED is terminal; CANCEL_REQUESTED can go back to
// ACTIVE when an admin rejects the request.
const (
	StatusActive          = "ACTIVE"
	StatusCancelRequested = "CANCEL_REQUESTED"
	StatusCanceled        = "CANCELED"
)

type Investment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	PropertyID string `gorm:"type:varchar(191);not null;index" json:"property_id"`

	// Snapshot fields frozen at investment time for portfolio display.
	Title        string  `gorm:"size:255" json:"title"`
	City         string  `gorm:"size:100" json:"city"`
	ImageURL     string  `gorm:"size:512" json:"image_url"`
	TargetAmount float64 `gorm:"type:decimal(15,2);default:0" json:"target_amount"`

	Amount       float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Fee          float64 `gorm:"type:decimal(15,2);not null;default:0.00" json:"fee"`
	TotalCharged float64 `gorm:"type:decimal(15,2);not null;default:0.00" json:"total_charged"`

	PaymentMethod string `gorm:"size:20;default:card" json:"payment_method"`

	Status       string  `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	RefundAmount float64 `gorm:"type:decimal(15,2);default:0.00" json:"refund_amount"`
	RetainedFee  float64 `gorm:"type:decimal(15,2);default:0.00" json:"retained_fee"`

	CancelReason      string     `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelRequestedAt *time.Time `json:"cancel_requested_at,omitempty"`
	CancelReviewedAt  *time.Time `json:"cancel_reviewed_at,omitempty"`
	CancelReviewedBy  *int64     `json:"cancel_reviewed_by,omitempty"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}
