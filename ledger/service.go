package ledger

import (
	"os"
	"strconv"
	"sync"

	"project/database"

	"gorm.io/gorm"
)

const (
	// DefaultFeeRate is the surcharge applied on top of every investment
	// amount. The fee is charged to the user but never counts toward the
	// property's funding target, and is retained on cancellation.
	DefaultFeeRate = 0.01

	// DefaultTarget is the funding goal used when neither a stored meta row,
	// a client suggestion nor a price hint is available.
	DefaultTarget = 250000

	// Bounds for client-suggested targets at meta creation time.
	MinTarget = 120000
	MaxTarget = 1200000
)

// Service owns the investment ledger: target resolution, funding aggregation,
// admission control and the cancellation state machine. All monetary sums are
// derived from the investments table at read time, never cached.
type Service struct {
	db        *gorm.DB
	feeRate   float64
	minAmount float64

	// One mutex per property id. Admissions for the same property are
	// serialized so the read-sum-then-insert sequence cannot overshoot the
	// target; different properties never contend.
	locks sync.Map
}

// NewService builds a Service on the given DB handle. FEE_RATE and
// MIN_INVEST_AMOUNT are read from the environment; minimum amount 0 disables
// the minimum-amount policy.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:        db,
		feeRate:   envFloat("FEE_RATE", DefaultFeeRate),
		minAmount: envFloat("MIN_INVEST_AMOUNT", 0),
	}
}

var (
	defaultOnce sync.Once
	defaultSvc  *Service
)

// Default returns the process-wide Service bound to the shared DB handle.
// Connect must have run before the first call.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultSvc = NewService(database.DB)
	})
	return defaultSvc
}

func (s *Service) lockFor(propertyID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(propertyID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}
