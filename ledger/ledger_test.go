package ledger

import (
	"fmt"
	"strings"
	"testing"

	"project/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService builds a Service on a private in-memory database. A single
// connection keeps SQLite honest about transaction ordering.
func newTestService(t *testing.T) *Service {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.PropertyMeta{}, &models.Investment{}))
	return &Service{db: db, feeRate: DefaultFeeRate}
}

func seedTarget(t *testing.T, s *Service, propertyID string, target float64) {
	t.Helper()
	require.NoError(t, s.db.Create(&models.PropertyMeta{
		PropertyID:   propertyID,
		TargetAmount: target,
	}).Error)
}

func TestAdmitFeeMath(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 300000)

	inv, summary, err := s.Admit(7, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)
	require.Equal(t, 100.0, inv.Fee)
	require.Equal(t, 10100.0, inv.TotalCharged)
	require.Equal(t, models.StatusActive, inv.Status)
	require.Equal(t, 10000.0, summary.TotalInvested)
	require.Equal(t, 290000.0, summary.Remaining)
}

func TestAdmitRejectsMissingPropertyID(t *testing.T) {
	s := newTestService(t)

	for _, pid := range []string{"", "  ", "undefined"} {
		_, _, err := s.Admit(1, AdmitInput{PropertyID: pid, Amount: 5000})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "propertyId %q must be rejected", pid)
		require.Equal(t, "propertyId", verr.Field)
	}
}

func TestAdmitRejectsNonPositiveAmount(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 250000)

	for _, amount := range []float64{0, -1000} {
		_, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: amount})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "amount", verr.Field)
	}
}

func TestAdmitMinimumAmountPolicy(t *testing.T) {
	s := newTestService(t)
	s.minAmount = 2000
	seedTarget(t, s, "p1", 250000)

	_, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 1500})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, _, err = s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 2000})
	require.NoError(t, err)
}

func TestAdmitCapacity(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 100000)

	_, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 90000})
	require.NoError(t, err)

	// 15,000 does not fit the remaining 10,000 and the rejection must say so.
	_, _, err = s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 15000})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.False(t, capErr.FullyFunded)
	require.Equal(t, 10000.0, capErr.Remaining)
	require.Equal(t, 100000.0, capErr.TargetAmount)
	require.Equal(t, 90000.0, capErr.TotalInvested)

	// Exactly the remaining amount closes the property.
	_, summary, err := s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.Remaining)
	require.Equal(t, 100.0, summary.FundedPercent)

	_, _, err = s.Admit(3, AdmitInput{PropertyID: "p1", Amount: 1})
	require.ErrorAs(t, err, &capErr)
	require.True(t, capErr.FullyFunded)
}

func TestAdmitConcurrentSingleWinner(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 100000)

	type result struct {
		err error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		userID := uint(i + 1)
		go func() {
			_, _, err := s.Admit(userID, AdmitInput{PropertyID: "p1", Amount: 60000})
			results <- result{err: err}
		}()
	}

	var successes, capacityRejections int
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err == nil {
			successes++
			continue
		}
		var capErr *CapacityError
		require.ErrorAs(t, r.err, &capErr)
		capacityRejections++
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, capacityRejections)

	// Conservation: the ledger never overshoots the target.
	summary, err := s.Summary("p1")
	require.NoError(t, err)
	require.Equal(t, 60000.0, summary.TotalInvested)
	require.LessOrEqual(t, summary.TotalInvested, summary.TargetAmount)
}

func TestAdmitTargetImmutableAfterCreation(t *testing.T) {
	s := newTestService(t)

	// First access creates the meta row from the client suggestion.
	_, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 1000, SuggestedTarget: 300000})
	require.NoError(t, err)

	// A later suggestion must not move the stored target.
	_, summary, err := s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 1000, SuggestedTarget: 500000})
	require.NoError(t, err)
	require.Equal(t, 300000.0, summary.TargetAmount)

	var meta models.PropertyMeta
	require.NoError(t, s.db.Where("property_id = ?", "p1").First(&meta).Error)
	require.Equal(t, 300000.0, meta.TargetAmount)
}
