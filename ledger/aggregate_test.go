package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarizeNeverReportsNegativeRemaining(t *testing.T) {
	sum := summarize(100000, 100000)
	require.Equal(t, 0.0, sum.Remaining)

	// Target zero or missing: percent must be 0, never a division by zero.
	sum = summarize(0, 5000)
	require.Equal(t, 0.0, sum.FundedPercent)
	require.Equal(t, 0.0, sum.Remaining)
}

func TestSummarizeRoundsToTwoDecimals(t *testing.T) {
	sum := summarize(300000, 100000)
	require.Equal(t, 33.33, sum.FundedPercent)

	sum = summarize(300000, 200000)
	require.Equal(t, 66.67, sum.FundedPercent)
}

func TestSummaryBatch(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 100000)
	seedTarget(t, s, "p2", 400000)

	_, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 25000})
	require.NoError(t, err)
	_, _, err = s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 25000})
	require.NoError(t, err)
	_, _, err = s.Admit(1, AdmitInput{PropertyID: "p2", Amount: 100000})
	require.NoError(t, err)

	batch, err := s.SummaryBatch([]string{"p1", "p2", "p3"})
	require.NoError(t, err)
	require.Len(t, batch, 3)

	require.Equal(t, 50000.0, batch["p1"].TotalInvested)
	require.Equal(t, 50.0, batch["p1"].FundedPercent)
	require.Equal(t, 100000.0, batch["p2"].TotalInvested)
	require.Equal(t, 25.0, batch["p2"].FundedPercent)

	// Untouched property: default target, nothing invested, nothing persisted.
	require.Equal(t, 0.0, batch["p3"].TotalInvested)
	require.Equal(t, float64(DefaultTarget), batch["p3"].TargetAmount)
}

func TestUserInvestedExcludesCanceled(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)
	_, _, err = s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 5000})
	require.NoError(t, err)
	_, _, err = s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 7000})
	require.NoError(t, err)

	total, err := s.UserInvested(1, "p1")
	require.NoError(t, err)
	require.Equal(t, 15000.0, total)

	_, _, err = s.Cancel(inv.ID, 1)
	require.NoError(t, err)

	total, err = s.UserInvested(1, "p1")
	require.NoError(t, err)
	require.Equal(t, 5000.0, total)
}
