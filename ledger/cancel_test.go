package ledger

import (
	"testing"

	"project/models"

	"github.com/stretchr/testify/require"
)

func TestCancelExcludesFromSumAndIsIdempotent(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)
	_, _, err = s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 40000})
	require.NoError(t, err)

	canceled, summary, err := s.Cancel(inv.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.StatusCanceled, canceled.Status)
	require.Equal(t, 9900.0, canceled.RefundAmount)
	require.Equal(t, 100.0, canceled.RetainedFee)
	require.NotNil(t, canceled.CanceledAt)
	// The canceled amount left the sum immediately.
	require.Equal(t, 40000.0, summary.TotalInvested)

	// Repeating the cancel returns the record unchanged.
	firstCanceledAt := *canceled.CanceledAt
	again, summary, err := s.Cancel(inv.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.StatusCanceled, again.Status)
	require.Equal(t, firstCanceledAt.Unix(), again.CanceledAt.Unix())
	require.Equal(t, 40000.0, summary.TotalInvested)
}

func TestCancelOwnershipRequired(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)

	_, _, err = s.Cancel(inv.ID, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCanceledAmountFreesCapacity(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 100000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 100000})
	require.NoError(t, err)

	_, _, err = s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 5000})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.True(t, capErr.FullyFunded)

	_, _, err = s.Cancel(inv.ID, 1)
	require.NoError(t, err)

	_, summary, err := s.Admit(2, AdmitInput{PropertyID: "p1", Amount: 5000})
	require.NoError(t, err)
	require.Equal(t, 5000.0, summary.TotalInvested)
}

func TestRequestAndReviewCancel(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)

	requested, err := s.RequestCancel(inv.ID, 1, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelRequested, requested.Status)

	// A pending request still counts toward the funding sum.
	summary, err := s.Summary("p1")
	require.NoError(t, err)
	require.Equal(t, 10000.0, summary.TotalInvested)

	// Re-requesting is a no-op, not an error.
	_, err = s.RequestCancel(inv.ID, 1, "still sure")
	require.NoError(t, err)

	approved, err := s.ReviewCancel(inv.ID, 42, DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, models.StatusCanceled, approved.Status)
	require.Equal(t, 9900.0, approved.RefundAmount)
	require.Equal(t, 100.0, approved.RetainedFee)
	require.NotNil(t, approved.CancelReviewedAt)
	require.Equal(t, int64(42), *approved.CancelReviewedBy)

	summary, err = s.Summary("p1")
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.TotalInvested)
}

func TestReviewRejectRestoresActive(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)
	_, err = s.RequestCancel(inv.ID, 1, "second thoughts")
	require.NoError(t, err)

	rejected, err := s.ReviewCancel(inv.ID, 42, DecisionReject)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, rejected.Status)
	// No financial side effects on rejection.
	require.Equal(t, 0.0, rejected.RefundAmount)
	require.Equal(t, 0.0, rejected.RetainedFee)
	require.Nil(t, rejected.CanceledAt)
}

func TestReviewRequiresPendingRequest(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)

	_, err = s.ReviewCancel(inv.ID, 42, DecisionApprove)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	require.Equal(t, models.StatusActive, transErr.Status)

	_, err = s.ReviewCancel(inv.ID, 42, "archive")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.ReviewCancel(9999, 42, DecisionApprove)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOnlyCanceledRecords(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 200000)

	inv, _, err := s.Admit(1, AdmitInput{PropertyID: "p1", Amount: 10000})
	require.NoError(t, err)

	err = s.Delete(inv.ID, 1)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)

	_, _, err = s.Cancel(inv.ID, 1)
	require.NoError(t, err)
	require.NoError(t, s.Delete(inv.ID, 1))
	require.ErrorIs(t, s.Delete(inv.ID, 1), ErrNotFound)
}
