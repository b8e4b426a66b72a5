package ledger

import (
	"testing"

	"project/models"

	"github.com/stretchr/testify/require"
)

func TestResolveTargetDefaults(t *testing.T) {
	s := newTestService(t)

	// No hint, no suggestion: flat default, persisted.
	target := s.ResolveTarget("p1", 0, 0)
	require.Equal(t, float64(DefaultTarget), target)

	var meta models.PropertyMeta
	require.NoError(t, s.db.Where("property_id = ?", "p1").First(&meta).Error)
	require.Equal(t, float64(DefaultTarget), meta.TargetAmount)
}

func TestResolveTargetPriceHint(t *testing.T) {
	s := newTestService(t)

	target := s.ResolveTarget("p1", 200000, 0)
	require.Equal(t, 240000.0, target)
}

func TestResolveTargetClientSuggestion(t *testing.T) {
	s := newTestService(t)

	// In range: honored at creation.
	target := s.ResolveTarget("p1", 0, 500000)
	require.Equal(t, 500000.0, target)

	// Out of range: fall back, do not fail.
	target = s.ResolveTarget("p2", 0, 5000000)
	require.Equal(t, float64(DefaultTarget), target)
	target = s.ResolveTarget("p3", 0, 1000)
	require.Equal(t, float64(DefaultTarget), target)
}

func TestResolveTargetStoredValueWins(t *testing.T) {
	s := newTestService(t)
	seedTarget(t, s, "p1", 300000)

	// Suggestions and hints are ignored once the meta row exists.
	require.Equal(t, 300000.0, s.ResolveTarget("p1", 999999, 500000))
	require.Equal(t, 300000.0, s.ResolveTarget("p1", 0, 0))
}

func TestResolveTargetSecondAccessDoesNotDuplicate(t *testing.T) {
	s := newTestService(t)

	require.Equal(t, float64(DefaultTarget), s.ResolveTarget("p1", 0, 0))
	require.Equal(t, float64(DefaultTarget), s.ResolveTarget("p1", 0, 777777))

	var count int64
	require.NoError(t, s.db.Model(&models.PropertyMeta{}).Where("property_id = ?", "p1").Count(&count).Error)
	require.Equal(t, int64(1), count)
}
