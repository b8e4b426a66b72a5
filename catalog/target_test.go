package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateTargetDeterministic(t *testing.T) {
	p := Property{ID: "abc-123", LivingSize: 1200, YearBuilt: 2015}
	first := EstimateTarget(p)
	require.Equal(t, first, EstimateTarget(p))

	// Different ids perturb equally sized listings.
	other := Property{ID: "xyz-789", LivingSize: 1200, YearBuilt: 2015}
	require.NotEqual(t, first, EstimateTarget(other))
}

func TestEstimateTargetBounds(t *testing.T) {
	tiny := EstimateTarget(Property{ID: "t", LivingSize: 10})
	require.GreaterOrEqual(t, tiny, 120000.0)

	huge := EstimateTarget(Property{ID: "h", LivingSize: 100000, YearBuilt: 2020})
	require.LessOrEqual(t, huge, 1200000.0)
}

func TestEstimateTargetRoundsToFiveThousand(t *testing.T) {
	for _, p := range []Property{
		{ID: "a", LivingSize: 731, YearBuilt: 1995},
		{ID: "b", LivingSize: 1444, YearBuilt: 2012},
		{ID: "c"},
	} {
		target := EstimateTarget(p)
		require.Equal(t, 0.0, math.Mod(target, 5000), "target %v not a 5,000 multiple", target)
	}
}

func TestEstimateTargetAgeBonus(t *testing.T) {
	base := Property{ID: "same", LivingSize: 800}
	old := base
	old.YearBuilt = 1960
	mid := base
	mid.YearBuilt = 1990
	modern := base
	modern.YearBuilt = 2015

	require.LessOrEqual(t, EstimateTarget(old), EstimateTarget(mid))
	require.LessOrEqual(t, EstimateTarget(mid), EstimateTarget(modern))
}
