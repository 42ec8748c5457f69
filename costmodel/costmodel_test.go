package costmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/costmodel"
)

func TestEvalAddSubLess(t *testing.T) {
	a := costmodel.Eval{Cost: 100, Duration: 10, Distance: 5, TaskDuration: 1}
	b := costmodel.Eval{Cost: 40, Duration: 4, Distance: 2, TaskDuration: 0}

	require.Equal(t, costmodel.Eval{Cost: 140, Duration: 14, Distance: 7, TaskDuration: 1}, a.Add(b))
	require.Equal(t, costmodel.Eval{Cost: 60, Duration: 6, Distance: 3, TaskDuration: 1}, a.Sub(b))
	require.True(t, b.Less(a))
	require.False(t, a.Less(b))
}

func TestGainOfAndImproves(t *testing.T) {
	oldEval := costmodel.Eval{Cost: 100}
	newEval := costmodel.Eval{Cost: 80}
	g := costmodel.GainOf(oldEval, newEval)
	require.Equal(t, int64(20), g.Cost)
	require.True(t, g.Improves())

	g2 := costmodel.GainOf(newEval, oldEval)
	require.False(t, g2.Improves())
}

func TestNewWrapperRejectsNonPositiveSpeed(t *testing.T) {
	_, err := costmodel.NewWrapper(0, costmodel.CostSchedule{})
	require.ErrorIs(t, err, costmodel.ErrNegativeSpeedFactor)
}

func TestMetricDerivedEdgeCost(t *testing.T) {
	w, err := costmodel.NewWrapper(1.0, costmodel.CostSchedule{PerHour: 2, PerKm: 3})
	require.NoError(t, err)

	got := w.EdgeCost(10, 4, 0)
	require.Equal(t, int64(2*10+3*4), got)
}

func TestUserSuppliedEdgeCostIgnoresSchedule(t *testing.T) {
	w, err := costmodel.NewUserSuppliedWrapper(1.0, 500)
	require.NoError(t, err)

	require.Equal(t, int64(777), w.EdgeCost(10, 4, 777))
	require.Equal(t, int64(500), w.FixedCost())
}

func TestScaledDurationUsesSpeedFactor(t *testing.T) {
	w, err := costmodel.NewWrapper(2.0, costmodel.CostSchedule{})
	require.NoError(t, err)
	require.Equal(t, int64(50), w.ScaledDuration(100))
}

func TestEquivalentHomogeneousCosts(t *testing.T) {
	a, _ := costmodel.NewWrapper(1.0, costmodel.CostSchedule{PerHour: 2, PerKm: 3})
	b, _ := costmodel.NewWrapper(1.0, costmodel.CostSchedule{PerHour: 2, PerKm: 3, Fixed: 999})
	c, _ := costmodel.NewWrapper(1.0, costmodel.CostSchedule{PerHour: 5, PerKm: 3})

	require.True(t, a.Equivalent(b), "fixed cost must not affect homogeneity")
	require.False(t, a.Equivalent(c))
}

func TestToInternalToUserRoundTrip(t *testing.T) {
	internal := costmodel.ToInternal(12.345)
	require.InDelta(t, 12.345, costmodel.ToUser(internal), 1e-3)
}
