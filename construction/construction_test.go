package construction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vrpsolve/amount"
	"github.com/katalvlaran/vrpsolve/construction"
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/matrices"
	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

func denseOf(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	n := len(rows)
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := range rows {
		for j := range rows[i] {
			require.NoError(t, m.Set(i, j, rows[i][j]))
		}
	}

	return m
}

func wideTW() []vrp.TimeWindow { return []vrp.TimeWindow{{Start: 0, End: 1 << 50}} }

func depotVehicle(id string, capacity int64, skills ...int) vrp.Vehicle {
	depot := vrp.Location{Index: 0}

	return vrp.Vehicle{
		ID: id, Profile: "car", Start: &depot, End: &depot,
		Capacity:     amount.New(capacity),
		Skills:       vrp.NewSkillSet(skills...),
		Availability: vrp.TimeWindow{Start: 0, End: 1 << 50},
		SpeedFactor:  1,
		Costs:        vrp.CostSchedule{PerHour: 1},
	}
}

func scenarioOneProblem(t *testing.T) *solutionstate.Problem {
	t.Helper()
	table := [][]float64{
		{0, 10, 20},
		{10, 0, 15},
		{20, 15, 0},
	}
	set := matrices.NewSet()
	require.NoError(t, set.Register("car", denseOf(t, table), denseOf(t, table), nil))

	jobs := []vrp.Job{
		{ID: "1", Type: vrp.Single, Location: vrp.Location{Index: 1}, DeliveryAmount: amount.New(5), TimeWindows: wideTW(), PairRank: -1},
		{ID: "2", Type: vrp.Single, Location: vrp.Location{Index: 2}, DeliveryAmount: amount.New(5), TimeWindows: wideTW(), PairRank: -1},
	}
	p, err := solutionstate.NewProblem(jobs, []vrp.Vehicle{depotVehicle("v1", 10)}, set)
	require.NoError(t, err)

	return p
}

func TestBasicAssignsBothJobsAtCost45(t *testing.T) {
	p := scenarioOneProblem(t)
	s := solutionstate.NewSolution(p)

	eval := construction.Basic(p, s, construction.VehicleOrder(p, construction.SortAvailability), construction.InitNone, 0)

	require.Empty(t, s.Unassigned)
	require.Equal(t, 45.0, costmodel.ToUser(eval.Cost))
	ranks := s.Routes[0].RouteRanks()
	require.Len(t, ranks, 2)
	// Either visiting order closes the same symmetric triangle.
	require.ElementsMatch(t, []int{0, 1}, ranks)
}

func TestHeuristicsNeverFailOnImpossibleJob(t *testing.T) {
	p := scenarioOneProblem(t)
	p.Jobs[1].Skills = vrp.NewSkillSet(99) // nobody has skill 99
	s := solutionstate.NewSolution(p)

	construction.Basic(p, s, construction.VehicleOrder(p, construction.SortAvailability), construction.InitNone, 0)

	require.Contains(t, s.Unassigned, 1)
	require.NotContains(t, s.Unassigned, 0)
}

func TestPickupDeliveryInsertedTogether(t *testing.T) {
	table := [][]float64{
		{0, 10, 10},
		{10, 0, 5},
		{10, 5, 0},
	}
	set := matrices.NewSet()
	require.NoError(t, set.Register("car", denseOf(t, table), denseOf(t, table), nil))
	jobs := []vrp.Job{
		{ID: "p", Type: vrp.Pickup, Location: vrp.Location{Index: 1}, PickupAmount: amount.New(1), TimeWindows: wideTW(), PairRank: 1},
		{ID: "d", Type: vrp.Delivery, Location: vrp.Location{Index: 2}, DeliveryAmount: amount.New(1), TimeWindows: wideTW(), PairRank: 0},
	}
	p, err := solutionstate.NewProblem(jobs, []vrp.Vehicle{depotVehicle("v1", 1)}, set)
	require.NoError(t, err)
	s := solutionstate.NewSolution(p)

	construction.Basic(p, s, []int{0}, construction.InitNone, 0)

	require.Empty(t, s.Unassigned)
	require.Equal(t, []int{0, 1}, s.Routes[0].RouteRanks())
}

func TestVehicleOrderByCostPrefersCheaperFixed(t *testing.T) {
	table := [][]float64{{0, 1}, {1, 0}}
	set := matrices.NewSet()
	require.NoError(t, set.Register("car", denseOf(t, table), denseOf(t, table), nil))

	expensive := depotVehicle("v0", 10)
	expensive.Costs.Fixed = 1000
	cheap := depotVehicle("v1", 10)

	jobs := []vrp.Job{{ID: "1", Type: vrp.Single, Location: vrp.Location{Index: 1}, TimeWindows: wideTW(), PairRank: -1}}
	p, err := solutionstate.NewProblem(jobs, []vrp.Vehicle{expensive, cheap}, set)
	require.NoError(t, err)

	order := construction.VehicleOrder(p, construction.SortCost)
	require.Equal(t, []int{1, 0}, order)
}

func TestUserStepsSeedRoute(t *testing.T) {
	p := scenarioOneProblem(t)
	p.Vehicles[0].Steps = []string{"2", "1"}
	s := solutionstate.NewSolution(p)

	construction.Basic(p, s, []int{0}, construction.InitNone, 0)

	require.Equal(t, []int{1, 0}, s.Routes[0].RouteRanks())
	require.Empty(t, s.Unassigned)
}

func TestSeedStrategiesStillCoverAllJobs(t *testing.T) {
	strategies := []construction.InitStrategy{
		construction.InitHigherAmount,
		construction.InitEarliestDeadline,
		construction.InitFurthest,
		construction.InitNearest,
	}
	for _, init := range strategies {
		p := scenarioOneProblem(t)
		s := solutionstate.NewSolution(p)
		construction.Basic(p, s, []int{0}, init, 0.5)
		require.Empty(t, s.Unassigned, "init strategy %v left jobs behind", init)
	}
}

func TestDynamicVehicleChoiceCoversJobs(t *testing.T) {
	p := scenarioOneProblem(t)
	s := solutionstate.NewSolution(p)

	construction.DynamicVehicleChoice(p, s, []int{0}, construction.InitNone, 0.5)
	require.Empty(t, s.Unassigned)
}

func TestSkillFeasibilityBound(t *testing.T) {
	table := [][]float64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	}
	set := matrices.NewSet()
	require.NoError(t, set.Register("car", denseOf(t, table), denseOf(t, table), nil))

	jobs := []vrp.Job{
		{ID: "1", Type: vrp.Single, Location: vrp.Location{Index: 1}, Skills: vrp.NewSkillSet(1), TimeWindows: wideTW(), PairRank: -1},
		{ID: "2", Type: vrp.Single, Location: vrp.Location{Index: 2}, Skills: vrp.NewSkillSet(2), TimeWindows: wideTW(), PairRank: -1},
	}
	// Only skill 1 is present in the fleet: at most one job can ever be
	// assigned.
	p, err := solutionstate.NewProblem(jobs, []vrp.Vehicle{depotVehicle("v1", 10, 1)}, set)
	require.NoError(t, err)

	bound := construction.SkillFeasibilityBound(context.Background(), p)
	require.Equal(t, 1, bound)
}
