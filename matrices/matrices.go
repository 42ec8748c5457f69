// Package matrices holds the immutable, per-profile square matrices of
// duration, distance, and (optionally) cost between location indices.
// It is a thin domain layer over the general-purpose matrix.Dense,
// adding profile lookup and an optional metric-closure pass powered by
// matrix/ops.FloydWarshall.
package matrices

import (
	"errors"

	"github.com/katalvlaran/vrpsolve/matrix"
)

// ErrUnknownProfile is returned when a profile name has no registered
// matrices.
var ErrUnknownProfile = errors.New("matrices: unknown profile")

// ErrDimensionMismatch is returned when a profile's duration/distance/cost
// matrices disagree in shape.
var ErrDimensionMismatch = errors.New("matrices: duration/distance/cost dimension mismatch")

// Profile bundles the three square matrices declared for one routing
// profile: square duration and distance matrices, plus an optional
// user-supplied cost matrix.
type Profile struct {
	Duration *matrix.Dense
	Distance *matrix.Dense
	// Cost is nil unless the input supplies an explicit per-profile cost
	// matrix.
	Cost *matrix.Dense
}

// Dim returns the square dimension of the profile's matrices.
func (p *Profile) Dim() int { return p.Duration.Rows() }

// Set holds every named profile declared by the input.
type Set struct {
	profiles map[string]*Profile
}

// NewSet returns an empty matrix Set.
func NewSet() *Set { return &Set{profiles: make(map[string]*Profile)} }

// Register adds or replaces the matrices for a profile. duration and
// distance must be square and of equal dimension; cost may be nil.
func (s *Set) Register(profile string, duration, distance, cost *matrix.Dense) error {
	if duration.Rows() != duration.Cols() || distance.Rows() != distance.Cols() {
		return matrix.ErrNonSquare
	}
	if duration.Rows() != distance.Rows() {
		return ErrDimensionMismatch
	}
	if cost != nil && (cost.Rows() != cost.Cols() || cost.Rows() != duration.Rows()) {
		return ErrDimensionMismatch
	}
	s.profiles[profile] = &Profile{Duration: duration, Distance: distance, Cost: cost}

	return nil
}

// Profile returns the registered matrices for a profile name.
func (s *Set) Profile(profile string) (*Profile, error) {
	p, ok := s.profiles[profile]
	if !ok {
		return nil, ErrUnknownProfile
	}

	return p, nil
}

// Has reports whether a profile is registered.
func (s *Set) Has(profile string) bool {
	_, ok := s.profiles[profile]

	return ok
}

// Names returns the registered profile names (unordered).
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		out = append(out, name)
	}

	return out
}

// Duration looks up UserDuration(i,j) for a profile. Complexity: O(1).
func (p *Profile) DurationAt(i, j int) (float64, error) { return p.Duration.At(i, j) }

// Distance looks up UserDistance(i,j) for a profile. Complexity: O(1).
func (p *Profile) DistanceAt(i, j int) (float64, error) { return p.Distance.At(i, j) }

// CostAt looks up the user-supplied UserCost(i,j), if present.
func (p *Profile) CostAt(i, j int) (float64, bool, error) {
	if p.Cost == nil {
		return 0, false, nil
	}
	v, err := p.Cost.At(i, j)

	return v, true, err
}

// Close runs Floyd–Warshall metric closure in place over a profile's
// duration and distance matrices, filling in unreachable sparse-matrix
// entries with shortest-path sums — the VRP-level analogue of
// tsp.Options.RunMetricClosure. Entries
// that remain +Inf after closure indicate genuinely disconnected
// locations within that profile.
func (p *Profile) Close() error {
	if err := matrix.APSPInPlace(p.Duration); err != nil {
		return err
	}

	return matrix.APSPInPlace(p.Distance)
}
