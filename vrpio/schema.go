// Package vrpio implements the JSON input/output boundary:
// parsing the problem document into the solver's data model, serialising
// solutions, and the "check" mode that validates user-supplied routes and
// reports per-route violation tags instead of solving.
package vrpio

import "encoding/json"

// InputDoc mirrors the external input schema.
type InputDoc struct {
	Jobs      []JobDoc                `json:"jobs,omitempty"`
	Shipments []ShipmentDoc           `json:"shipments,omitempty"`
	Vehicles  []VehicleDoc            `json:"vehicles"`
	Matrices  map[string]MatrixBundle `json:"matrices,omitempty"`
}

// JobDoc is one task as declared by the user.
type JobDoc struct {
	ID            uint64      `json:"id"`
	Description   string      `json:"description,omitempty"`
	Location      []float64   `json:"location,omitempty"`
	LocationIndex *int        `json:"location_index,omitempty"`
	Setup         int64       `json:"setup,omitempty"`
	Service       int64       `json:"service,omitempty"`
	Delivery      []int64     `json:"delivery,omitempty"`
	Pickup        []int64     `json:"pickup,omitempty"`
	Skills        []int       `json:"skills,omitempty"`
	Priority      int         `json:"priority,omitempty"`
	TimeWindows   [][2]int64  `json:"time_windows,omitempty"`
}

// ShipmentDoc pairs a pickup step and a delivery step with a shared
// amount.
type ShipmentDoc struct {
	Pickup   JobDoc  `json:"pickup"`
	Delivery JobDoc  `json:"delivery"`
	Amount   []int64 `json:"amount,omitempty"`
	Skills   []int   `json:"skills,omitempty"`
	Priority int     `json:"priority,omitempty"`
	// MaxLifetime, in seconds, bounds pickup-to-delivery elapsed time.
	MaxLifetime int64 `json:"max_lifetime,omitempty"`
}

// VehicleDoc is one fleet unit as declared by the user.
type VehicleDoc struct {
	ID            uint64     `json:"id"`
	Profile       string     `json:"profile,omitempty"`
	Description   string     `json:"description,omitempty"`
	Start         []float64  `json:"start,omitempty"`
	StartIndex    *int       `json:"start_index,omitempty"`
	End           []float64  `json:"end,omitempty"`
	EndIndex      *int       `json:"end_index,omitempty"`
	Capacity      []int64    `json:"capacity,omitempty"`
	Skills        []int      `json:"skills,omitempty"`
	TimeWindow    *[2]int64  `json:"time_window,omitempty"`
	Breaks        []BreakDoc `json:"breaks,omitempty"`
	Costs         *CostsDoc  `json:"costs,omitempty"`
	SpeedFactor   float64    `json:"speed_factor,omitempty"`
	MaxTasks      int        `json:"max_tasks,omitempty"`
	MaxTravelTime int64      `json:"max_travel_time,omitempty"`
	MaxDistance   int64      `json:"max_distance,omitempty"`
	Steps         []StepRef  `json:"steps,omitempty"`
}

// StepRef names a job inside a vehicle's user-supplied initial sequence.
type StepRef struct {
	Type string `json:"type"`
	ID   uint64 `json:"id,omitempty"`
}

// BreakDoc is one mandatory rest declaration.
type BreakDoc struct {
	ID          uint64     `json:"id"`
	TimeWindows [][2]int64 `json:"time_windows,omitempty"`
	Service     int64      `json:"service,omitempty"`
	MaxLoad     []int64    `json:"max_load,omitempty"`
}

// CostsDoc is the vehicle cost schedule in user units.
type CostsDoc struct {
	Fixed       int64   `json:"fixed,omitempty"`
	PerHour     float64 `json:"per_hour,omitempty"`
	PerKm       float64 `json:"per_km,omitempty"`
	PerTaskHour float64 `json:"per_task_hour,omitempty"`
}

// MatrixBundle is one profile's explicit matrices.
type MatrixBundle struct {
	Durations [][]float64 `json:"durations,omitempty"`
	Distances [][]float64 `json:"distances,omitempty"`
	Costs     [][]float64 `json:"costs,omitempty"`
}

// OutputDoc mirrors the external output schema.
type OutputDoc struct {
	Code       int             `json:"code"`
	Error      string          `json:"error,omitempty"`
	Summary    *SummaryDoc     `json:"summary,omitempty"`
	Routes     []RouteDoc      `json:"routes,omitempty"`
	Unassigned []UnassignedDoc `json:"unassigned,omitempty"`
}

// SummaryDoc aggregates solution-wide totals.
type SummaryDoc struct {
	Cost           float64           `json:"cost"`
	Routes         int               `json:"routes"`
	Unassigned     int               `json:"unassigned"`
	Delivery       []int64           `json:"delivery,omitempty"`
	Pickup         []int64           `json:"pickup,omitempty"`
	Setup          float64           `json:"setup"`
	Service        float64           `json:"service"`
	Duration       float64           `json:"duration"`
	WaitingTime    float64           `json:"waiting_time"`
	Priority       int               `json:"priority"`
	Distance       *float64          `json:"distance,omitempty"`
	Violations     []ViolationDoc    `json:"violations,omitempty"`
	ComputingTimes ComputingTimesDoc `json:"computing_times"`
}

// ComputingTimesDoc reports wall-clock milliseconds per phase.
type ComputingTimesDoc struct {
	Loading int64 `json:"loading"`
	Solving int64 `json:"solving"`
	Routing int64 `json:"routing,omitempty"`
}

// RouteDoc is one vehicle's itinerary.
type RouteDoc struct {
	Vehicle     uint64         `json:"vehicle"`
	Cost        float64        `json:"cost"`
	Delivery    []int64        `json:"delivery,omitempty"`
	Pickup      []int64        `json:"pickup,omitempty"`
	Setup       float64        `json:"setup"`
	Service     float64        `json:"service"`
	Duration    float64        `json:"duration"`
	WaitingTime float64        `json:"waiting_time"`
	Priority    int            `json:"priority"`
	Distance    *float64       `json:"distance,omitempty"`
	Steps       []StepDoc      `json:"steps"`
	Violations  []ViolationDoc `json:"violations,omitempty"`
	Geometry    string         `json:"geometry,omitempty"`
	Description string         `json:"description,omitempty"`
}

// StepDoc is one stop on a route.
type StepDoc struct {
	Type          string         `json:"type"`
	ID            uint64         `json:"id,omitempty"`
	Description   string         `json:"description,omitempty"`
	Location      []float64      `json:"location,omitempty"`
	LocationIndex *int           `json:"location_index,omitempty"`
	Arrival       float64        `json:"arrival"`
	Duration      float64        `json:"duration"`
	WaitingTime   float64        `json:"waiting_time"`
	Setup         float64        `json:"setup"`
	Service       float64        `json:"service"`
	Load          []int64        `json:"load,omitempty"`
	Violations    []ViolationDoc `json:"violations,omitempty"`
}

// UnassignedDoc describes a job no route serves.
type UnassignedDoc struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Location    []float64 `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

// ViolationDoc is one constraint breach tag.
type ViolationDoc struct {
	Cause    string   `json:"cause"`
	Duration *float64 `json:"duration,omitempty"`
}

// Violation causes.
const (
	ViolationLeadTime      = "lead_time"
	ViolationDelay         = "delay"
	ViolationLoad          = "load"
	ViolationMaxTasks      = "max_tasks"
	ViolationSkills        = "skills"
	ViolationPrecedence    = "precedence"
	ViolationMissingBreak  = "missing_break"
	ViolationMaxTravelTime = "max_travel_time"
	ViolationMaxLoad       = "max_load"
	ViolationMaxDistance   = "max_distance"
)

// Marshal pretty-prints the output document.
func (o *OutputDoc) Marshal() ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}
