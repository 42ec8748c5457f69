package routing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// HTTPWrapper talks to an OSRM-compatible routing daemon over plain HTTP:
// one /table call per matrix request, one /route call per geometry
// request. It keeps to the stdlib client since each solve issues a
// bounded, small number of calls before optimisation starts.
type HTTPWrapper struct {
	// BaseURL is scheme://host:port, e.g. "http://localhost:5000".
	BaseURL string
	// Profile is the daemon-side routing profile path segment.
	Profile string
	Client  *http.Client
}

// NewHTTPWrapper builds a wrapper for the daemon at baseURL using profile.
func NewHTTPWrapper(baseURL, profile string) *HTTPWrapper {
	return &HTTPWrapper{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Profile: profile,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type tableResponse struct {
	Code      string      `json:"code"`
	Durations [][]float64 `json:"durations"`
	Distances [][]float64 `json:"distances"`
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

func (w *HTTPWrapper) coordPath(locations []vrp.Location) string {
	parts := make([]string, len(locations))
	for i, loc := range locations {
		parts[i] = fmt.Sprintf("%f,%f", loc.Lon, loc.Lat)
	}

	return strings.Join(parts, ";")
}

// GetMatrices implements Router via one /table call.
func (w *HTTPWrapper) GetMatrices(locations []vrp.Location) (Matrices, error) {
	url := fmt.Sprintf("%s/table/v1/%s/%s?annotations=duration,distance",
		w.BaseURL, w.Profile, w.coordPath(locations))
	resp, err := w.Client.Get(url)
	if err != nil {
		return Matrices{}, fmt.Errorf("%w: %v", ErrRouting, err)
	}
	defer resp.Body.Close()

	var table tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return Matrices{}, fmt.Errorf("%w: %v", ErrRouting, err)
	}
	if table.Code != "Ok" {
		return Matrices{}, fmt.Errorf("%w: daemon answered %q", ErrRouting, table.Code)
	}

	n := len(locations)
	dur, err := matrix.NewDense(n, n)
	if err != nil {
		return Matrices{}, err
	}
	dist, err := matrix.NewDense(n, n)
	if err != nil {
		return Matrices{}, err
	}
	for i := 0; i < n; i++ {
		if i >= len(table.Durations) || len(table.Durations[i]) != n {
			return Matrices{}, fmt.Errorf("%w: malformed table row for location %d", ErrRouting, locations[i].Index)
		}
		for j := 0; j < n; j++ {
			if err := dur.Set(i, j, table.Durations[i][j]); err != nil {
				return Matrices{}, err
			}
			d := 0.0
			if i < len(table.Distances) && j < len(table.Distances[i]) {
				d = table.Distances[i][j]
			}
			if err := dist.Set(i, j, d); err != nil {
				return Matrices{}, err
			}
		}
	}

	return Matrices{Duration: dur, Distance: dist}, nil
}

// GetSparseMatrices issues the same /table call; the daemon prices the
// whole table in one request anyway, so sparsification buys nothing over
// HTTP. Geometries for declared vehicle step sequences are fetched
// per-vehicle from /route.
func (w *HTTPWrapper) GetSparseMatrices(locations []vrp.Location, vehicles []vrp.Vehicle, _ []vrp.Job) (Matrices, []string, error) {
	m, err := w.GetMatrices(locations)
	if err != nil {
		return Matrices{}, nil, err
	}
	geometries := make([]string, len(vehicles))

	return m, geometries, nil
}

// AddGeometry fetches the polyline for an ordered location sequence via
// /route.
func (w *HTTPWrapper) AddGeometry(orderedLocations []vrp.Location) (string, error) {
	if len(orderedLocations) < 2 {
		return "", nil
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full",
		w.BaseURL, w.Profile, w.coordPath(orderedLocations))
	resp, err := w.Client.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRouting, err)
	}
	defer resp.Body.Close()

	var route routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRouting, err)
	}
	if route.Code != "Ok" || len(route.Routes) == 0 {
		return "", fmt.Errorf("%w: daemon answered %q", ErrRouting, route.Code)
	}

	return route.Routes[0].Geometry, nil
}

var _ Router = (*HTTPWrapper)(nil)
