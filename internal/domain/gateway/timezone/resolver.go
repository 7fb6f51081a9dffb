package timezone

import (
	"fmt"

	"github.com/ringsaturn/tzf"
)

// Resolver maps coordinates to an IANA timezone name
type Resolver interface {
	// Resolve returns the zone name and false when the point has no known zone
	Resolve(lat, lon float64) (string, bool)
}

// finder is the part of tzf.F the resolver uses
type finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

type tzfResolver struct {
	finder finder
}

// NewResolver builds a resolver over the embedded tzf dataset. Loading takes a
// noticeable moment, so build it once at startup.
func NewResolver() (Resolver, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("fail to load timezone data: %w", err)
	}
	return &tzfResolver{finder: f}, nil
}

// Resolve looks the point up; note tzf takes longitude first
func (r *tzfResolver) Resolve(lat, lon float64) (string, bool) {
	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", false
	}
	return name, true
}

// StaticResolver resolves every point to Name; an empty Name resolves nothing.
type StaticResolver struct {
	Name string
}

func (s StaticResolver) Resolve(float64, float64) (string, bool) {
	return s.Name, s.Name != ""
}
