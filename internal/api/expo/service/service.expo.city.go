package exposvc

import (
	"context"
	"strings"

	"github.com/facette/natsort"
)

// CitySource returns the distinct cities of one collection
type CitySource interface {
	Cities(ctx context.Context) ([]string, error)
}

// CityService merges the cities known to exhibitions and person records
type CityService struct {
	sources []CitySource
}

// NewCityService merges the given sources
func NewCityService(sources ...CitySource) *CityService {
	return &CityService{sources: sources}
}

// List returns the union of all sources, deduplicated and in natural order
func (s *CityService) List(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	cities := []string{}
	for _, src := range s.sources {
		values, err := src.Cities(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range values {
			if !seen[c] {
				seen[c] = true
				cities = append(cities, c)
			}
		}
	}
	natsort.Sort(cities)
	return cities, nil
}

// distinctStrings keeps the non-empty string values of a Distinct result
func distinctStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
