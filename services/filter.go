package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"projectmap/models"
)

// LocationFiltered returns the projects matching the province and district
// filters, ignoring investor and threshold. This subset scopes the investor
// counts used by VisibleProjects.
func LocationFiltered(projects []*models.Project, filters models.FilterState) []*models.Project {
	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if matchesLocation(p, filters) {
			out = append(out, p)
		}
	}
	return out
}

// VisibleProjects applies the full filter chain. investorFacets must be the
// counts over LocationFiltered(projects, filters).
func VisibleProjects(projects []*models.Project, filters models.FilterState, investorFacets []models.InvestorFacet) []*models.Project {
	var counts map[string]int
	if filters.Investor == "" && filters.MinProjectCount > 0 {
		counts = make(map[string]int, len(investorFacets))
		for _, f := range investorFacets {
			counts[f.Name] = f.Count
		}
	}

	out := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if !matchesLocation(p, filters) {
			continue
		}
		if filters.Investor != "" {
			// A chosen investor is always shown, whatever the threshold.
			if p.Investor != filters.Investor {
				continue
			}
		} else if filters.MinProjectCount > 0 {
			if counts[p.Investor] < filters.MinProjectCount {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func matchesLocation(p *models.Project, filters models.FilterState) bool {
	if filters.Province != "" && p.Province != filters.Province {
		return false
	}
	if filters.District != "" && p.District != filters.District {
		return false
	}
	return true
}

// ApplyFilterChange returns the state after one filter edit. Changing the
// province always clears the district.
func ApplyFilterChange(state models.FilterState, change models.FilterChange) (models.FilterState, error) {
	switch change.Key {
	case models.FilterProvince:
		v, err := textValue(change)
		if err != nil {
			return state, err
		}
		state.Province = v
		state.District = ""
	case models.FilterDistrict:
		v, err := textValue(change)
		if err != nil {
			return state, err
		}
		state.District = v
	case models.FilterInvestor:
		v, err := textValue(change)
		if err != nil {
			return state, err
		}
		state.Investor = v
	case models.FilterMinProjects:
		n, err := thresholdValue(change.Value)
		if err != nil {
			return state, err
		}
		state.MinProjectCount = n
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownFilterKey, change.Key)
	}
	return state, nil
}

func textValue(change models.FilterChange) (string, error) {
	switch v := change.Value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidFilterValue, change.Key, change.Value)
	}
}

func thresholdValue(value any) (int, error) {
	var n int
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		n = v
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: minProjects %v is not a whole number", ErrInvalidFilterValue, v)
		}
		if math.Abs(v) >= float64(math.MaxInt) {
			return 0, fmt.Errorf("%w: minProjects %v is out of range", ErrInvalidFilterValue, v)
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: minProjects %q: %v", ErrInvalidFilterValue, v, err)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: minProjects expects a number, got %T", ErrInvalidFilterValue, value)
	}
	if n < 0 {
		return 0, ErrInvalidThreshold
	}
	return n, nil
}
