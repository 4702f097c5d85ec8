package services

import (
	"sort"

	"projectmap/models"
)

// InvestorCounts groups projects by investor and sorts the groups by count,
// largest first. Ties are ordered by name. Projects without an investor are
// not counted.
func InvestorCounts(projects []*models.Project) []models.InvestorFacet {
	counts := make(map[string]int)
	for _, p := range projects {
		if p.Investor != "" {
			counts[p.Investor]++
		}
	}

	facets := make([]models.InvestorFacet, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, models.InvestorFacet{Name: name, Count: count})
	}
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Name < facets[j].Name
	})
	return facets
}

// DeriveOptions computes the province list, the per-province district lists
// and the global investor counts.
func DeriveOptions(projects []*models.Project) models.FilterOptions {
	provinceSet := make(map[string]struct{})
	districtSets := make(map[string]map[string]struct{})

	for _, p := range projects {
		if p.Province == "" {
			continue
		}
		provinceSet[p.Province] = struct{}{}
		if p.District == "" {
			continue
		}
		set, ok := districtSets[p.Province]
		if !ok {
			set = make(map[string]struct{})
			districtSets[p.Province] = set
		}
		set[p.District] = struct{}{}
	}

	districts := make(map[string][]string, len(districtSets))
	for province, set := range districtSets {
		districts[province] = sortedKeys(set)
	}

	return models.FilterOptions{
		Provinces:           sortedKeys(provinceSet),
		DistrictsByProvince: districts,
		Investors:           InvestorCounts(projects),
	}
}

// DistrictsFor returns the district choices for a province; none when the
// province is unset or unknown.
func DistrictsFor(options models.FilterOptions, province string) []string {
	if province == "" {
		return []string{}
	}
	if d, ok := options.DistrictsByProvince[province]; ok {
		return d
	}
	return []string{}
}

// AvailableInvestors keeps the facets that meet the minimum project count.
// It only feeds the investor dropdown and never affects project visibility.
func AvailableInvestors(facets []models.InvestorFacet, minCount int) []models.InvestorFacet {
	out := make([]models.InvestorFacet, 0, len(facets))
	for _, f := range facets {
		if f.Count >= minCount {
			out = append(out, f)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
