package models

// FilterKey names one field of FilterState.
type FilterKey string

const (
	FilterProvince    FilterKey = "province"
	FilterDistrict    FilterKey = "district"
	FilterInvestor    FilterKey = "investor"
	FilterMinProjects FilterKey = "minProjects"
)

// FilterState is the user's current filter selection. Empty strings and a zero
// MinProjectCount mean "no constraint".
type FilterState struct {
	Province        string `json:"province"`
	District        string `json:"district"`
	Investor        string `json:"investor"`
	MinProjectCount int    `json:"minProjects"`
}

// Active reports whether any filter constrains the project set.
func (f FilterState) Active() bool {
	return f.Province != "" || f.District != "" || f.Investor != "" || f.MinProjectCount > 0
}

// FilterChange is a single filter edit raised by the presentation layer.
// Value is a string for the text keys and a number for minProjects.
type FilterChange struct {
	Key   FilterKey `json:"key"`
	Value any       `json:"value"`
}

// InvestorFacet is the number of projects attributed to an investor within
// some project subset.
type InvestorFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilterOptions holds the values used to populate the filter controls.
type FilterOptions struct {
	Provinces           []string            `json:"provinces"`
	DistrictsByProvince map[string][]string `json:"districtsByProvince"`
	Investors           []InvestorFacet     `json:"investors"`
}
