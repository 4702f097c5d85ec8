package services

import (
	"errors"
	"testing"

	"projectmap/models"
)

func hcmProjects() []*models.Project {
	return []*models.Project{
		project("proj-0", "HCM", "Quận 7", "A"),
		project("proj-1", "HCM", "Quận 2", "A"),
		project("proj-2", "HCM", "Quận 7", "B"),
	}
}

func visible(projects []*models.Project, f models.FilterState) []string {
	facets := InvestorCounts(LocationFiltered(projects, f))
	return ids(VisibleProjects(projects, f, facets))
}

func TestVisibleProjectsThreshold(t *testing.T) {
	got := visible(hcmProjects(), models.FilterState{Province: "HCM", MinProjectCount: 2})
	want := []string{"proj-0", "proj-1"}
	if !equalStrings(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
}

func TestVisibleProjectsInvestorBypassesThreshold(t *testing.T) {
	got := visible(hcmProjects(), models.FilterState{Province: "HCM", Investor: "B", MinProjectCount: 2})
	want := []string{"proj-2"}
	if !equalStrings(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
}

func TestVisibleProjectsInvestorMissingFromFacets(t *testing.T) {
	// The bypass must not depend on the facet table at all.
	f := models.FilterState{Investor: "B", MinProjectCount: 5}
	got := ids(VisibleProjects(hcmProjects(), f, nil))
	if !equalStrings(got, []string{"proj-2"}) {
		t.Errorf("visible: got %v, want [proj-2]", got)
	}
}

func TestVisibleProjectsThresholdIsLocationScoped(t *testing.T) {
	projects := []*models.Project{
		project("proj-0", "HCM", "Quận 7", "A"),
		project("proj-1", "HCM", "Quận 2", "A"),
		project("proj-2", "Hà Nội", "Cầu Giấy", "A"),
		project("proj-3", "Hà Nội", "Cầu Giấy", "B"),
		project("proj-4", "Hà Nội", "Cầu Giấy", "B"),
	}

	// Globally A has 3 projects, but only 1 in Hà Nội.
	got := visible(projects, models.FilterState{Province: "Hà Nội", MinProjectCount: 2})
	if !equalStrings(got, []string{"proj-3", "proj-4"}) {
		t.Errorf("Hà Nội: got %v, want [proj-3 proj-4]", got)
	}

	got = visible(projects, models.FilterState{Province: "HCM", District: "Quận 7", MinProjectCount: 2})
	if len(got) != 0 {
		t.Errorf("Quận 7: got %v, want none", got)
	}
}

func TestVisibleProjectsThresholdDropsNoInvestor(t *testing.T) {
	projects := []*models.Project{
		project("proj-0", "HCM", "", ""),
		project("proj-1", "HCM", "", "A"),
	}
	if got := visible(projects, models.FilterState{MinProjectCount: 1}); !equalStrings(got, []string{"proj-1"}) {
		t.Errorf("got %v, want [proj-1]", got)
	}
	if got := visible(projects, models.FilterState{}); len(got) != 2 {
		t.Errorf("no filters: got %v, want both", got)
	}
}

func TestVisibleProjectsLocation(t *testing.T) {
	tests := []struct {
		name    string
		filters models.FilterState
		want    []string
	}{
		{"none", models.FilterState{}, []string{"proj-0", "proj-1", "proj-2"}},
		{"province", models.FilterState{Province: "HCM"}, []string{"proj-0", "proj-1", "proj-2"}},
		{"district", models.FilterState{Province: "HCM", District: "Quận 7"}, []string{"proj-0", "proj-2"}},
		{"other province", models.FilterState{Province: "Hà Nội"}, []string{}},
		{"investor", models.FilterState{Investor: "A"}, []string{"proj-0", "proj-1"}},
		{"investor and district", models.FilterState{Province: "HCM", District: "Quận 2", Investor: "A"}, []string{"proj-1"}},
	}

	for _, tt := range tests {
		if got := visible(hcmProjects(), tt.filters); !equalStrings(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestApplyFilterChangeResetsDistrict(t *testing.T) {
	state := models.FilterState{Province: "HCM", District: "Quận 7", Investor: "A", MinProjectCount: 3}

	next, err := ApplyFilterChange(state, models.FilterChange{Key: models.FilterProvince, Value: "Hà Nội"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.FilterState{Province: "Hà Nội", Investor: "A", MinProjectCount: 3}
	if next != want {
		t.Errorf("got %+v, want %+v", next, want)
	}

	// Re-selecting the same province also clears the district.
	next, _ = ApplyFilterChange(state, models.FilterChange{Key: models.FilterProvince, Value: "HCM"})
	if next.District != "" {
		t.Errorf("district should be reset, got %q", next.District)
	}
}

func TestApplyFilterChangeKeys(t *testing.T) {
	state := models.FilterState{Province: "HCM", District: "Quận 7"}

	tests := []struct {
		change models.FilterChange
		want   models.FilterState
	}{
		{models.FilterChange{Key: models.FilterDistrict, Value: "Quận 2"}, models.FilterState{Province: "HCM", District: "Quận 2"}},
		{models.FilterChange{Key: models.FilterInvestor, Value: "A"}, models.FilterState{Province: "HCM", District: "Quận 7", Investor: "A"}},
		{models.FilterChange{Key: models.FilterInvestor, Value: nil}, models.FilterState{Province: "HCM", District: "Quận 7"}},
		{models.FilterChange{Key: models.FilterMinProjects, Value: float64(4)}, models.FilterState{Province: "HCM", District: "Quận 7", MinProjectCount: 4}},
		{models.FilterChange{Key: models.FilterMinProjects, Value: 2}, models.FilterState{Province: "HCM", District: "Quận 7", MinProjectCount: 2}},
		{models.FilterChange{Key: models.FilterMinProjects, Value: " 7 "}, models.FilterState{Province: "HCM", District: "Quận 7", MinProjectCount: 7}},
	}

	for _, tt := range tests {
		got, err := ApplyFilterChange(state, tt.change)
		if err != nil {
			t.Errorf("ApplyFilterChange(%v): unexpected error %v", tt.change, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ApplyFilterChange(%v) = %+v; want %+v", tt.change, got, tt.want)
		}
	}
}

func TestApplyFilterChangeErrors(t *testing.T) {
	state := models.FilterState{Province: "HCM"}

	tests := []struct {
		change models.FilterChange
		want   error
	}{
		{models.FilterChange{Key: "color", Value: "red"}, ErrUnknownFilterKey},
		{models.FilterChange{Key: models.FilterProvince, Value: 12.0}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: -1}, ErrInvalidThreshold},
		{models.FilterChange{Key: models.FilterMinProjects, Value: 1.5}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: "many"}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: true}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: 1e19}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: -1e19}, ErrInvalidFilterValue},
		{models.FilterChange{Key: models.FilterMinProjects, Value: "99999999999999999999"}, ErrInvalidFilterValue},
	}

	for _, tt := range tests {
		got, err := ApplyFilterChange(state, tt.change)
		if !errors.Is(err, tt.want) {
			t.Errorf("ApplyFilterChange(%v) error = %v; want %v", tt.change, err, tt.want)
		}
		if got != state {
			t.Errorf("ApplyFilterChange(%v) changed state on error: %+v", tt.change, got)
		}
	}
}

func TestFilterStateActive(t *testing.T) {
	if (models.FilterState{}).Active() {
		t.Error("zero state should be inactive")
	}
	if !(models.FilterState{MinProjectCount: 1}).Active() {
		t.Error("threshold should make state active")
	}
}
