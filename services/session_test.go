package services

import (
	"errors"
	"testing"
	"time"

	"projectmap/models"
)

func newTestCatalog(projects []*models.Project) *Catalog {
	return NewCatalog(NormalizeResult{Projects: projects}, time.Minute, newTestLogger())
}

type loadingProvider struct{}

func (loadingProvider) Catalog() *Catalog { return nil }

func TestSessionProvinceChangeResetsDistrict(t *testing.T) {
	s := NewSession(newTestCatalog(hcmProjects()), DefaultViewSettings())

	mustChange(t, s, models.FilterProvince, "HCM")
	mustChange(t, s, models.FilterDistrict, "Quận 7")
	mustChange(t, s, models.FilterProvince, "Hà Nội")

	if got := s.Filters().District; got != "" {
		t.Errorf("district should be reset on province change, got %q", got)
	}
}

func TestSessionViewThresholdAndBypass(t *testing.T) {
	s := NewSession(newTestCatalog(hcmProjects()), DefaultViewSettings())
	mustChange(t, s, models.FilterProvince, "HCM")
	mustChange(t, s, models.FilterMinProjects, 2)

	view := s.View()
	if got := ids(view.List); !equalStrings(got, []string{"proj-0", "proj-1"}) {
		t.Errorf("threshold list: got %v", got)
	}
	if len(view.InvestorChoice) != 1 || view.InvestorChoice[0].Name != "A" {
		t.Errorf("dropdown should only offer A, got %v", view.InvestorChoice)
	}
	// The facet table itself is not narrowed by the threshold.
	if len(view.Options.Investors) != 2 {
		t.Errorf("investor facets: got %v, want A and B", view.Options.Investors)
	}

	mustChange(t, s, models.FilterInvestor, "B")
	view = s.View()
	if got := ids(view.List); !equalStrings(got, []string{"proj-2"}) {
		t.Errorf("bypass list: got %v, want [proj-2]", got)
	}
	if view.VisibleCount != 1 {
		t.Errorf("VisibleCount: got %d, want 1", view.VisibleCount)
	}
}

func TestSessionViewDistrictsAndOptions(t *testing.T) {
	s := NewSession(newTestCatalog(sampleProjects()), DefaultViewSettings())

	view := s.View()
	if len(view.Districts) != 0 {
		t.Errorf("no province selected should give no districts, got %v", view.Districts)
	}
	if len(view.Options.Provinces) != 3 {
		t.Errorf("provinces: got %v", view.Options.Provinces)
	}

	mustChange(t, s, models.FilterProvince, "HCM")
	view = s.View()
	if !equalStrings(view.Districts, []string{"Quận 2", "Quận 7"}) {
		t.Errorf("HCM districts: got %v", view.Districts)
	}
	// Province list stays global while investors follow the location.
	if len(view.Options.Provinces) != 3 {
		t.Errorf("provinces should not be narrowed, got %v", view.Options.Provinces)
	}
	want := []models.InvestorFacet{{Name: "A", Count: 2}, {Name: "B", Count: 1}}
	if len(view.Options.Investors) != 2 || view.Options.Investors[0] != want[0] || view.Options.Investors[1] != want[1] {
		t.Errorf("HCM investors: got %v, want %v", view.Options.Investors, want)
	}
}

func TestSessionClearFilters(t *testing.T) {
	s := NewSession(newTestCatalog(hcmProjects()), DefaultViewSettings())
	mustChange(t, s, models.FilterProvince, "HCM")
	mustChange(t, s, models.FilterMinProjects, 3)
	if !s.View().FiltersActive {
		t.Fatal("filters should be active")
	}

	s.ClearFilters()
	view := s.View()
	if view.FiltersActive || view.Filters != (models.FilterState{}) {
		t.Errorf("filters not cleared: %+v", view.Filters)
	}
	if len(view.List) != 3 {
		t.Errorf("expected all 3 projects after clear, got %d", len(view.List))
	}
}

func TestSessionInvalidChangeKeepsState(t *testing.T) {
	s := NewSession(newTestCatalog(hcmProjects()), DefaultViewSettings())
	mustChange(t, s, models.FilterMinProjects, 2)

	err := s.ChangeFilter(models.FilterChange{Key: models.FilterMinProjects, Value: -3})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
	if s.Filters().MinProjectCount != 2 {
		t.Errorf("state changed on error: %+v", s.Filters())
	}
}

func TestSessionMarkersNeedBounds(t *testing.T) {
	projects := []*models.Project{
		{ID: "proj-0", Province: "HCM", Lat: 10.8, Lng: 106.7},
		{ID: "proj-1", Province: "Hà Nội", Lat: 21.0, Lng: 105.8},
	}
	s := NewSession(newTestCatalog(projects), DefaultViewSettings())

	if got := s.View().Markers; len(got) != 0 {
		t.Errorf("no bounds reported yet, expected no markers, got %d", len(got))
	}

	s.SetBounds(models.Bounds{North: 24, South: 8, East: 110, West: 102})
	if got := s.View().Markers; len(got) != 2 {
		t.Errorf("expected 2 markers, got %d", len(got))
	}

	s.SetBounds(models.Bounds{North: 11, South: 10, East: 107, West: 106})
	markers := s.View().Markers
	if len(markers) != 1 || markers[0].ID != "proj-0" {
		t.Errorf("expected only proj-0 in view, got %v", markers)
	}

	mustChange(t, s, models.FilterProvince, "Hà Nội")
	if got := s.View().Markers; len(got) != 0 {
		t.Errorf("markers must follow the filters, got %v", got)
	}
}

func TestSessionSearchAppliesToListOnly(t *testing.T) {
	projects := []*models.Project{
		{ID: "proj-0", Name: "Sunrise", Lat: 10.8, Lng: 106.7},
		{ID: "proj-1", Name: "Ecopark", Lat: 10.9, Lng: 106.8},
	}
	s := NewSession(newTestCatalog(projects), DefaultViewSettings())
	s.SetBounds(models.Bounds{North: 11, South: 10, East: 107, West: 106})
	s.SetSearch("sun")

	view := s.View()
	if got := ids(view.List); !equalStrings(got, []string{"proj-0"}) {
		t.Errorf("list: got %v", got)
	}
	if len(view.Markers) != 2 {
		t.Errorf("map should ignore the search term, got %d markers", len(view.Markers))
	}
	if view.SearchTerm != "sun" {
		t.Errorf("SearchTerm: got %q", view.SearchTerm)
	}
}

func TestSessionSelectRecentersOncePerProject(t *testing.T) {
	projects := []*models.Project{
		{ID: "proj-0", Lat: 10.8, Lng: 106.7},
		{ID: "proj-1", Lat: 21.0, Lng: 105.8},
	}
	s := NewSession(newTestCatalog(projects), DefaultViewSettings())

	rc, err := s.Select("proj-0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rc == nil || rc.Lat != 10.8 || rc.Lng != 106.7 || rc.Zoom != 15 || !rc.Animate || rc.DurationSeconds != 1.5 {
		t.Errorf("recenter: got %+v", rc)
	}

	if rc, _ := s.Select("proj-0"); rc != nil {
		t.Errorf("reselecting the same project should not recenter, got %+v", rc)
	}

	if rc, _ := s.Select("proj-1"); rc == nil {
		t.Error("selecting another project should recenter")
	}
	if rc, _ := s.Select("proj-0"); rc == nil {
		t.Error("going back to the first project should recenter")
	}
}

func TestSessionSelectDetailAndDeselect(t *testing.T) {
	raw := &models.RawRecord{Name: "Ecopark"}
	projects := []*models.Project{{
		ID: "proj-0", Name: "Ecopark", Raw: raw,
		PriceHistory: &models.PriceHistory{Labels: []string{"T1", "T2"}, Avg: []float64{30, 32}, Min: []float64{25, 27}, Max: []float64{35, 37}},
	}}
	s := NewSession(newTestCatalog(projects), DefaultViewSettings())

	if _, err := s.Select("proj-0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := s.View().Selected
	if sel == nil || sel.Project.ID != "proj-0" || sel.Raw != raw {
		t.Fatalf("selected detail: got %+v", sel)
	}
	if len(sel.Chart) != 2 || sel.Chart[1].Avg != 32 {
		t.Errorf("chart: got %v", sel.Chart)
	}

	if rc, err := s.Select(""); err != nil || rc != nil {
		t.Errorf("deselect: rc=%v err=%v", rc, err)
	}
	if s.View().Selected != nil {
		t.Error("selection should be cleared")
	}
	if rc, _ := s.Select("proj-0"); rc != nil {
		t.Error("the map already flew to proj-0, no recenter expected")
	}
}

func TestSessionSelectUnknown(t *testing.T) {
	s := NewSession(newTestCatalog(hcmProjects()), DefaultViewSettings())
	if _, err := s.Select("proj-99"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestSessionWhileLoading(t *testing.T) {
	s := NewSession(loadingProvider{}, DefaultViewSettings())
	mustChange(t, s, models.FilterProvince, "HCM")

	view := s.View()
	if !view.Loading {
		t.Error("view should report loading")
	}
	if view.Filters.Province != "HCM" {
		t.Error("filter edits should be kept while loading")
	}
	if view.DefaultView.Zoom != 6 {
		t.Errorf("default zoom: got %d, want 6", view.DefaultView.Zoom)
	}
	if _, err := s.Select("proj-0"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func mustChange(t *testing.T, s *Session, key models.FilterKey, value any) {
	t.Helper()
	if err := s.ChangeFilter(models.FilterChange{Key: key, Value: value}); err != nil {
		t.Fatalf("ChangeFilter(%s, %v): %v", key, value, err)
	}
}
