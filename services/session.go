package services

import (
	"projectmap/models"
)

// ViewSettings are the presentation constants of a session.
type ViewSettings struct {
	ListLimit   int
	MapLimit    int
	DefaultView models.Viewport
	FocusZoom   int
}

// DefaultViewSettings centers the map on Vietnam.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		ListLimit:   ListLimit,
		MapLimit:    MapLimit,
		DefaultView: models.Viewport{Lat: 16.047079, Lng: 108.206230, Zoom: 6},
		FocusZoom:   15,
	}
}

// Session is one user's browsing state. Every event updates the state and
// View recomputes everything derived from it. A Session is not safe for
// concurrent use.
type Session struct {
	provider CatalogProvider
	settings ViewSettings

	filters  models.FilterState
	search   string
	bounds   *models.Bounds
	selected *models.Project

	// lastCentered is the id the map last flew to. It survives deselection.
	lastCentered string
}

// NewSession starts a session with no filters over the provider's catalog.
func NewSession(provider CatalogProvider, settings ViewSettings) *Session {
	return &Session{provider: provider, settings: settings}
}

// Filters returns the current filter state.
func (s *Session) Filters() models.FilterState { return s.filters }

// ChangeFilter applies one filter edit. On error the state is unchanged.
func (s *Session) ChangeFilter(change models.FilterChange) error {
	next, err := ApplyFilterChange(s.filters, change)
	if err != nil {
		return err
	}
	s.filters = next
	return nil
}

// ClearFilters drops every filter.
func (s *Session) ClearFilters() {
	s.filters = models.FilterState{}
}

// SetSearch sets the list view's search term.
func (s *Session) SetSearch(term string) {
	s.search = term
}

// SetBounds records the map's current viewport.
func (s *Session) SetBounds(b models.Bounds) {
	s.bounds = &b
}

// Select makes the project with the given id the selected one; an empty id
// clears the selection. It returns a recenter request when the map should fly
// to a project it has not flown to last.
func (s *Session) Select(id string) (*models.Recenter, error) {
	if id == "" {
		s.selected = nil
		return nil, nil
	}
	catalog := s.provider.Catalog()
	if catalog == nil {
		return nil, ErrNotLoaded
	}
	p, err := catalog.Project(id)
	if err != nil {
		return nil, err
	}
	s.selected = p

	if p.ID == s.lastCentered {
		return nil, nil
	}
	s.lastCentered = p.ID
	return &models.Recenter{
		Viewport:        models.Viewport{Lat: p.Lat, Lng: p.Lng, Zoom: s.settings.FocusZoom},
		Animate:         true,
		DurationSeconds: 1.5,
	}, nil
}

// View recomputes the rendered state from the current inputs.
func (s *Session) View() models.ViewState {
	view := models.ViewState{
		Filters:       s.filters,
		FiltersActive: s.filters.Active(),
		SearchTerm:    s.search,
		DefaultView:   s.settings.DefaultView,
	}

	catalog := s.provider.Catalog()
	if catalog == nil {
		view.Loading = true
		return view
	}

	facets := catalog.InvestorFacets(s.filters.Province, s.filters.District)
	visible := VisibleProjects(catalog.Projects(), s.filters, facets)

	options := catalog.Options()
	options.Investors = facets
	view.Options = options
	view.Districts = DistrictsFor(options, s.filters.Province)
	view.InvestorChoice = AvailableInvestors(facets, s.filters.MinProjectCount)

	view.VisibleCount = len(visible)
	view.List = Search(visible, s.search, s.settings.ListLimit)
	if s.bounds != nil {
		view.Markers = Markers(InViewport(visible, *s.bounds, s.settings.MapLimit))
	} else {
		view.Markers = []models.MapMarker{}
	}

	if s.selected != nil {
		view.Selected = &models.ProjectDetail{
			Project: s.selected,
			Raw:     s.selected.Raw,
			Chart:   ChartSeries(s.selected),
		}
	}
	return view
}
