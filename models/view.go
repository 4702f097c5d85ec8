package models

// Bounds is a geographic rectangle reported by the map widget.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// Viewport is a map center and zoom level.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// Recenter asks the map widget to fly to a point.
type Recenter struct {
	Viewport
	Animate         bool    `json:"animate"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// MapMarker is the point record handed to the map widget.
type MapMarker struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Name       string  `json:"name"`
	Province   string  `json:"province"`
	District   string  `json:"district"`
	PriceRange string  `json:"priceRange,omitempty"`
}

// ChartPoint is one period of the price trend chart.
type ChartPoint struct {
	Label string  `json:"name"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// ProjectDetail is the detail panel content for the selected project.
type ProjectDetail struct {
	Project *Project     `json:"project"`
	Raw     *RawRecord   `json:"raw,omitempty"`
	Chart   []ChartPoint `json:"chart,omitempty"`
}

// ViewState is everything the presentation layer renders for one session.
type ViewState struct {
	Loading        bool            `json:"loading"`
	Filters        FilterState     `json:"filters"`
	FiltersActive  bool            `json:"filtersActive"`
	SearchTerm     string          `json:"searchTerm"`
	Options        FilterOptions   `json:"options"`
	Districts      []string        `json:"districts"`
	InvestorChoice []InvestorFacet `json:"investorChoices"`
	VisibleCount   int             `json:"visibleCount"`
	List           []*Project      `json:"list"`
	Markers        []MapMarker     `json:"markers"`
	DefaultView    Viewport        `json:"defaultView"`
	Selected       *ProjectDetail  `json:"selected,omitempty"`
}
