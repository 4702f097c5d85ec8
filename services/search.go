package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"projectmap/models"
)

const (
	// ListLimit caps the search results shown in the list view.
	ListLimit = 50
	// MapLimit caps the markers handed to the map widget.
	MapLimit = 500
)

// Search keeps the projects whose name, province or district contains term,
// ignoring case, and returns at most limit of them in input order. An empty
// term matches everything. A limit <= 0 means no cap.
func Search(projects []*models.Project, term string, limit int) []*models.Project {
	fold := cases.Fold()
	needle := foldText(fold, term)

	out := make([]*models.Project, 0, capacity(len(projects), limit))
	for _, p := range projects {
		if limit > 0 && len(out) >= limit {
			break
		}
		if needle == "" ||
			strings.Contains(foldText(fold, p.Name), needle) ||
			strings.Contains(foldText(fold, p.Province), needle) ||
			strings.Contains(foldText(fold, p.District), needle) {
			out = append(out, p)
		}
	}
	return out
}

// foldText puts s in composed form and case-folds it so that precomposed and
// decomposed Vietnamese diacritics compare equal.
func foldText(c cases.Caser, s string) string {
	if s == "" {
		return ""
	}
	return c.String(norm.NFC.String(s))
}

// InViewport returns the projects inside bounds, at most limit of them.
func InViewport(projects []*models.Project, bounds models.Bounds, limit int) []*models.Project {
	out := make([]*models.Project, 0, capacity(len(projects), limit))
	for _, p := range projects {
		if limit > 0 && len(out) >= limit {
			break
		}
		if bounds.Contains(p.Lat, p.Lng) {
			out = append(out, p)
		}
	}
	return out
}

// Markers converts projects into the map widget's point records.
func Markers(projects []*models.Project) []models.MapMarker {
	markers := make([]models.MapMarker, 0, len(projects))
	for _, p := range projects {
		markers = append(markers, models.MapMarker{
			ID:         p.ID,
			Lat:        p.Lat,
			Lng:        p.Lng,
			Name:       p.Name,
			Province:   p.Province,
			District:   p.District,
			PriceRange: p.PriceRange,
		})
	}
	return markers
}

func capacity(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}
