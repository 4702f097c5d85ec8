package services

import (
	"time"

	"github.com/patrickmn/go-cache"

	"projectmap/models"
	"projectmap/utils"
)

// Catalog is the immutable project set of one dataset load together with the
// facets derived from it.
type Catalog struct {
	projects []*models.Project
	byID     map[string]*models.Project
	options  models.FilterOptions
	dropped  int

	// facets memoizes investor counts per (province, district). Nothing
	// else may go into the key: the threshold must not change the counts.
	facets *cache.Cache
	logger *utils.Logger
}

// NewCatalog indexes projects and derives the global filter options.
// facetTTL bounds how long a location's investor counts stay memoized.
func NewCatalog(result NormalizeResult, facetTTL time.Duration, logger *utils.Logger) *Catalog {
	if facetTTL <= 0 {
		facetTTL = cache.NoExpiration
	}
	byID := make(map[string]*models.Project, len(result.Projects))
	for _, p := range result.Projects {
		byID[p.ID] = p
	}
	c := &Catalog{
		projects: result.Projects,
		byID:     byID,
		options:  DeriveOptions(result.Projects),
		dropped:  result.Dropped,
		facets:   cache.New(facetTTL, 2*facetTTL),
		logger:   logger,
	}
	logger.Info("[catalog] %d projects, %d provinces, %d investors",
		len(c.projects), len(c.options.Provinces), len(c.options.Investors))
	return c
}

// Catalog lets a loaded Catalog stand in wherever a CatalogProvider is wanted.
func (c *Catalog) Catalog() *Catalog { return c }

// Projects returns every canonical project in dataset order. Callers must
// not modify the slice.
func (c *Catalog) Projects() []*models.Project { return c.projects }

// Options returns the filter options over the full project set.
func (c *Catalog) Options() models.FilterOptions { return c.options }

// Dropped is the number of raw records excluded during normalization.
func (c *Catalog) Dropped() int { return c.dropped }

// Project looks up a project by id.
func (c *Catalog) Project(id string) (*models.Project, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// InvestorFacets returns the investor counts over the projects matching the
// given province and district.
func (c *Catalog) InvestorFacets(province, district string) []models.InvestorFacet {
	key := utils.CacheKey("investors", province, district)
	if v, ok := c.facets.Get(key); ok {
		return v.([]models.InvestorFacet)
	}

	filters := models.FilterState{Province: province, District: district}
	facets := InvestorCounts(LocationFiltered(c.projects, filters))
	c.facets.SetDefault(key, facets)
	c.logger.Debug("[catalog] Computed %d investor facets for %s", len(facets), key)
	return facets
}
