package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"projectmap/models"
	"projectmap/utils"
)

// priceAttribute is the key of the price entry inside the attributes blob.
const priceAttribute = "Giá"

// NormalizeResult is the output of one normalization pass.
type NormalizeResult struct {
	Projects []*models.Project
	// Dropped counts records excluded for missing or unparsable coordinates.
	Dropped int
}

// Normalizer turns raw dataset records into canonical Projects.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize admits every record with a finite latitude and longitude and
// resolves its fields. Input order is preserved and ids are assigned by
// position among the admitted records.
func (n *Normalizer) Normalize(raw []*models.RawRecord) NormalizeResult {
	result := NormalizeResult{Projects: make([]*models.Project, 0, len(raw))}

	for i, r := range raw {
		if r == nil {
			result.Dropped++
			n.logger.Debug("[normalizer] Dropping empty record at %d", i)
			continue
		}

		lat, okLat := parseCoordinate(r.Latitude.String())
		lng, okLng := parseCoordinate(r.Longitude.String())
		if !okLat || !okLng {
			result.Dropped++
			n.logger.Debug("[normalizer] Dropping record %d (%s): bad coordinates %q,%q",
				i, firstNonEmpty(r.Name.String(), r.ToolName.String()), r.Latitude, r.Longitude)
			continue
		}

		result.Projects = append(result.Projects, &models.Project{
			ID:           models.ProjectID(len(result.Projects)),
			Name:         firstNonEmpty(r.Name.String(), r.ToolName.String()),
			Province:     firstNonEmpty(r.Province.String(), r.ToolProvince.String()),
			District:     firstNonEmpty(r.District.String(), r.ToolDistrict.String()),
			Lat:          lat,
			Lng:          lng,
			Area:         r.Area.String(),
			Investor:     r.Investor.String(),
			PriceRange:   extractPrice(r.Attributes.String()),
			URL:          r.ProjectURL.String(),
			PriceHistory: r.PriceHistory,
			Raw:          r,
		})
	}

	n.logger.Info("[normalizer] Normalized %d → %d projects (dropped %d)",
		len(raw), len(result.Projects), result.Dropped)
	return result
}

// parseCoordinate accepts a decimal number, surrounding whitespace allowed.
// NaN and infinities are rejected.
func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// extractPrice reads the price entry of the attributes blob. Anything that is
// not a JSON object with a price yields "".
func extractPrice(blob string) string {
	if strings.TrimSpace(blob) == "" {
		return ""
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(blob), &attrs); err != nil {
		return ""
	}
	switch v := attrs[priceAttribute].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
