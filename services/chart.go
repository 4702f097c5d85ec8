package services

import "projectmap/models"

// ChartSeries zips a project's price history into chart points. It returns nil
// when there is nothing to chart. Missing values in a shorter series are 0.
func ChartSeries(p *models.Project) []models.ChartPoint {
	if p == nil || p.PriceHistory.Empty() {
		return nil
	}
	h := p.PriceHistory
	points := make([]models.ChartPoint, len(h.Labels))
	for i, label := range h.Labels {
		points[i] = models.ChartPoint{
			Label: label,
			Avg:   valueAt(h.Avg, i),
			Min:   valueAt(h.Min, i),
			Max:   valueAt(h.Max, i),
		}
	}
	return points
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
