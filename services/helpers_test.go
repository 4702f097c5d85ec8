package services

import (
	"projectmap/models"
	"projectmap/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

func project(id, province, district, investor string) *models.Project {
	return &models.Project{ID: id, Name: "Project " + id, Province: province, District: district, Investor: investor}
}

func ids(projects []*models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
