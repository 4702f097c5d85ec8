package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"projectmap/models"
	"projectmap/utils"
)

const topInvestorCount = 10

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

func (s *ReportService) Generate(result NormalizeResult) *models.Report {
	report := &models.Report{
		TotalRecords:       len(result.Projects) + result.Dropped,
		Projects:           len(result.Projects),
		Dropped:            result.Dropped,
		ProjectsByProvince: make(map[string]int),
	}

	for _, p := range result.Projects {
		if p.PriceRange != "" {
			report.WithPrice++
		}
		if !p.PriceHistory.Empty() {
			report.WithPriceHistory++
		}
		if p.Investor == "" {
			report.WithoutInvestor++
		}
		if p.Province != "" {
			report.ProjectsByProvince[p.Province]++
		}
	}

	investors := InvestorCounts(result.Projects)
	if len(investors) > topInvestorCount {
		investors = investors[:topInvestorCount]
	}
	report.TopInvestors = investors

	s.logger.Debug("[report] %d provinces, %d top investors", len(report.ProjectsByProvince), len(report.TopInvestors))
	return report
}

func (s *ReportService) Print(w io.Writer, r *models.Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  PROJECT DATASET SUMMARY\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Raw records         : %d\n", r.TotalRecords)
	fmt.Fprintf(w, "  Mapped projects     : %d\n", r.Projects)
	fmt.Fprintf(w, "  Dropped (no coords) : %d\n", r.Dropped)
	fmt.Fprintf(w, "  With price          : %d\n", r.WithPrice)
	fmt.Fprintf(w, "  With price history  : %d\n", r.WithPriceHistory)
	fmt.Fprintf(w, "  Without investor    : %d\n", r.WithoutInvestor)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Top Investors\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopInvestors) == 0 {
		fmt.Fprintf(w, "  No investor data\n")
	} else {
		for i, inv := range r.TopInvestors {
			fmt.Fprintf(w, "  %2d. %-40s %d\n", i+1, truncate(inv.Name, 38), inv.Count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Projects by Province\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ProjectsByProvince) == 0 {
		fmt.Fprintf(w, "  No province data\n")
	} else {
		type provinceCount struct {
			name  string
			count int
		}
		provinces := make([]provinceCount, 0, len(r.ProjectsByProvince))
		for name, cnt := range r.ProjectsByProvince {
			provinces = append(provinces, provinceCount{name, cnt})
		}
		sort.Slice(provinces, func(i, j int) bool {
			if provinces[i].count != provinces[j].count {
				return provinces[i].count > provinces[j].count
			}
			return provinces[i].name < provinces[j].name
		})
		for _, pc := range provinces {
			fmt.Fprintf(w, "  %-30s %d\n", truncate(pc.name, 28), pc.count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
