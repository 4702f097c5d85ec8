package models

// Report summarizes one dataset load.
type Report struct {
	TotalRecords       int
	Projects           int
	Dropped            int
	WithPrice          int
	WithPriceHistory   int
	WithoutInvestor    int
	ProjectsByProvince map[string]int
	TopInvestors       []InvestorFacet
}
