// internal/workers/portfolio/validate-portfolio-items/models.go
package validateportfolioitems

type Input struct {
	PartnerID      string                   `json:"partnerId"`
	PortfolioItems []map[string]interface{} `json:"portfolioItems"`
}

type Output struct {
	PortfolioValid     bool     `json:"portfolioValid"`
	ItemCount          int      `json:"itemCount"`
	ValidationWarnings []string `json:"validationWarnings"`
}
