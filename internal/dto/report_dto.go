package dto

// CustomerOverviewRow is one line of the per-customer report: policy count and
// annual premium total, most recent update last.
type CustomerOverviewRow struct {
	CustomerID      string `json:"customer_id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	IDNo            string `json:"id_no"`
	PolicyCount     int    `json:"policy_count"`
	TotalPremium    int    `json:"total_premium_year"`
	LastUpdatedDate string `json:"last_updated"`
}

// CategoryStatRow is one line of the coverage-category report.
type CategoryStatRow struct {
	CustomerName string `json:"customer_name"`
	Category     string `json:"category"`
	ItemCount    int    `json:"item_count"`
	PremiumSum   int    `json:"premium_sum"`
}
