package repository

import (
	"context"

	"gorm.io/gorm"
)

// CustomerOverviewRow and CategoryStatRow are aggregate projections — they
// have no backing model and are scanned straight from SQL.
type CustomerOverviewRow struct {
	CustomerID   string
	Name         string
	Phone        string
	IDNo         string
	PolicyCount  int
	TotalPremium int
	LastUpdated  string
}

type CategoryStatRow struct {
	CustomerName string
	Category     string
	ItemCount    int
	PremiumSum   int
}

type ReportRepository interface {
	CustomerOverview(ctx context.Context) ([]CustomerOverviewRow, error)
	CategoryStats(ctx context.Context) ([]CategoryStatRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) CustomerOverview(ctx context.Context) ([]CustomerOverviewRow, error) {
	var rows []CustomerOverviewRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id                                   AS customer_id,
			c.name                                 AS name,
			c.phone                                AS phone,
			c.id_no                                AS id_no,
			COUNT(DISTINCT p.id)                   AS policy_count,
			COALESCE(SUM(p.total_premium_year), 0) AS total_premium,
			COALESCE(MAX(p.updated_at), '')        AS last_updated
		FROM customers c
		LEFT JOIN policies p ON p.customer_id = c.id
		GROUP BY c.id
		ORDER BY last_updated DESC`).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CategoryStats(ctx context.Context) ([]CategoryStatRow, error) {
	var rows []CategoryStatRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.name                        AS customer_name,
			pi.category                   AS category,
			COUNT(*)                      AS item_count,
			COALESCE(SUM(pi.premium), 0)  AS premium_sum
		FROM policy_items pi
		JOIN policies p ON p.id = pi.policy_id
		JOIN customers c ON c.id = p.customer_id
		GROUP BY c.name, pi.category
		ORDER BY c.name ASC`).Scan(&rows).Error
	return rows, err
}
