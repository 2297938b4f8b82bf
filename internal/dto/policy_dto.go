package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// ExtractRequest carries the optional manual customer fields posted alongside
// the sheet image. Manual name wins over the extracted insured name.
type ExtractRequest struct {
	CustomerName    string `form:"customer_name"`
	CustomerIDNo    string `form:"customer_id_no"`
	CustomerPhone   string `form:"customer_phone"`
	CustomerAddress string `form:"customer_address"`
	CustomerNotes   string `form:"customer_notes"`
	GenerateSummary bool   `form:"generate_summary"`
}

type EmailReportRequest struct {
	// To overrides the customer's stored email when set.
	To string `json:"to" validate:"omitempty,email"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PolicyItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ContractType string    `json:"contract_type"`
	ProductCode  string    `json:"product_code"`
	ProductName  string    `json:"product_name"`
	Term         string    `json:"term"`
	CoverageTerm string    `json:"coverage_term"`
	SumInsured   string    `json:"sum_insured"`
	Premium      int       `json:"premium"`
	Category     string    `json:"category"`
}

type PolicyResponse struct {
	ID               uuid.UUID            `json:"id"`
	CustomerID       uuid.UUID            `json:"customer_id"`
	PolicyGroupName  string               `json:"policy_group_name"`
	Insurer          string               `json:"insurer"`
	PolicyNo         string               `json:"policy_no"`
	PayMode          string               `json:"pay_mode"`
	EffectiveDate    string               `json:"effective_date"`
	PrintDate        string               `json:"print_date"`
	TotalPremiumYear int                  `json:"total_premium_year"`
	HealthReport     string               `json:"health_report,omitempty"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Items            []PolicyItemResponse `json:"items,omitempty"`
}

// ExtractResponse reports what an extraction run ingested.
type ExtractResponse struct {
	CustomerID   uuid.UUID   `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	PolicyIDs    []uuid.UUID `json:"policy_ids"`
	// Document echoes the parsed extraction so the operator can eyeball it.
	Document     any    `json:"document"`
	HealthReport string `json:"health_report,omitempty"`
}

type SummaryResponse struct {
	PolicyID     uuid.UUID `json:"policy_id"`
	HealthReport string    `json:"health_report"`
}
