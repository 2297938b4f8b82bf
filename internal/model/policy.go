package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Policy is one insurer/product bundle extracted from a single summary sheet
// (a "policy group" in the extraction schema). Dates are kept as the display
// text the sheet carries — Taiwanese sheets mix ROC-era and western formats
// (114/11/04 vs 2025/11/4) and nothing downstream does date arithmetic.
type Policy struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	PolicyGroupName string
	Insurer         string
	PolicyNo        string
	PayMode         string
	EffectiveDate   string
	PrintDate       string
	// TotalPremiumYear is the normalized annual premium for the whole group.
	TotalPremiumYear int `gorm:"not null;default:0"`
	// RawJSON preserves the full extraction payload for re-runs and audits.
	RawJSON string `gorm:"column:raw_json"`
	// HealthReport is the generated four-section Markdown summary; opaque text.
	HealthReport string
	CreatedBy    string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []PolicyItem `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE"`
}

func (p *Policy) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
