package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PolicyItem is a single covered benefit/contract row within a policy group
// (main or supplementary contract). SumInsured stays as display text — units
// vary wildly across products (萬元, 日額, 倍數). Premium is normalized to a
// non-negative integer at ingest. Category is always one of the eight labels
// in internal/classify.
type PolicyItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PolicyID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ContractType string
	ProductCode  string
	ProductName  string
	Term         string
	CoverageTerm string
	SumInsured   string
	Premium      int    `gorm:"not null;default:0"`
	Category     string `gorm:"index;not null"`
}

func (i *PolicyItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
