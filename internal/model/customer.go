package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is an insured person managed by the agency.
// Identity is resolved by (Name, IDNo) when IDNo is present, otherwise by
// Name alone — two distinct people sharing a name and no ID merge into one
// record. Known ambiguity, kept as-is pending a product decision.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"index;not null"`
	IDNo      string    `gorm:"column:id_no;index"`
	Birthday  string
	Phone     string `gorm:"index"`
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Policies []Policy `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
