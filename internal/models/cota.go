package models

import "time"

// DefaultTax is the fraction of profitability withheld for newly created cotas.
// It is assigned once at creation and reused verbatim on every update.
const DefaultTax = 0.15

// Cota represents an investment quota record.
type Cota struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name           string  `gorm:"type:text;not null"`           // Display name, 3 to 50 characters.
	Amount         float64 `gorm:"type:decimal(20,10);not null"` // Invested principal, positive.
	InterestRate   float64 `gorm:"type:decimal(10,4);not null"`  // Percent per month, positive.
	DurationMonths int     `gorm:"not null"`                     // Investment term in months, positive.

	Tax float64 `gorm:"type:decimal(6,4);not null;default:0.15"` // Withholding fraction in [0,1].

	GrossValue    float64 `gorm:"type:decimal(20,10);not null"` // Principal plus profitability.
	NetValue      float64 `gorm:"type:decimal(20,10);not null"` // Gross value minus withheld tax.
	Profitability float64 `gorm:"type:decimal(20,10);not null"` // Simple interest earned before tax.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp, never mutated.
}

// TableName keeps the table name aligned with the original schema.
func (Cota) TableName() string {
	return "cotas"
}
