// Package store owns persistence of cota records and keeps their derived
// valuation fields consistent on every write.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mavegui/API-Investimentos/internal/models"
	"github.com/Mavegui/API-Investimentos/internal/valuation"
	"gorm.io/gorm"
)

// ErrNotFound marks a lookup for a cota ID that does not exist.
var ErrNotFound = errors.New("store: cota not found")

// List paging bounds applied by the store regardless of caller input.
const (
	// DefaultListLimit is used when the caller does not request a page size.
	DefaultListLimit = 10
	// MaxListLimit caps a requested page size to bound response sizes.
	MaxListLimit = 100
)

const (
	minNameLength = 3
	maxNameLength = 50
)

// FieldError describes a single constraint violation in an input payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates constraint violations for a cota payload.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "store: invalid cota input: " + strings.Join(parts, "; ")
}

// CotaInput carries the mutable fields of a cota for create and update.
type CotaInput struct {
	Name           string
	Amount         float64
	InterestRate   float64
	DurationMonths int
}

// Validate checks the declared constraints and returns a *ValidationError
// listing every violated field, or nil when the input is acceptable.
func (in CotaInput) Validate() error {
	var fields []FieldError
	if nameLen := len([]rune(strings.TrimSpace(in.Name))); nameLen < minNameLength || nameLen > maxNameLength {
		fields = append(fields, FieldError{Field: "name", Message: fmt.Sprintf("must be between %d and %d characters", minNameLength, maxNameLength)})
	}
	if in.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if in.InterestRate <= 0 {
		fields = append(fields, FieldError{Field: "interest_rate", Message: "must be greater than 0"})
	}
	if in.DurationMonths <= 0 {
		fields = append(fields, FieldError{Field: "duration_months", Message: "must be greater than 0"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CotaStore performs CRUD operations on cota records.
type CotaStore struct {
	db *gorm.DB // Database handle for cota queries.
}

// NewCotaStore wires a cota store with its database dependency.
func NewCotaStore(db *gorm.DB) *CotaStore {
	return &CotaStore{db: db}
}

// Create validates the input, computes derived values with the default tax
// and persists a new cota. The store re-runs validation even though handlers
// already did: Compute is the last line of defense before a row is written.
func (s *CotaStore) Create(ctx context.Context, in CotaInput) (*models.Cota, error) {
	if errValidate := in.Validate(); errValidate != nil {
		return nil, errValidate
	}
	res, errCompute := valuation.Compute(in.Amount, in.InterestRate, in.DurationMonths, models.DefaultTax)
	if errCompute != nil {
		return nil, errCompute
	}

	cota := models.Cota{
		Name:           strings.TrimSpace(in.Name),
		Amount:         in.Amount,
		InterestRate:   in.InterestRate,
		DurationMonths: in.DurationMonths,
		Tax:            models.DefaultTax,
		GrossValue:     res.GrossValue,
		NetValue:       res.NetValue,
		Profitability:  res.Profitability,
	}
	if errCreate := s.db.WithContext(ctx).Create(&cota).Error; errCreate != nil {
		return nil, fmt.Errorf("store: create cota: %w", errCreate)
	}
	return &cota, nil
}

// Get fetches a single cota by ID.
func (s *CotaStore) Get(ctx context.Context, id uint64) (*models.Cota, error) {
	var cota models.Cota
	if errFind := s.db.WithContext(ctx).First(&cota, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get cota: %w", errFind)
	}
	return &cota, nil
}

// List returns cotas in insertion order, skipping skip rows and returning at
// most limit rows. Negative skip is floored to 0; limit is defaulted and
// capped at MaxListLimit.
func (s *CotaStore) List(ctx context.Context, skip, limit int) ([]models.Cota, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var cotas []models.Cota
	if errFind := s.db.WithContext(ctx).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&cotas).Error; errFind != nil {
		return nil, fmt.Errorf("store: list cotas: %w", errFind)
	}
	return cotas, nil
}

// Update replaces the mutable fields of an existing cota and recomputes its
// derived values. The stored tax is reused; no update path can change it.
func (s *CotaStore) Update(ctx context.Context, id uint64, in CotaInput) (*models.Cota, error) {
	if errValidate := in.Validate(); errValidate != nil {
		return nil, errValidate
	}

	var cota models.Cota
	if errFind := s.db.WithContext(ctx).First(&cota, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: update cota: %w", errFind)
	}

	res, errCompute := valuation.Compute(in.Amount, in.InterestRate, in.DurationMonths, cota.Tax)
	if errCompute != nil {
		return nil, errCompute
	}

	cota.Name = strings.TrimSpace(in.Name)
	cota.Amount = in.Amount
	cota.InterestRate = in.InterestRate
	cota.DurationMonths = in.DurationMonths
	cota.GrossValue = res.GrossValue
	cota.NetValue = res.NetValue
	cota.Profitability = res.Profitability

	if errSave := s.db.WithContext(ctx).Save(&cota).Error; errSave != nil {
		return nil, fmt.Errorf("store: update cota: %w", errSave)
	}
	return &cota, nil
}

// Delete removes a cota and returns its prior state so callers can report
// what was removed.
func (s *CotaStore) Delete(ctx context.Context, id uint64) (*models.Cota, error) {
	var cota models.Cota
	if errFind := s.db.WithContext(ctx).First(&cota, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: delete cota: %w", errFind)
	}
	res := s.db.WithContext(ctx).Delete(&models.Cota{}, id)
	if res.Error != nil {
		return nil, fmt.Errorf("store: delete cota: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &cota, nil
}
