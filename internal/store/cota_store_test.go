package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Mavegui/API-Investimentos/internal/db"
	"github.com/Mavegui/API-Investimentos/internal/models"
	"github.com/Mavegui/API-Investimentos/internal/valuation"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *CotaStore {
	t.Helper()
	dsn := fmt.Sprintf("file:cotastore_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return NewCotaStore(conn)
}

func validInput() CotaInput {
	return CotaInput{
		Name:           "Cota A",
		Amount:         1000.0,
		InterestRate:   2.0,
		DurationMonths: 12,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestCreateComputesDerivedFieldsWithDefaultTax(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cota, errCreate := s.Create(ctx, validInput())
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if cota.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if cota.Tax != models.DefaultTax {
		t.Fatalf("expected default tax %f, got %f", models.DefaultTax, cota.Tax)
	}
	if !almostEqual(cota.Profitability, 240.0) {
		t.Fatalf("expected profitability=240.0, got %f", cota.Profitability)
	}
	if !almostEqual(cota.GrossValue, 1240.0) {
		t.Fatalf("expected gross_value=1240.0, got %f", cota.GrossValue)
	}
	if !almostEqual(cota.NetValue, 1204.0) {
		t.Fatalf("expected net_value=1204.0, got %f", cota.NetValue)
	}
	if cota.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, errCreate := s.Create(ctx, validInput())
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	got, errGet := s.Get(ctx, created.ID)
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got.Name != created.Name || got.Amount != created.Amount ||
		got.InterestRate != created.InterestRate || got.DurationMonths != created.DurationMonths {
		t.Fatalf("round trip mismatch: created=%+v got=%+v", created, got)
	}
}

func TestCreateRejectsInvalidInputAndPersistsNothing(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		mut   func(*CotaInput)
		field string
	}{
		{name: "short name", mut: func(in *CotaInput) { in.Name = "ab" }, field: "name"},
		{name: "long name", mut: func(in *CotaInput) { in.Name = strings.Repeat("a", 51) }, field: "name"},
		{name: "zero amount", mut: func(in *CotaInput) { in.Amount = 0 }, field: "amount"},
		{name: "negative amount", mut: func(in *CotaInput) { in.Amount = -5 }, field: "amount"},
		{name: "zero rate", mut: func(in *CotaInput) { in.InterestRate = 0 }, field: "interest_rate"},
		{name: "zero duration", mut: func(in *CotaInput) { in.DurationMonths = 0 }, field: "duration_months"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, errCreate := s.Create(ctx, in)
			var verr *ValidationError
			if !errors.As(errCreate, &verr) {
				t.Fatalf("expected ValidationError, got %v", errCreate)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected field %s in violations, got %+v", tc.field, verr.Fields)
			}
		})
	}

	cotas, errList := s.List(ctx, 0, 10)
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(cotas) != 0 {
		t.Fatalf("expected no persisted cotas after rejections, got %d", len(cotas))
	}
}

func TestValidationReportsAllViolatedFields(t *testing.T) {
	in := CotaInput{Name: "ab", Amount: -1, InterestRate: 0, DurationMonths: -2}
	errValidate := in.Validate()
	var verr *ValidationError
	if !errors.As(errValidate, &verr) {
		t.Fatalf("expected ValidationError, got %v", errValidate)
	}
	if len(verr.Fields) != 4 {
		t.Fatalf("expected 4 violations, got %d: %+v", len(verr.Fields), verr.Fields)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := setupStore(t)
	if _, errGet := s.Get(context.Background(), 12345); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errGet)
	}
}

func TestUpdateRecomputesAndReusesStoredTax(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, errCreate := s.Create(ctx, validInput())
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	in := validInput()
	in.Amount = 2000.0
	updated, errUpdate := s.Update(ctx, created.ID, in)
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if updated.Tax != created.Tax {
		t.Fatalf("expected tax unchanged (%f), got %f", created.Tax, updated.Tax)
	}
	if !almostEqual(updated.Profitability, 2*created.Profitability) {
		t.Fatalf("expected profitability to double, got %f", updated.Profitability)
	}
	if !almostEqual(updated.GrossValue, 2000.0+updated.Profitability) {
		t.Fatalf("gross value inconsistent after update: %f", updated.GrossValue)
	}
	if updated.CreatedAt.Unix() != created.CreatedAt.Unix() {
		t.Fatalf("created_at mutated by update: %v vs %v", updated.CreatedAt, created.CreatedAt)
	}

	// Derived fields must match a fresh computation from current fields.
	res, errCompute := valuation.Compute(updated.Amount, updated.InterestRate, updated.DurationMonths, updated.Tax)
	if errCompute != nil {
		t.Fatalf("compute: %v", errCompute)
	}
	if !almostEqual(res.NetValue, updated.NetValue) {
		t.Fatalf("net value out of sync: %f vs %f", res.NetValue, updated.NetValue)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	s := setupStore(t)
	if _, errUpdate := s.Update(context.Background(), 999, validInput()); !errors.Is(errUpdate, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errUpdate)
	}
}

func TestDeleteReturnsPriorStateAndIsNotRepeatable(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, errCreate := s.Create(ctx, validInput())
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	deleted, errDelete := s.Delete(ctx, created.ID)
	if errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if deleted.ID != created.ID || deleted.Name != created.Name {
		t.Fatalf("expected prior state returned, got %+v", deleted)
	}

	if _, errGet := s.Get(ctx, created.ID); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", errGet)
	}
	if _, errAgain := s.Delete(ctx, created.ID); !errors.Is(errAgain, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", errAgain)
	}
}

func TestListPaginatesInInsertionOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	ids := make([]uint64, 0, 15)
	for i := 0; i < 15; i++ {
		in := validInput()
		in.Name = fmt.Sprintf("Cota %02d", i)
		cota, errCreate := s.Create(ctx, in)
		if errCreate != nil {
			t.Fatalf("create %d: %v", i, errCreate)
		}
		ids = append(ids, cota.ID)
	}

	first, errFirst := s.List(ctx, 0, 10)
	if errFirst != nil {
		t.Fatalf("list first page: %v", errFirst)
	}
	if len(first) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(first))
	}
	for i, cota := range first {
		if cota.ID != ids[i] {
			t.Fatalf("expected insertion order, got id %d at position %d", cota.ID, i)
		}
	}

	rest, errRest := s.List(ctx, 10, 10)
	if errRest != nil {
		t.Fatalf("list second page: %v", errRest)
	}
	if len(rest) != 5 {
		t.Fatalf("expected 5 remaining rows, got %d", len(rest))
	}
	if rest[0].ID != ids[10] {
		t.Fatalf("expected page to start at id %d, got %d", ids[10], rest[0].ID)
	}
}

func TestListAppliesDefaultsAndCap(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		in := validInput()
		in.Name = fmt.Sprintf("Cota %02d", i)
		if _, errCreate := s.Create(ctx, in); errCreate != nil {
			t.Fatalf("create %d: %v", i, errCreate)
		}
	}

	defaulted, errDefault := s.List(ctx, -5, 0)
	if errDefault != nil {
		t.Fatalf("list defaulted: %v", errDefault)
	}
	if len(defaulted) != DefaultListLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultListLimit, len(defaulted))
	}

	capped, errCap := s.List(ctx, 0, 100000)
	if errCap != nil {
		t.Fatalf("list capped: %v", errCap)
	}
	if len(capped) != 12 {
		t.Fatalf("expected all 12 rows under the cap, got %d", len(capped))
	}
}
