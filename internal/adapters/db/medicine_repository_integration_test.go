//go:build integration
// +build integration

package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/pharmapos-be/internal/adapters/db"
	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
	"github.com/ammerola/pharmapos-be/test/helpers"
)

type MedicineRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.MedicineRepository
	ctx    context.Context
}

func (s *MedicineRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewMedicineRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *MedicineRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *MedicineRepositorySuite) TestFindAll_Pagination() {
	for i := 0; i < 25; i++ {
		medicine := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = fmt.Sprintf("Medicine %02d", i)
		})
		err := s.repo.Save(s.ctx, medicine)
		s.NoError(err)
	}

	params := ports.MedicineQueryParams{
		Limit:     10,
		Offset:    0,
		SortBy:    "name",
		SortOrder: "asc",
	}

	medicines, totalCount, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(medicines, 10)
	s.Equal(int64(25), totalCount)
	s.Equal("Medicine 00", medicines[0].Name)
	s.Equal("Medicine 09", medicines[9].Name)

	params.Offset = 20
	medicines, totalCount, err = s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(medicines, 5)
	s.Equal(int64(25), totalCount)
	s.Equal("Medicine 20", medicines[0].Name)
}

func (s *MedicineRepositorySuite) TestFindAll_Filtering() {
	categories := []string{"Antibiotic", "Analgesic", "Antacid"}
	for _, category := range categories {
		for j := 0; j < 3; j++ {
			medicine := helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.Category = category
				m.Name = fmt.Sprintf("%s %d", category, j)
			})
			err := s.repo.Save(s.ctx, medicine)
			s.NoError(err)
		}
	}

	params := ports.MedicineQueryParams{
		Category: "Analgesic",
		Limit:    10,
	}

	medicines, totalCount, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(medicines, 3)
	s.Equal(int64(3), totalCount)
	for _, m := range medicines {
		s.Equal("Analgesic", m.Category)
	}
}

func (s *MedicineRepositorySuite) TestFindAll_Search() {
	rows := []struct {
		name    string
		generic string
	}{
		{"Panadol Extra", "Paracetamol"},
		{"Calpol Syrup", "Paracetamol"},
		{"Brufen 400", "Ibuprofen"},
	}
	for _, row := range rows {
		medicine := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = row.name
			m.Generic = row.generic
		})
		err := s.repo.Save(s.ctx, medicine)
		s.NoError(err)
	}

	// Search matches either the brand name or the generic name.
	params := ports.MedicineQueryParams{Search: "paracetamol", Limit: 10}
	medicines, totalCount, err := s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(medicines, 2)
	s.Equal(int64(2), totalCount)

	params.Search = "brufen"
	medicines, totalCount, err = s.repo.FindAll(s.ctx, params)
	s.NoError(err)
	s.Len(medicines, 1)
	s.Equal(int64(1), totalCount)
	s.Equal("Brufen 400", medicines[0].Name)
}

func (s *MedicineRepositorySuite) TestExpiryScans() {
	now := time.Now().UTC()

	expired := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Name = "Expired Lot"
		m.Expiry = now.AddDate(0, 0, -10)
	})
	expiring := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Name = "Expiring Lot"
		m.Expiry = now.AddDate(0, 0, 7)
	})
	fresh := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Name = "Fresh Lot"
		m.Expiry = now.AddDate(1, 0, 0)
	})
	for _, m := range []*domain.Medicine{expired, expiring, fresh} {
		s.NoError(s.repo.Save(s.ctx, m))
	}

	expiringRows, err := s.repo.FindExpiringBetween(s.ctx, now, now.AddDate(0, 0, 30))
	s.NoError(err)
	s.Len(expiringRows, 1)
	s.Equal("Expiring Lot", expiringRows[0].Name)

	expiredRows, err := s.repo.FindExpiredBefore(s.ctx, now)
	s.NoError(err)
	s.Len(expiredRows, 1)
	s.Equal("Expired Lot", expiredRows[0].Name)

	expiringCount, err := s.repo.CountExpiringBetween(s.ctx, now, now.AddDate(0, 0, 30))
	s.NoError(err)
	s.Equal(int64(1), expiringCount)

	expiredCount, err := s.repo.CountExpiredBefore(s.ctx, now)
	s.NoError(err)
	s.Equal(int64(1), expiredCount)
}

func (s *MedicineRepositorySuite) TestLowStockScans() {
	quantities := []int{0, 3, 10, 50}
	for i, qty := range quantities {
		medicine := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = fmt.Sprintf("Stock Level %d", i)
			m.Quantity = qty
		})
		s.NoError(s.repo.Save(s.ctx, medicine))
	}

	low, err := s.repo.FindLowStock(s.ctx, 10)
	s.NoError(err)
	s.Len(low, 3)

	count, err := s.repo.CountLowStock(s.ctx, 10)
	s.NoError(err)
	s.Equal(int64(3), count)
}

func (s *MedicineRepositorySuite) TestStockPurchaseValue() {
	first := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Quantity = 10
		m.PurchasePrice = decimal.NewFromFloat(2.50)
	})
	second := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Quantity = 4
		m.PurchasePrice = decimal.NewFromFloat(7.00)
	})
	s.NoError(s.repo.Save(s.ctx, first))
	s.NoError(s.repo.Save(s.ctx, second))

	value, err := s.repo.StockPurchaseValue(s.ctx)
	s.NoError(err)
	s.True(decimal.NewFromFloat(53.00).Equal(value), "got %s", value)
}

func (s *MedicineRepositorySuite) TestConcurrentAdjustments() {
	medicine := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Quantity = 10
	})
	s.NoError(s.repo.Save(s.ctx, medicine))

	// 20 concurrent single-unit decrements against 10 units of stock.
	// Exactly 10 must succeed and the quantity must land on zero.
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			errs <- s.repo.AdjustQuantity(context.Background(), medicine.ID, -1)
		}()
	}

	succeeded := 0
	for i := 0; i < 20; i++ {
		if err := <-errs; err == nil {
			succeeded++
		}
	}
	s.Equal(10, succeeded)

	current, err := s.repo.FindByID(s.ctx, medicine.ID)
	s.NoError(err)
	s.Equal(0, current.Quantity)
}

func TestMedicineRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(MedicineRepositorySuite))
}
