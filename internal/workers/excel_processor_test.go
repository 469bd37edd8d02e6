// internal/workers/excel_processor_test.go
package workers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/workers"
	"github.com/ammerola/pharmapos-be/test/helpers"
	"github.com/ammerola/pharmapos-be/test/mocks"
)

func writeStockSheet(t *testing.T, rows [][]string) string {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, title := range []string{"Name", "Generic", "Category", "Quantity", "Purchase", "Selling", "Expiry"} {
		header.AddCell().Value = title
	}

	for _, row := range rows {
		r := sheet.AddRow()
		for _, val := range row {
			r.AddCell().Value = val
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	return helpers.CreateTempFile(t, buf.Bytes(), ".xlsx")
}

func TestExcelProcessor_ProcessExcel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockMedicineService(ctrl)
	mockDB := mocks.NewMockDatabase(ctrl)

	processor := workers.NewExcelProcessor(mockService, mockDB, helpers.TestLogger())

	filePath := writeStockSheet(t, [][]string{
		{"Panadol 500mg", "Paracetamol", "Analgesic", "120", "2.50", "4.00", "2027-03-01"},
		{"Amoxil 250mg", "Amoxicillin", "Antibiotic", "not-a-number", "5.00", "8.00", "2027-06-15"},
		{"Zyrtec 10mg", "Cetirizine", "Antihistamine", "60", "3.10", "", "2027-01-20"},
	})

	mockDB.EXPECT().
		Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(2).
		Return(pgconn.CommandTag{}, nil)

	var saved []domain.Medicine
	mockService.EXPECT().
		SaveMedicines(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, medicines []domain.Medicine) error {
			saved = medicines
			return nil
		})

	payload, err := json.Marshal(workers.ExcelJobPayload{
		JobID:    uuid.New().String(),
		FilePath: filePath,
	})
	require.NoError(t, err)

	task := asynq.NewTask(workers.TypeExcelImport, payload)
	require.NoError(t, processor.ProcessExcel(context.Background(), task))

	// The row with the unparseable quantity is skipped, the rest import
	require.Len(t, saved, 2)

	assert.Equal(t, "Panadol 500mg", saved[0].Name)
	assert.Equal(t, "Paracetamol", saved[0].Generic)
	assert.Equal(t, 120, saved[0].Quantity)
	assert.True(t, saved[0].SellingPrice.Equal(mustDecimal(t, "4.00")))
	assert.Equal(t, "2027-03-01", saved[0].Expiry.Format("2006-01-02"))

	// Missing selling price falls back to a markup over purchase cost
	assert.Equal(t, "Zyrtec 10mg", saved[1].Name)
	assert.True(t, saved[1].SellingPrice.Equal(mustDecimal(t, "4.65")),
		"expected 4.65, got %s", saved[1].SellingPrice)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

