package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"radio_rental_tool/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens a private in-memory database and runs the real
// migration, partial unique index included.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	return NewRepo(gdb)
}

func seedBundle(t *testing.T, r *Repo, qty int) *CreateBundleResult {
	t.Helper()
	res, err := r.CreateBundle(context.Background(), CreateBundleInput{
		ItemName:       "Radio",
		ModelName:      "M1",
		Category:       "cat",
		Location:       "loc",
		Quantity:       qty,
		StartUnitSeq:   1,
		StartSerialSeq: 1,
	})
	require.NoError(t, err)
	return res
}

func testRenter(dept string) RenterInfo {
	return RenterInfo{
		UserName:  "Jordan Lee",
		Dept:      dept,
		Phone:     "01012345678",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-07",
		Signature: "data:image/png;base64,sig",
	}
}

func openStatuses(t *testing.T, r *Repo, unitNo string) []models.RentalEntry {
	t.Helper()
	var entries []models.RentalEntry
	require.NoError(t, r.DB.
		Where("lower(trim(unit_no)) = ? AND lower(status) = ?", normUnitNo(unitNo), models.StatusRented).
		Find(&entries).Error)
	return entries
}
