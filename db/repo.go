package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"radio_rental_tool/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var (
	ErrDuplicateUnit    = errors.New("unit_no or serial_no already registered")
	ErrUnitRented       = errors.New("unit has an open rental")
	ErrDoubleAllocation = errors.New("unit already rented")
)

// unit_no comparisons are case- and whitespace-insensitive everywhere.
func normUnitNo(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Unit Registry

func (r *Repo) RegisterUnit(ctx context.Context, u *models.Unit) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Unit{}).
		Where("lower(trim(unit_no)) = ? OR serial_no = ?", normUnitNo(u.UnitNo), u.SerialNo).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateUnit
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		// a raced registration lands on the unique indexes, same answer
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUnit
		}
		return err
	}
	return nil
}

func (r *Repo) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := r.DB.WithContext(ctx).Order("unit_no").Find(&units).Error
	return units, err
}

func (r *Repo) FindUnitByNo(ctx context.Context, unitNo string) (*models.Unit, error) {
	var u models.Unit
	if err := r.DB.WithContext(ctx).
		Where("lower(trim(unit_no)) = ?", normUnitNo(unitNo)).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUnit removes a unit unless it has an open rental. The guard is
// evaluated inside the DELETE statement itself, not read-then-write.
func (r *Repo) DeleteUnit(ctx context.Context, unitNo string) error {
	res := r.DB.WithContext(ctx).Exec(fmt.Sprintf(`
		DELETE FROM %s
		 WHERE lower(trim(unit_no)) = ?
		   AND NOT EXISTS (
		     SELECT 1 FROM %s r
		      WHERE lower(trim(r.unit_no)) = lower(trim(%s.unit_no))
		        AND lower(r.status) = 'rented')`,
		models.UnitTable, models.RentalTable, models.UnitTable),
		normUnitNo(unitNo))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Unit{}).
		Where("lower(trim(unit_no)) = ?", normUnitNo(unitNo)).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUnitRented
	}
	return gorm.ErrRecordNotFound
}

type BulkDeleteResult struct {
	Deleted int      `json:"deleted"`
	Skipped []string `json:"skipped"` // rented or unknown unit numbers
}

func (r *Repo) BulkDeleteUnits(ctx context.Context, unitNos []string) (*BulkDeleteResult, error) {
	out := &BulkDeleteResult{Skipped: []string{}}
	for _, no := range unitNos {
		switch err := r.DeleteUnit(ctx, no); {
		case err == nil:
			out.Deleted++
		case errors.Is(err, ErrUnitRented) || errors.Is(err, gorm.ErrRecordNotFound):
			out.Skipped = append(out.Skipped, no)
		default:
			return nil, err
		}
	}
	return out, nil
}
