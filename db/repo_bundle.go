// db/repo_bundle.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"radio_rental_tool/models"

	"gorm.io/gorm"
)

type CreateBundleInput struct {
	ItemName       string
	ModelName      string
	Category       string
	Location       string
	Quantity       int
	StartUnitSeq   int
	StartSerialSeq int
}

type CreateBundleResult struct {
	BundleID uint `json:"bundle_id"`
	Created  int  `json:"created"`
	Skipped  int  `json:"skipped"` // pairs whose unit_no or serial_no already existed
}

// CreateBundle creates one bundle row and up to Quantity sequential units
// labeled "No.<n>" with zero-padded 6-digit serials. Colliding pairs are
// skipped, so the batch may under-produce; the skip count is reported.
func (r *Repo) CreateBundle(ctx context.Context, in CreateBundleInput) (*CreateBundleResult, error) {
	out := &CreateBundleResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b := models.Bundle{
			ItemName:  in.ItemName,
			ModelName: in.ModelName,
			Category:  in.Category,
			Location:  in.Location,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		out.BundleID = b.ID

		for i := 0; i < in.Quantity; i++ {
			unitNo := fmt.Sprintf("No.%d", in.StartUnitSeq+i)
			serial := fmt.Sprintf("%06d", in.StartSerialSeq+i)

			var n int64
			if err := tx.Model(&models.Unit{}).
				Where("lower(trim(unit_no)) = ? OR serial_no = ?", normUnitNo(unitNo), serial).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				out.Skipped++
				continue
			}

			bid := b.ID
			if err := tx.Create(&models.Unit{
				UnitNo:    unitNo,
				SerialNo:  serial,
				ItemName:  in.ItemName,
				ModelName: in.ModelName,
				BundleID:  &bid,
			}).Error; err != nil {
				// a pair registered between the check and the insert is a
				// collision like any other
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					out.Skipped++
					continue
				}
				return err
			}
			out.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BundleUnitRow is one unit of a bundle with its live rental state.
type BundleUnitRow struct {
	UnitNo    string     `json:"unit_no"`
	SerialNo  string     `json:"serial_no"`
	ItemName  string     `json:"item_name"`
	ModelName string     `json:"model_name"`
	State     string     `json:"state"` // rented | available, derived live
	Borrower  string     `json:"borrower"`
	RentalAt  *time.Time `json:"rental_date,omitempty"`
}

// BundleUnits lists the units of a bundle with state derived from the open
// ledger. bundleID 0 means unclassified (bundle_id NULL or 0).
func (r *Repo) BundleUnits(ctx context.Context, bundleID uint) ([]BundleUnitRow, error) {
	where := "u.bundle_id = ?"
	args := []any{bundleID}
	if bundleID == 0 {
		where = "(u.bundle_id IS NULL OR u.bundle_id = 0)"
		args = nil
	}

	var rows []BundleUnitRow
	err := r.DB.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT u.unit_no,
		       u.serial_no,
		       u.item_name,
		       u.model_name,
		       CASE WHEN r.id IS NULL THEN 'available' ELSE 'rented' END AS state,
		       CASE WHEN r.id IS NULL THEN ''
		            ELSE COALESCE(r.user_name,'') || '/' || COALESCE(r.dept,'') || '/' || COALESCE(r.phone,'')
		       END AS borrower,
		       r.rental_at
		  FROM %s u
		  LEFT JOIN %s r
		    ON lower(trim(r.unit_no)) = lower(trim(u.unit_no))
		   AND lower(r.status) = 'rented'
		 WHERE %s
		 ORDER BY u.unit_no`,
		models.UnitTable, models.RentalTable, where), args...).
		Scan(&rows).Error
	return rows, err
}

type BundleSummary struct {
	BundleID     uint   `json:"bundle_id"` // 0 = unclassified
	ItemName     string `json:"item_name"`
	ModelName    string `json:"model_name"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	TotalQty     int64  `json:"total_qty"`
	AvailableQty int64  `json:"available_qty"`
}

type OccupancySummary struct {
	TotalUnits     int64           `json:"total_units"`
	RentedUnits    int64           `json:"rented_units"`
	AvailableUnits int64           `json:"available_units"`
	Bundles        []BundleSummary `json:"bundles"`
}

// Occupancy recomputes all quantities from units joined with open rentals.
// Nothing here reads a stored counter.
func (r *Repo) Occupancy(ctx context.Context) (*OccupancySummary, error) {
	out := &OccupancySummary{Bundles: []BundleSummary{}}

	if err := r.DB.WithContext(ctx).Model(&models.Unit{}).Count(&out.TotalUnits).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Raw(fmt.Sprintf(
		`SELECT COUNT(DISTINCT lower(trim(unit_no))) FROM %s WHERE lower(status) = 'rented'`,
		models.RentalTable)).Scan(&out.RentedUnits).Error; err != nil {
		return nil, err
	}
	out.AvailableUnits = out.TotalUnits - out.RentedUnits
	if out.AvailableUnits < 0 {
		out.AvailableUnits = 0
	}

	if err := r.DB.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT b.id AS bundle_id,
		       b.item_name,
		       b.model_name,
		       b.category,
		       b.location,
		       COUNT(u.unit_no)               AS total_qty,
		       COUNT(u.unit_no) - COUNT(r.id) AS available_qty
		  FROM %s b
		  LEFT JOIN %s u ON u.bundle_id = b.id
		  LEFT JOIN %s r
		    ON lower(trim(r.unit_no)) = lower(trim(u.unit_no))
		   AND lower(r.status) = 'rented'
		 GROUP BY b.id, b.item_name, b.model_name, b.category, b.location
		 ORDER BY b.id DESC`,
		models.BundleTable, models.UnitTable, models.RentalTable)).
		Scan(&out.Bundles).Error; err != nil {
		return nil, err
	}

	// Unclassified units show up as pseudo-bundle 0, same as the JSON API.
	var unclassified BundleSummary
	if err := r.DB.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT COUNT(u.unit_no)               AS total_qty,
		       COUNT(u.unit_no) - COUNT(r.id) AS available_qty
		  FROM %s u
		  LEFT JOIN %s r
		    ON lower(trim(r.unit_no)) = lower(trim(u.unit_no))
		   AND lower(r.status) = 'rented'
		 WHERE u.bundle_id IS NULL OR u.bundle_id = 0`,
		models.UnitTable, models.RentalTable)).
		Scan(&unclassified).Error; err != nil {
		return nil, err
	}
	if unclassified.TotalQty > 0 {
		unclassified.BundleID = 0
		out.Bundles = append(out.Bundles, unclassified)
	}

	return out, nil
}
