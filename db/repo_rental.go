// db/repo_rental.go
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"radio_rental_tool/models"

	"gorm.io/gorm"
)

// RenterInfo is the claim header shared by every unit in a batch.
// Field completeness is the caller's concern (request binding), not ours.
type RenterInfo struct {
	UserName  string
	Dept      string
	Phone     string
	StartDate string
	EndDate   string
	Signature string
}

// ClaimOutcome reports one unit of a batch claim. A unit that lost the
// allocation race carries Error and no Entry; its siblings are unaffected.
type ClaimOutcome struct {
	UnitNo string              `json:"unit_no"`
	Entry  *models.RentalEntry `json:"entry,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// ListAvailableUnits computes the available set: registry minus units with
// an open rental. Derived on every call, never materialized.
func (r *Repo) ListAvailableUnits(ctx context.Context) ([]models.Unit, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Unit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var units []models.Unit
	err := r.DB.WithContext(ctx).
		Table(models.UnitTable+" u").
		Select("u.*").
		Joins(fmt.Sprintf(
			"LEFT JOIN %s r ON lower(trim(r.unit_no)) = lower(trim(u.unit_no)) AND lower(r.status) = 'rented'",
			models.RentalTable)).
		Where("r.id IS NULL").
		Order("u.unit_no").
		Find(&units).Error
	return units, total, err
}

// ClaimUnits claims each requested unit independently. Store-level failures
// abort the whole batch; a lost race only fails its own unit.
func (r *Repo) ClaimUnits(ctx context.Context, info RenterInfo, unitNos []string) ([]ClaimOutcome, error) {
	now := time.Now()
	outcomes := make([]ClaimOutcome, 0, len(unitNos))
	for _, unitNo := range unitNos {
		oc := ClaimOutcome{UnitNo: unitNo}
		entry, err := r.claimOne(ctx, info, unitNo, now)
		switch {
		case err == nil:
			oc.Entry = entry
		case errors.Is(err, ErrDoubleAllocation):
			oc.Error = ErrDoubleAllocation.Error()
		default:
			return nil, err
		}
		outcomes = append(outcomes, oc)
	}
	return outcomes, nil
}

// claimOne inserts the ledger row only if no open row exists for the unit,
// in a single statement. The partial unique index backstops the guard.
func (r *Repo) claimOne(ctx context.Context, info RenterInfo, unitNo string, now time.Time) (*models.RentalEntry, error) {
	serial := ""
	u, err := r.FindUnitByNo(ctx, unitNo)
	switch {
	case err == nil:
		serial = u.SerialNo
	case errors.Is(err, gorm.ErrRecordNotFound):
		// orphan identifiers are tolerated rather than failing the batch
		serial = "Unknown-" + strings.TrimSpace(unitNo)
	default:
		return nil, err
	}

	var entry models.RentalEntry
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(fmt.Sprintf(`
			INSERT INTO %s
			  (user_name, dept, phone, start_date, end_date, signature,
			   unit_no, serial_no, qty, status, rental_at, created_at, updated_at)
			SELECT ?, ?, ?, ?, ?, ?, ?, ?, 1, 'rented', ?, ?, ?
			 WHERE NOT EXISTS (
			   SELECT 1 FROM %s
			    WHERE lower(trim(unit_no)) = ? AND lower(status) = 'rented')`,
			models.RentalTable, models.RentalTable),
			info.UserName, info.Dept, info.Phone, info.StartDate, info.EndDate, info.Signature,
			strings.TrimSpace(unitNo), serial, now, now, now,
			normUnitNo(unitNo))
		if res.Error != nil {
			// concurrent claims can both pass the guard on their snapshots;
			// the loser hits the partial unique index instead
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrDoubleAllocation
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDoubleAllocation
		}
		return tx.Where("lower(trim(unit_no)) = ? AND lower(status) = ?", normUnitNo(unitNo), models.StatusRented).
			Order("id DESC").
			First(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// OpenEntriesByDept lists a department's open rentals, newest first. This
// is the return candidate list.
func (r *Repo) OpenEntriesByDept(ctx context.Context, dept string) ([]models.RentalEntry, error) {
	var entries []models.RentalEntry
	err := r.DB.WithContext(ctx).
		Where("dept = ? AND lower(status) = ?", dept, models.StatusRented).
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}

// ListOpenEntries lists all open rentals, optionally filtered by a keyword
// over serial_no/unit_no. Admin dashboard view.
func (r *Repo) ListOpenEntries(ctx context.Context, q string) ([]models.RentalEntry, error) {
	tx := r.DB.WithContext(ctx).Where("lower(status) = ?", models.StatusRented)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("serial_no LIKE ? OR unit_no LIKE ?", like, like)
	}
	var entries []models.RentalEntry
	err := tx.Order("id DESC").Find(&entries).Error
	return entries, err
}

// ListReturnedEntries lists closed rentals, most recently closed first.
func (r *Repo) ListReturnedEntries(ctx context.Context) ([]models.RentalEntry, error) {
	var entries []models.RentalEntry
	err := r.DB.WithContext(ctx).
		Where("lower(status) = ?", models.StatusReturned).
		Order("end_date DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

type ReturnerInfo struct {
	Name  string
	Phone string
}

type ReturnResult struct {
	Returned int      `json:"returned"`
	Skipped  []string `json:"skipped"` // unknown or already-closed identifiers
}

// ReturnUnits closes the newest open entry per identifier for the given
// department. Identifiers match the serial snapshot exactly or the unit_no
// normalized. Unknown and already-closed identifiers are skipped, not
// errors: a repeated submission closes nothing the second time.
func (r *Repo) ReturnUnits(ctx context.Context, dept string, returner ReturnerInfo, ids []string) (*ReturnResult, error) {
	out := &ReturnResult{Skipped: []string{}}
	for _, id := range ids {
		closed, err := r.returnOne(ctx, dept, returner, id)
		if err != nil {
			return nil, err
		}
		if closed {
			out.Returned++
		} else {
			out.Skipped = append(out.Skipped, id)
		}
	}
	return out, nil
}

func (r *Repo) returnOne(ctx context.Context, dept string, returner ReturnerInfo, id string) (bool, error) {
	var closed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.RentalEntry
		err := tx.
			Where("dept = ? AND lower(status) = ? AND (serial_no = ? OR lower(trim(unit_no)) = ?)",
				dept, models.StatusRented, strings.TrimSpace(id), normUnitNo(id)).
			Order("id DESC").
			First(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		// Conditional transition: a concurrent return of the same entry
		// flips it first and this one becomes a skip, never a second close.
		res := tx.Model(&models.RentalEntry{}).
			Where("id = ? AND lower(status) = ?", e.ID, models.StatusRented).
			Updates(map[string]any{
				"status":   models.StatusReturned,
				"end_date": now.Format("2006-01-02 15:04:05"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(&models.ReturnLogEntry{
			RentalID:      e.ID,
			Dept:          dept,
			ReturnerName:  returner.Name,
			ReturnerPhone: returner.Phone,
			Method:        models.MethodReturn,
			ReturnedAt:    now,
		}).Error; err != nil {
			return err
		}
		closed = true
		return nil
	})
	return closed, err
}

type PurgeResult struct {
	Purged  int      `json:"purged"`
	Skipped []string `json:"skipped"`
}

// PurgeOpenEntries deletes still-open ledger rows matched by serial_no,
// bypassing the return flow. Each deleted row leaves an admin_purge entry
// in the return log so the escape hatch stays auditable.
func (r *Repo) PurgeOpenEntries(ctx context.Context, serials []string) (*PurgeResult, error) {
	out := &PurgeResult{Skipped: []string{}}
	for _, sn := range serials {
		n, err := r.purgeOne(ctx, sn)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out.Purged += n
		} else {
			out.Skipped = append(out.Skipped, sn)
		}
	}
	return out, nil
}

func (r *Repo) purgeOne(ctx context.Context, serial string) (int, error) {
	var purged int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []models.RentalEntry
		if err := tx.Where("serial_no = ? AND lower(status) = ?", strings.TrimSpace(serial), models.StatusRented).
			Find(&entries).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, e := range entries {
			res := tx.Where("id = ? AND lower(status) = ?", e.ID, models.StatusRented).
				Delete(&models.RentalEntry{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			if err := tx.Create(&models.ReturnLogEntry{
				RentalID:   e.ID,
				Dept:       e.Dept,
				Method:     models.MethodAdminPurge,
				ReturnedAt: now,
			}).Error; err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	return purged, err
}
