// models/rental.go
package models

import "time"

const RentalTable = "radio_rentals"

// RentalStatus is the closed two-state lifecycle of a ledger row.
// Stored canonically in lowercase; legacy rows written by older tooling
// may carry mixed case, so status joins normalize with LOWER().
type RentalStatus string

const (
	StatusRented   RentalStatus = "rented"
	StatusReturned RentalStatus = "returned"
)

// RentalEntry is one unit-claim event. At most one entry per unit may be
// open (status = rented) at any instant; a partial unique index over
// lower(trim(unit_no)) enforces this at the store.
type RentalEntry struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserName  string       `gorm:"size:100;not null" json:"user_name"`
	Dept      string       `gorm:"size:100;not null;index:idx_rental_dept_status" json:"dept"`
	Phone     string       `gorm:"size:45" json:"phone"`
	StartDate string       `gorm:"size:30" json:"start_date"`
	EndDate   string       `gorm:"size:30" json:"end_date"` // stamped with the return time on close
	Signature string       `gorm:"type:text" json:"signature"`
	UnitNo    string       `gorm:"size:50;index;not null" json:"unit_no"`
	SerialNo  string       `gorm:"size:120" json:"serial_no"` // snapshot at claim time
	Qty       int          `gorm:"not null;default:1" json:"qty"`
	Status    RentalStatus `gorm:"size:20;not null;default:'rented';index:idx_rental_dept_status" json:"status"`
	RentalAt  time.Time    `gorm:"index;not null" json:"rental_at"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (RentalEntry) TableName() string { return RentalTable }
