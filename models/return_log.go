// models/return_log.go
package models

import "time"

const ReturnLogTable = "radio_returns_log"

type ReturnMethod string

const (
	MethodReturn     ReturnMethod = "return"
	MethodAdminPurge ReturnMethod = "admin_purge"
)

// ReturnLogEntry records the closing of one rental row. Immutable.
// Administrative purges also land here, tagged admin_purge, so the
// escape hatch stays visible in the audit trail.
type ReturnLogEntry struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	RentalID      uint         `gorm:"index;not null" json:"rental_id"`
	Dept          string       `gorm:"size:100;not null" json:"dept"`
	ReturnerName  string       `gorm:"size:100" json:"returner_name"`
	ReturnerPhone string       `gorm:"size:45" json:"returner_phone"`
	Method        ReturnMethod `gorm:"size:20;not null;default:'return'" json:"method"`
	ReturnedAt    time.Time    `gorm:"not null" json:"returned_at"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (ReturnLogEntry) TableName() string { return ReturnLogTable }
