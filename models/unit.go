// models/unit.go
package models

import "time"

const UnitTable = "radio_units"
const BundleTable = "radio_bundles"

type Unit struct {
	UnitNo    string    `gorm:"primaryKey;size:50" json:"unit_no"` // human-assigned, e.g. "No.17"
	SerialNo  string    `gorm:"size:120;uniqueIndex;not null" json:"serial_no"`
	ItemName  string    `gorm:"size:200" json:"item_name"`
	ModelName string    `gorm:"size:200" json:"model_name"`
	BundleID  *uint     `gorm:"index" json:"bundle_id,omitempty"` // NULL/0 = unclassified
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bundle is a grouping label for units provisioned together.
// Quantities are never stored here; they are computed live from
// radio_units joined with open rentals.
type Bundle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemName  string    `gorm:"size:200;not null" json:"item_name"`
	ModelName string    `gorm:"size:200;not null" json:"model_name"`
	Category  string    `gorm:"size:100" json:"category"`
	Location  string    `gorm:"size:200" json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Unit) TableName() string   { return UnitTable }
func (Bundle) TableName() string { return BundleTable }
