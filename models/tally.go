package models

import "time"

// Tally is one election instance. Every other entity hangs off a tally and
// operational settings (barcode length, idle timeout, cover printing) are
// read from here at transition time, never cached.
type Tally struct {
	TallyID            int        `gorm:"primaryKey;column:tally_id" json:"tally_id"`
	Name               string     `gorm:"column:name;uniqueIndex" json:"name"`
	Active             bool       `gorm:"column:active;default:true" json:"active"`
	PrintCoverInAudit  bool       `gorm:"column:print_cover_in_audit;default:true" json:"print_cover_in_audit"`
	BarcodeLength      int        `gorm:"column:barcode_length;default:9" json:"barcode_length"`
	IdleTimeoutMinutes int        `gorm:"column:idle_timeout_minutes;default:60" json:"idle_timeout_minutes"`
	CreatedDate        time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate       time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Tally) TableName() string {
	return "tallies"
}
