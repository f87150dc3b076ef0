package models

import "time"

// ResultFormStats records how long a review of a result form took in a given
// state and who performed it. Written when an audit or clearance review is
// implemented.
type ResultFormStats struct {
	ResultFormStatsID int       `gorm:"primaryKey;column:result_form_stats_id" json:"result_form_stats_id"`
	ResultFormID      int       `gorm:"column:result_form_id;index" json:"result_form_id"`
	UserID            int       `gorm:"column:user_id" json:"user_id"`
	FormState         FormState `gorm:"column:form_state" json:"form_state"`
	StartTime         time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime           time.Time `gorm:"column:end_time" json:"end_time"`
	CreatedDate       time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	ResultForm ResultForm `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
}

func (ResultFormStats) TableName() string {
	return "result_form_stats"
}
