package models

import "time"

// Result is one candidate's vote count on a result form for one entry
// version. Rows are never deleted; rejects flip Active to false.
type Result struct {
	ResultID     int          `gorm:"primaryKey;column:result_id" json:"result_id"`
	ResultFormID int          `gorm:"column:result_form_id;index" json:"result_form_id"`
	CandidateID  int          `gorm:"column:candidate_id;index" json:"candidate_id"`
	UserID       int          `gorm:"column:user_id" json:"user_id"`
	EntryVersion EntryVersion `gorm:"column:entry_version" json:"entry_version"`
	Votes        int          `gorm:"column:votes" json:"votes"`
	Active       bool         `gorm:"column:active;default:true" json:"active"`
	CreatedDate  time.Time    `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time    `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	ResultForm ResultForm `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
	Candidate  Candidate  `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}

func (Result) TableName() string {
	return "results"
}
