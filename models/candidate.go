package models

import "time"

// Candidate appears on exactly one ballot. The primary key is supplied by
// the candidates import file rather than auto-generated.
type Candidate struct {
	CandidateID  int       `gorm:"primaryKey;column:candidate_id;autoIncrement:false" json:"candidate_id"`
	BallotID     int       `gorm:"column:ballot_id;index" json:"ballot_id"`
	TallyID      int       `gorm:"column:tally_id" json:"tally_id"`
	FullName     string    `gorm:"column:full_name" json:"full_name"`
	BallotOrder  int       `gorm:"column:ballot_order" json:"ballot_order"`
	RaceType     RaceType  `gorm:"column:race_type" json:"race_type"`
	Active       bool      `gorm:"column:active;default:true" json:"active"`
	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Ballot Ballot `gorm:"foreignKey:BallotID" json:"ballot,omitempty"`
}

func (Candidate) TableName() string {
	return "candidates"
}
