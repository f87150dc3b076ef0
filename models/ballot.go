package models

import "time"

// Ballot is one race/contest. Number is unique within a tally. Once a ballot
// is released for results its candidates' counts are read-only.
type Ballot struct {
	BallotID            int       `gorm:"primaryKey;column:ballot_id" json:"ballot_id"`
	TallyID             int       `gorm:"column:tally_id;uniqueIndex:idx_ballot_tally_number" json:"tally_id"`
	Number              int       `gorm:"column:number;uniqueIndex:idx_ballot_tally_number" json:"number"`
	RaceType            RaceType  `gorm:"column:race_type" json:"race_type"`
	AvailableForRelease bool      `gorm:"column:available_for_release;default:false" json:"available_for_release"`
	Active              bool      `gorm:"column:active;default:true" json:"active"`
	CreatedDate         time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate        time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Tally      Tally       `gorm:"foreignKey:TallyID" json:"tally,omitempty"`
	Candidates []Candidate `gorm:"foreignKey:BallotID" json:"candidates,omitempty"`
}

func (Ballot) TableName() string {
	return "ballots"
}

// SubConstituency groups centers under a code and carries the set of ballots
// voted on inside it.
type SubConstituency struct {
	SubConstituencyID int       `gorm:"primaryKey;column:sub_constituency_id" json:"sub_constituency_id"`
	TallyID           int       `gorm:"column:tally_id;uniqueIndex:idx_subcon_tally_code" json:"tally_id"`
	Code              int       `gorm:"column:code;uniqueIndex:idx_subcon_tally_code" json:"code"`
	FieldOffice       string    `gorm:"column:field_office" json:"field_office"`
	NumberOfBallots   int       `gorm:"column:number_of_ballots" json:"number_of_ballots"`
	Active            bool      `gorm:"column:active;default:true" json:"active"`
	CreatedDate       time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate      time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Ballots []Ballot `gorm:"many2many:sub_constituency_ballots" json:"ballots,omitempty"`
}

func (SubConstituency) TableName() string {
	return "sub_constituencies"
}
