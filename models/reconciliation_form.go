package models

import "time"

// ReconciliationForm holds the count section of a result form for one entry
// version. Rows are never deleted; rejects flip Active to false and the
// inactive copies remain as history.
type ReconciliationForm struct {
	ReconciliationFormID int          `gorm:"primaryKey;column:reconciliation_form_id" json:"reconciliation_form_id"`
	ResultFormID         int          `gorm:"column:result_form_id;index" json:"result_form_id"`
	UserID               int          `gorm:"column:user_id" json:"user_id"`
	EntryVersion         EntryVersion `gorm:"column:entry_version" json:"entry_version"`
	Active               bool         `gorm:"column:active;default:true" json:"active"`

	BallotNumberFrom                 string `gorm:"column:ballot_number_from" json:"ballot_number_from"`
	BallotNumberTo                   string `gorm:"column:ballot_number_to" json:"ballot_number_to"`
	IsStamped                        bool   `gorm:"column:is_stamped" json:"is_stamped"`
	NumberBallotsReceived            int    `gorm:"column:number_ballots_received" json:"number_ballots_received"`
	NumberSignaturesInVR             int    `gorm:"column:number_signatures_in_vr" json:"number_signatures_in_vr"`
	NumberUnusedBallots              int    `gorm:"column:number_unused_ballots" json:"number_unused_ballots"`
	NumberSpoiledBallots             int    `gorm:"column:number_spoiled_ballots" json:"number_spoiled_ballots"`
	NumberCancelledBallots           int    `gorm:"column:number_cancelled_ballots" json:"number_cancelled_ballots"`
	NumberBallotsOutsideBox          int    `gorm:"column:number_ballots_outside_box" json:"number_ballots_outside_box"`
	NumberBallotsInsideBox           int    `gorm:"column:number_ballots_inside_box" json:"number_ballots_inside_box"`
	NumberBallotsInsideAndOutsideBox int    `gorm:"column:number_ballots_inside_and_outside_box" json:"number_ballots_inside_and_outside_box"`
	NumberUnstampedBallots           int    `gorm:"column:number_unstamped_ballots" json:"number_unstamped_ballots"`
	NumberInvalidVotes               int    `gorm:"column:number_invalid_votes" json:"number_invalid_votes"`
	NumberValidVotes                 int    `gorm:"column:number_valid_votes" json:"number_valid_votes"`
	NumberSortedAndCounted           int    `gorm:"column:number_sorted_and_counted" json:"number_sorted_and_counted"`
	// Nullable: legacy forms predate this field. The card check skips when
	// it is nil.
	NumberOfVoterCardsInTheBallotBox *int `gorm:"column:number_of_voter_cards_in_the_ballot_box" json:"number_of_voter_cards_in_the_ballot_box,omitempty"`

	SignaturePollingOfficer1     bool    `gorm:"column:signature_polling_officer_1" json:"signature_polling_officer_1"`
	SignaturePollingOfficer2     bool    `gorm:"column:signature_polling_officer_2" json:"signature_polling_officer_2"`
	SignaturePollingStationChair bool    `gorm:"column:signature_polling_station_chair" json:"signature_polling_station_chair"`
	SignatureDated               bool    `gorm:"column:signature_dated" json:"signature_dated"`
	Notes                        *string `gorm:"column:notes" json:"notes,omitempty"`

	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	ResultForm ResultForm `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
}

func (ReconciliationForm) TableName() string {
	return "reconciliation_forms"
}

// NumberBallotsUsed is the derived count of ballots consumed at the station,
// given the total candidate votes for the form.
func (r *ReconciliationForm) NumberBallotsUsed(candidateVotes int) int {
	return r.NumberCancelledBallots + r.NumberUnstampedBallots +
		r.NumberInvalidVotes + candidateVotes
}

// NumberBallotsExpected is the derived count of countable ballots in the box.
func (r *ReconciliationForm) NumberBallotsExpected() int {
	return r.NumberBallotsInsideBox - r.NumberUnstampedBallots -
		r.NumberInvalidVotes
}
