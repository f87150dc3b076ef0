package models

import "time"

// Canonical quarantine check methods.
const (
	MethodReconciliationCheck = "pass_reconciliation_check"
	MethodOverVotingCheck     = "pass_over_voting_check"
	MethodCardCheck           = "pass_card_check"
)

// QuarantineCheck is the per-tally configuration of one automated check run
// when a form completes quality control. Value is an absolute tolerance and
// dominates when nonzero; otherwise Percentage is applied to the expected
// quantity.
type QuarantineCheck struct {
	QuarantineCheckID int       `gorm:"primaryKey;column:quarantine_check_id" json:"quarantine_check_id"`
	TallyID           int       `gorm:"column:tally_id;uniqueIndex:idx_qc_tally_method" json:"tally_id"`
	Name              string    `gorm:"column:name" json:"name"`
	Method            string    `gorm:"column:method;uniqueIndex:idx_qc_tally_method" json:"method"`
	Value             float64   `gorm:"column:value" json:"value"`
	Percentage        float64   `gorm:"column:percentage" json:"percentage"`
	Active            bool      `gorm:"column:active;default:true" json:"active"`
	CreatedDate       time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate      time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`
}

func (QuarantineCheck) TableName() string {
	return "quarantine_checks"
}

// Tolerance resolves the configured tolerance against an expected quantity.
func (q *QuarantineCheck) Tolerance(expected int) float64 {
	if q.Value > 0 {
		return q.Value
	}
	return q.Percentage / 100.0 * float64(expected)
}
