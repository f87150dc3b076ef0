package models

import "time"

// ResultForm is the paper form a polling station fills in, tracked through
// the tally workflow. Barcode is unique within a tally; serial numbers are
// globally unique when set.
type ResultForm struct {
	ResultFormID         int        `gorm:"primaryKey;column:result_form_id" json:"result_form_id"`
	TallyID              int        `gorm:"column:tally_id;uniqueIndex:idx_form_tally_barcode;index:idx_form_dup,priority:4" json:"tally_id"`
	Barcode              string     `gorm:"column:barcode;uniqueIndex:idx_form_tally_barcode" json:"barcode"`
	SerialNumber         *int       `gorm:"column:serial_number;uniqueIndex:idx_form_serial" json:"serial_number,omitempty"`
	BallotID             *int       `gorm:"column:ballot_id;index:idx_form_dup,priority:3" json:"ballot_id,omitempty"`
	CenterID             *int       `gorm:"column:center_id;index:idx_form_dup,priority:1" json:"center_id,omitempty"`
	StationNumber        *int       `gorm:"column:station_number;index:idx_form_dup,priority:2" json:"station_number,omitempty"`
	Gender               *Gender    `gorm:"column:gender" json:"gender,omitempty"`
	Name                 *string    `gorm:"column:name" json:"name,omitempty"`
	OfficeName           *string    `gorm:"column:office_name" json:"office_name,omitempty"`
	FormState            FormState  `gorm:"column:form_state" json:"form_state"`
	PreviousFormState    *FormState `gorm:"column:previous_form_state" json:"previous_form_state,omitempty"`
	RejectReason         *string    `gorm:"column:reject_reason" json:"reject_reason,omitempty"`
	AuditedCount         int        `gorm:"column:audited_count;default:0" json:"audited_count"`
	RejectedCount        int        `gorm:"column:rejected_count;default:0" json:"rejected_count"`
	SkipQuarantineChecks bool       `gorm:"column:skip_quarantine_checks;default:false" json:"skip_quarantine_checks"`
	DuplicateReviewed    bool       `gorm:"column:duplicate_reviewed;default:false" json:"duplicate_reviewed"`
	IsReplacement        bool       `gorm:"column:is_replacement;default:false" json:"is_replacement"`
	IntakePrinted        bool       `gorm:"column:intake_printed;default:false" json:"intake_printed"`
	ClearancePrinted     bool       `gorm:"column:clearance_printed;default:false" json:"clearance_printed"`
	DateSeen             *time.Time `gorm:"column:date_seen" json:"date_seen,omitempty"`
	CreatedUserID        *int       `gorm:"column:created_user_id" json:"created_user_id,omitempty"`
	UserID               *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	Active               bool       `gorm:"column:active;default:true" json:"active"`
	CreatedDate          time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate         time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Tally  Tally   `gorm:"foreignKey:TallyID" json:"tally,omitempty"`
	Ballot *Ballot `gorm:"foreignKey:BallotID" json:"ballot,omitempty"`
	Center *Center `gorm:"foreignKey:CenterID" json:"center,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ResultForm) TableName() string {
	return "result_forms"
}
