package models

import "time"

// Clearance is the exceptional-case review for forms with field/center
// identity problems. At most one active clearance exists per result form.
type Clearance struct {
	ClearanceID  int  `gorm:"primaryKey;column:clearance_id" json:"clearance_id"`
	ResultFormID int  `gorm:"column:result_form_id;index" json:"result_form_id"`
	UserID       *int `gorm:"column:user_id" json:"user_id,omitempty"`
	SupervisorID *int `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`

	Active                 bool       `gorm:"column:active;default:true" json:"active"`
	ReviewedTeam           bool       `gorm:"column:reviewed_team;default:false" json:"reviewed_team"`
	ReviewedSupervisor     bool       `gorm:"column:reviewed_supervisor;default:false" json:"reviewed_supervisor"`
	DateTeamModified       *time.Time `gorm:"column:date_team_modified" json:"date_team_modified,omitempty"`
	DateSupervisorModified *time.Time `gorm:"column:date_supervisor_modified" json:"date_supervisor_modified,omitempty"`

	// Problem flags
	CenterNameMissing                bool    `gorm:"column:center_name_missing;default:false" json:"center_name_missing"`
	CenterNameMismatching            bool    `gorm:"column:center_name_mismatching;default:false" json:"center_name_mismatching"`
	CenterCodeMissing                bool    `gorm:"column:center_code_missing;default:false" json:"center_code_missing"`
	CenterCodeMismatching            bool    `gorm:"column:center_code_mismatching;default:false" json:"center_code_mismatching"`
	FormAlreadyInSystem              bool    `gorm:"column:form_already_in_system;default:false" json:"form_already_in_system"`
	FormIncorrectlyEnteredIntoSystem bool    `gorm:"column:form_incorrectly_entered_into_system;default:false" json:"form_incorrectly_entered_into_system"`
	Other                            *string `gorm:"column:other" json:"other,omitempty"`

	ActionPrior              ActionsPrior        `gorm:"column:action_prior;default:4" json:"action_prior"`
	ResolutionRecommendation ClearanceResolution `gorm:"column:resolution_recommendation;default:0" json:"resolution_recommendation"`

	TeamComment       *string `gorm:"column:team_comment" json:"team_comment,omitempty"`
	SupervisorComment *string `gorm:"column:supervisor_comment" json:"supervisor_comment,omitempty"`

	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	ResultForm ResultForm `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
}

func (Clearance) TableName() string {
	return "clearances"
}

// Problems lists the problem flags set on this clearance.
func (c *Clearance) Problems() []string {
	var problems []string
	if c.CenterNameMissing {
		problems = append(problems, "Center Name Missing")
	}
	if c.CenterNameMismatching {
		problems = append(problems, "Center Name Mismatching")
	}
	if c.CenterCodeMissing {
		problems = append(problems, "Center Code Missing")
	}
	if c.CenterCodeMismatching {
		problems = append(problems, "Center Code Mismatching")
	}
	if c.FormAlreadyInSystem {
		problems = append(problems, "Form Already in System")
	}
	if c.FormIncorrectlyEnteredIntoSystem {
		problems = append(problems, "Form Incorrectly Entered into the System")
	}
	if c.Other != nil && *c.Other != "" {
		problems = append(problems, "Other")
	}
	return problems
}
