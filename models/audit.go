package models

import "time"

// Audit is the exceptional-case review for forms with numeric anomalies. At
// most one active audit exists per result form.
type Audit struct {
	AuditID      int  `gorm:"primaryKey;column:audit_id" json:"audit_id"`
	ResultFormID int  `gorm:"column:result_form_id;index" json:"result_form_id"`
	UserID       *int `gorm:"column:user_id" json:"user_id,omitempty"`
	SupervisorID *int `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`

	Active             bool `gorm:"column:active;default:true" json:"active"`
	ForSuperadmin      bool `gorm:"column:for_superadmin;default:false" json:"for_superadmin"`
	ReviewedTeam       bool `gorm:"column:reviewed_team;default:false" json:"reviewed_team"`
	ReviewedSupervisor bool `gorm:"column:reviewed_supervisor;default:false" json:"reviewed_supervisor"`

	// Problem flags
	BlankReconciliation bool    `gorm:"column:blank_reconciliation;default:false" json:"blank_reconciliation"`
	BlankResults        bool    `gorm:"column:blank_results;default:false" json:"blank_results"`
	DamagedForm         bool    `gorm:"column:damaged_form;default:false" json:"damaged_form"`
	UnclearFigures      bool    `gorm:"column:unclear_figures;default:false" json:"unclear_figures"`
	Other               *string `gorm:"column:other" json:"other,omitempty"`

	ActionPrior              ActionsPrior    `gorm:"column:action_prior;default:4" json:"action_prior"`
	ResolutionRecommendation AuditResolution `gorm:"column:resolution_recommendation;default:0" json:"resolution_recommendation"`

	TeamComment       *string `gorm:"column:team_comment" json:"team_comment,omitempty"`
	SupervisorComment *string `gorm:"column:supervisor_comment" json:"supervisor_comment,omitempty"`

	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	ResultForm       ResultForm        `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
	QuarantineChecks []QuarantineCheck `gorm:"many2many:audit_quarantine_checks" json:"quarantine_checks,omitempty"`
}

func (Audit) TableName() string {
	return "audits"
}

// Problems lists the problem flags set on this audit.
func (a *Audit) Problems() []string {
	var problems []string
	if a.BlankReconciliation {
		problems = append(problems, "Blank Reconciliation")
	}
	if a.BlankResults {
		problems = append(problems, "Blank Results")
	}
	if a.DamagedForm {
		problems = append(problems, "Damaged Form")
	}
	if a.UnclearFigures {
		problems = append(problems, "Unclear Figures")
	}
	if a.Other != nil && *a.Other != "" {
		problems = append(problems, "Other")
	}
	return problems
}
