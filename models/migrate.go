package models

// AllModels lists every table in AutoMigrate order (parents before children).
func AllModels() []any {
	return []any{
		&Tally{},
		&User{},
		&SubConstituency{},
		&Ballot{},
		&Center{},
		&Station{},
		&Candidate{},
		&ResultForm{},
		&ReconciliationForm{},
		&Result{},
		&QuarantineCheck{},
		&Audit{},
		&Clearance{},
		&WorkflowRequest{},
		&ResultFormStats{},
		&Revision{},
	}
}
