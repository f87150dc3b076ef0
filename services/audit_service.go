package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// AuditReviewInput is what an audit clerk or supervisor submits.
type AuditReviewInput struct {
	BlankReconciliation      bool                    `json:"blank_reconciliation"`
	BlankResults             bool                    `json:"blank_results"`
	DamagedForm              bool                    `json:"damaged_form"`
	UnclearFigures           bool                    `json:"unclear_figures"`
	Other                    *string                 `json:"other"`
	ActionPrior              *models.ActionsPrior    `json:"action_prior"`
	ResolutionRecommendation *models.AuditResolution `json:"resolution_recommendation"`
	Comment                  *string                 `json:"comment"`
	ForSuperadmin            bool                    `json:"for_superadmin"`
}

// Supervisor actions on an audit.
const (
	AuditActionReturnToTeam = "team"
	AuditActionForward      = "forward"
	AuditActionImplement    = "implement"
)

// CreateAudit moves a form into AUDIT and opens the audit review, linking
// any failed quarantine checks. audited_count is bumped by the transition.
// Any previously active audit is deactivated first.
func CreateAudit(tx *gorm.DB, form *models.ResultForm, user *models.User, forSuperadmin bool, checks []models.QuarantineCheck) (*models.Audit, error) {
	if err := TransitionForm(tx, form, models.FormStateAudit, user); err != nil {
		return nil, err
	}

	if err := tx.Model(&models.Audit{}).
		Where("result_form_id = ? AND active = ?", form.ResultFormID, true).
		Update("active", false).Error; err != nil {
		return nil, err
	}

	audit := models.Audit{
		ResultFormID:  form.ResultFormID,
		ForSuperadmin: forSuperadmin,
		Active:        true,
	}
	if user != nil {
		audit.UserID = &user.UserID
	}

	if err := tx.Create(&audit).Error; err != nil {
		return nil, err
	}
	if len(checks) > 0 {
		if err := tx.Model(&audit).Association("QuarantineChecks").Append(checks); err != nil {
			return nil, err
		}
	}
	if err := RecordRevision(tx, EntityAudit, audit.AuditID, user, audit, "audit opened"); err != nil {
		return nil, err
	}

	return &audit, nil
}

// ActiveAudit returns the single active audit for a form.
func ActiveAudit(db *gorm.DB, resultFormID int) (*models.Audit, error) {
	var audit models.Audit
	err := db.Preload("QuarantineChecks").
		Where("result_form_id = ? AND active = ?", resultFormID, true).
		First(&audit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// FlagForAudit lets a supervisor escalate a form into audit from a later
// pipeline state.
func FlagForAudit(db *gorm.DB, resultFormID int, user *models.User, comment *string) (*models.Audit, error) {
	var audit *models.Audit

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}

		var err error
		audit, err = CreateAudit(tx, &form, user, false, nil)
		if err != nil {
			return err
		}
		if comment != nil {
			audit.TeamComment = comment
			return tx.Save(audit).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

// AuditTeamReview records the audit team's problem flags and
// recommendation.
func AuditTeamReview(db *gorm.DB, resultFormID int, user *models.User, input *AuditReviewInput) (*models.Audit, error) {
	var audit *models.Audit

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateAudit); err != nil {
			return err
		}

		var err error
		audit, err = ActiveAudit(tx, resultFormID)
		if err != nil {
			return err
		}
		if audit == nil {
			return gorm.ErrRecordNotFound
		}

		audit.BlankReconciliation = input.BlankReconciliation
		audit.BlankResults = input.BlankResults
		audit.DamagedForm = input.DamagedForm
		audit.UnclearFigures = input.UnclearFigures
		audit.Other = input.Other
		if input.ActionPrior != nil {
			audit.ActionPrior = *input.ActionPrior
		}
		if input.ResolutionRecommendation != nil {
			audit.ResolutionRecommendation = *input.ResolutionRecommendation
		}
		audit.TeamComment = input.Comment
		audit.ReviewedTeam = true
		audit.UserID = &user.UserID

		if err := tx.Save(audit).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityAudit, audit.AuditID, user, audit, "team review")
	})
	if err != nil {
		return nil, err
	}

	return audit, nil
}

// AuditSupervisorReview handles the supervisor's pass over a reviewed
// audit: return it to the team, forward it to the super administrator, or
// implement the recommended resolution.
func AuditSupervisorReview(db *gorm.DB, resultFormID int, supervisor *models.User, input *AuditReviewInput, action string) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateAudit); err != nil {
			return err
		}

		audit, err := ActiveAudit(tx, resultFormID)
		if err != nil {
			return err
		}
		if audit == nil {
			return gorm.ErrRecordNotFound
		}

		audit.SupervisorID = &supervisor.UserID
		audit.SupervisorComment = input.Comment
		if input.ActionPrior != nil {
			audit.ActionPrior = *input.ActionPrior
		}
		if input.ResolutionRecommendation != nil {
			audit.ResolutionRecommendation = *input.ResolutionRecommendation
		}

		switch action {
		case AuditActionReturnToTeam:
			audit.ReviewedTeam = false
			audit.ReviewedSupervisor = false
		case AuditActionForward:
			audit.ForSuperadmin = true
			audit.ReviewedSupervisor = true
		case AuditActionImplement:
			audit.ReviewedSupervisor = true
			if err := implementAuditResolution(tx, &form, audit, supervisor); err != nil {
				return err
			}
		default:
			return ErrSuspiciousOperation
		}

		if err := tx.Save(audit).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityAudit, audit.AuditID, supervisor, audit, "supervisor "+action)
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// implementAuditResolution performs the supervisor's decision, closes the
// audit, and writes the review timing stats.
func implementAuditResolution(tx *gorm.DB, form *models.ResultForm, audit *models.Audit, supervisor *models.User) error {
	switch audit.ResolutionRecommendation {
	case models.AuditResolutionMakeAvailableForArchive:
		// Archival sanctioned in spite of the quarantine flags; the skip
		// flag records that the checks were consciously bypassed.
		form.SkipQuarantineChecks = true
		if err := tx.Model(&models.ResultForm{}).
			Where("result_form_id = ?", form.ResultFormID).
			Update("skip_quarantine_checks", true).Error; err != nil {
			return err
		}
		if err := TransitionForm(tx, form, models.FormStateArchived, supervisor); err != nil {
			return err
		}

	case models.AuditResolutionNoProblemToDE1,
		models.AuditResolutionClarifiedFiguresToDE1,
		models.AuditResolutionOtherCorrectionToDE1:
		if err := RejectForm(tx, form, models.FormStateDataEntry1, audit.ResolutionRecommendation.String(), supervisor); err != nil {
			return err
		}

	case models.AuditResolutionSendToClearance:
		if err := RejectForm(tx, form, models.FormStateClearance, audit.ResolutionRecommendation.String(), supervisor); err != nil {
			return err
		}
		if _, err := CreateClearance(tx, form, supervisor, models.Clearance{}); err != nil {
			return err
		}

	default:
		return ErrSuspiciousOperation
	}

	audit.Active = false

	stats := models.ResultFormStats{
		ResultFormID: form.ResultFormID,
		UserID:       supervisor.UserID,
		FormState:    models.FormStateAudit,
		StartTime:    audit.CreatedDate,
		EndTime:      time.Now(),
	}
	return tx.Create(&stats).Error
}
