package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
	"tally-pipeline-api/utils"
)

// ClearanceReviewInput is what a clearance clerk or supervisor submits.
type ClearanceReviewInput struct {
	CenterNameMissing                bool                        `json:"center_name_missing"`
	CenterNameMismatching            bool                        `json:"center_name_mismatching"`
	CenterCodeMissing                bool                        `json:"center_code_missing"`
	CenterCodeMismatching            bool                        `json:"center_code_mismatching"`
	FormAlreadyInSystem              bool                        `json:"form_already_in_system"`
	FormIncorrectlyEnteredIntoSystem bool                        `json:"form_incorrectly_entered_into_system"`
	Other                            *string                     `json:"other"`
	ActionPrior                      *models.ActionsPrior        `json:"action_prior"`
	ResolutionRecommendation         *models.ClearanceResolution `json:"resolution_recommendation"`
	Comment                          *string                     `json:"comment"`
}

// CreateClearance opens a clearance review for a form. Any previously
// active clearance is deactivated first so exactly one row owns the
// session.
func CreateClearance(tx *gorm.DB, form *models.ResultForm, user *models.User, flags models.Clearance) (*models.Clearance, error) {
	if err := tx.Model(&models.Clearance{}).
		Where("result_form_id = ? AND active = ?", form.ResultFormID, true).
		Update("active", false).Error; err != nil {
		return nil, err
	}

	clearance := flags
	clearance.ResultFormID = form.ResultFormID
	clearance.Active = true
	if user != nil {
		clearance.UserID = &user.UserID
	}

	if err := tx.Create(&clearance).Error; err != nil {
		return nil, err
	}
	if err := RecordRevision(tx, EntityClearance, clearance.ClearanceID, user, clearance, "clearance opened"); err != nil {
		return nil, err
	}

	return &clearance, nil
}

// ActiveClearance returns the single active clearance for a form.
func ActiveClearance(db *gorm.DB, resultFormID int) (*models.Clearance, error) {
	var clearance models.Clearance
	err := db.Where("result_form_id = ? AND active = ?", resultFormID, true).
		First(&clearance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &clearance, nil
}

// ClearanceTeamReview records the clearance team's problem flags and
// recommendation.
func ClearanceTeamReview(db *gorm.DB, resultFormID int, user *models.User, input *ClearanceReviewInput) (*models.Clearance, error) {
	var clearance *models.Clearance

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateClearance); err != nil {
			return err
		}

		var err error
		clearance, err = ActiveClearance(tx, resultFormID)
		if err != nil {
			return err
		}
		if clearance == nil {
			clearance, err = CreateClearance(tx, &form, user, models.Clearance{})
			if err != nil {
				return err
			}
		}

		now := time.Now()
		clearance.CenterNameMissing = input.CenterNameMissing
		clearance.CenterNameMismatching = input.CenterNameMismatching
		clearance.CenterCodeMissing = input.CenterCodeMissing
		clearance.CenterCodeMismatching = input.CenterCodeMismatching
		clearance.FormAlreadyInSystem = input.FormAlreadyInSystem
		clearance.FormIncorrectlyEnteredIntoSystem = input.FormIncorrectlyEnteredIntoSystem
		clearance.Other = input.Other
		if input.ActionPrior != nil {
			clearance.ActionPrior = *input.ActionPrior
		}
		if input.ResolutionRecommendation != nil {
			clearance.ResolutionRecommendation = *input.ResolutionRecommendation
		}
		clearance.TeamComment = input.Comment
		clearance.ReviewedTeam = true
		clearance.UserID = &user.UserID
		clearance.DateTeamModified = &now

		if err := tx.Save(clearance).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityClearance, clearance.ClearanceID, user, clearance, "team review")
	})
	if err != nil {
		return nil, err
	}

	return clearance, nil
}

// PrintClearanceCover marks the clearance cover sheet printed. The form
// stays in CLEARANCE; printing carries no workflow transition.
func PrintClearanceCover(db *gorm.DB, resultFormID int, user *models.User) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateClearance); err != nil {
			return err
		}

		if err := tx.Model(&models.ResultForm{}).
			Where("result_form_id = ?", form.ResultFormID).
			Update("clearance_printed", true).Error; err != nil {
			return err
		}
		form.ClearancePrinted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// CreateReplacementForm issues a fresh unsubmitted form for a paper held in
// clearance, carrying over its center, station and ballot. The replacement
// gets its own barcode and enters the workflow from the start; the original
// stays in clearance.
func CreateReplacementForm(db *gorm.DB, resultFormID int, barcode string, supervisor *models.User) (*models.ResultForm, error) {
	var replacement models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateClearance); err != nil {
			return err
		}

		var tally models.Tally
		if err := tx.First(&tally, form.TallyID).Error; err != nil {
			return err
		}
		if err := utils.ValidateBarcode(barcode, tally.BarcodeLength); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ResultForm{}).
			Where("tally_id = ? AND barcode = ?", form.TallyID, barcode).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBarcodeTaken
		}

		replacement = models.ResultForm{
			TallyID:       form.TallyID,
			Barcode:       barcode,
			BallotID:      form.BallotID,
			CenterID:      form.CenterID,
			StationNumber: form.StationNumber,
			Gender:        form.Gender,
			Name:          form.Name,
			OfficeName:    form.OfficeName,
			FormState:     models.FormStateUnsubmitted,
			IsReplacement: true,
			Active:        true,
		}
		if supervisor != nil {
			replacement.CreatedUserID = &supervisor.UserID
		}
		if err := tx.Create(&replacement).Error; err != nil {
			return err
		}
		return recordFormRevision(tx, &replacement, supervisor, "replacement form created")
	})
	if err != nil {
		return nil, err
	}

	return &replacement, nil
}

// ClearanceSupervisorReview records the supervisor's decision and, when a
// resolution is implemented, moves the form on: RESET_TO_PREINTAKE returns
// it to UNSUBMITTED, an approval returns it to DATA_ENTRY_1, and
// PASS_TO_ADMINISTRATOR leaves it in CLEARANCE flagged for the admin.
// okToPass short-circuits the resolution and re-admits the form.
func ClearanceSupervisorReview(db *gorm.DB, resultFormID int, supervisor *models.User, input *ClearanceReviewInput, okToPass bool) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateClearance); err != nil {
			return err
		}

		clearance, err := ActiveClearance(tx, resultFormID)
		if err != nil {
			return err
		}
		if clearance == nil {
			return gorm.ErrRecordNotFound
		}

		now := time.Now()
		clearance.ReviewedSupervisor = true
		clearance.SupervisorID = &supervisor.UserID
		clearance.SupervisorComment = input.Comment
		clearance.DateSupervisorModified = &now
		if input.ActionPrior != nil {
			clearance.ActionPrior = *input.ActionPrior
		}
		if input.ResolutionRecommendation != nil {
			clearance.ResolutionRecommendation = *input.ResolutionRecommendation
		}

		resolved := false
		if okToPass {
			if err := TransitionForm(tx, &form, models.FormStateDataEntry1, supervisor); err != nil {
				return err
			}
			resolved = true
		} else {
			switch clearance.ResolutionRecommendation {
			case models.ClearanceResolutionResetToPreintake:
				if err := TransitionForm(tx, &form, models.FormStateUnsubmitted, supervisor); err != nil {
					return err
				}
				resolved = true
			case models.ClearanceResolutionPassToAdministrator, models.ClearanceResolutionPendingFieldInput, models.ClearanceResolutionEmpty:
				// Form stays in clearance.
			}
		}

		if resolved {
			clearance.Active = false
			stats := models.ResultFormStats{
				ResultFormID: form.ResultFormID,
				UserID:       supervisor.UserID,
				FormState:    models.FormStateClearance,
				StartTime:    clearance.CreatedDate,
				EndTime:      now,
			}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(clearance).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityClearance, clearance.ClearanceID, supervisor, clearance, "supervisor review")
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}
