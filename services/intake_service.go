package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
	"tally-pipeline-api/utils"
)

// IntakeScan looks up a result form by barcode for the given tally and
// brings it into intake. A repeat scan of a form that moved past intake
// fails with ErrAlreadyIntaken and leaves the form untouched.
func IntakeScan(db *gorm.DB, tallyID int, barcode string, user *models.User) (*models.ResultForm, error) {
	var tally models.Tally
	if err := db.First(&tally, tallyID).Error; err != nil {
		return nil, err
	}

	if err := utils.ValidateBarcode(barcode, tally.BarcodeLength); err != nil {
		return nil, err
	}

	var form models.ResultForm
	err := db.Where("tally_id = ? AND barcode = ?", tallyID, barcode).
		First(&form).Error
	if err != nil {
		return nil, err
	}

	if form.FormState != models.FormStateUnsubmitted && form.FormState != models.FormStateIntake {
		return &form, ErrAlreadyIntaken
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if form.FormState == models.FormStateUnsubmitted {
			if err := TransitionForm(tx, &form, models.FormStateIntake, user); err != nil {
				return err
			}
		}
		form.DateSeen = &now
		return tx.Model(&models.ResultForm{}).
			Where("result_form_id = ?", form.ResultFormID).
			Update("date_seen", now).Error
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// ConfirmIntake is the clerk's confirmation that the center code, center
// name and station number printed on the paper match the database. Each
// divergence sets its own problem flag: an unknown or wrong code flags
// center_code_mismatching, a wrong printed name flags
// center_name_mismatching, a wrong station flags
// form_incorrectly_entered_into_system. Any flag, or a duplicate (center,
// station, ballot), routes the form to CLEARANCE; otherwise the form stays
// in INTAKE awaiting the cover print. An empty centerName skips the name
// check.
func ConfirmIntake(db *gorm.DB, resultFormID int, centerCode int, centerName string, stationNumber int, user *models.User) (*models.ResultForm, *models.Clearance, error) {
	var form models.ResultForm
	var clearance *models.Clearance

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateIntake); err != nil {
			return err
		}

		var center models.Center
		centerErr := tx.Where("tally_id = ? AND code = ?", form.TallyID, centerCode).
			First(&center).Error
		if centerErr != nil && !errors.Is(centerErr, gorm.ErrRecordNotFound) {
			return centerErr
		}

		var flags models.Clearance
		if errors.Is(centerErr, gorm.ErrRecordNotFound) ||
			(form.CenterID != nil && *form.CenterID != center.CenterID) {
			flags.CenterCodeMismatching = true
		} else {
			if centerName != "" && !strings.EqualFold(strings.TrimSpace(centerName), center.Name) {
				flags.CenterNameMismatching = true
			}
			if form.StationNumber != nil && *form.StationNumber != stationNumber {
				flags.FormIncorrectlyEnteredIntoSystem = true
			}
		}

		if flags.CenterCodeMismatching || flags.CenterNameMismatching || flags.FormIncorrectlyEnteredIntoSystem {
			var err error
			clearance, err = routeToClearance(tx, &form, user, flags)
			return err
		}

		if form.CenterID == nil {
			form.CenterID = &center.CenterID
			form.StationNumber = &stationNumber
		}

		// Duplicate guard: another form for the same center, station and
		// ballot means this paper is already in the system.
		if form.BallotID != nil {
			var count int64
			err := tx.Model(&models.ResultForm{}).
				Where("tally_id = ? AND center_id = ? AND station_number = ? AND ballot_id = ? AND result_form_id <> ?",
					form.TallyID, center.CenterID, stationNumber, *form.BallotID, form.ResultFormID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				flags := models.Clearance{FormAlreadyInSystem: true}
				var cerr error
				clearance, cerr = routeToClearance(tx, &form, user, flags)
				return cerr
			}
		}

		return tx.Save(&form).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &form, clearance, nil
}

// PrintCover marks the intake cover sheet printed and advances the form to
// data entry.
func PrintCover(db *gorm.DB, resultFormID int, user *models.User) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateIntake); err != nil {
			return err
		}

		if err := tx.Model(&models.ResultForm{}).
			Where("result_form_id = ?", form.ResultFormID).
			Update("intake_printed", true).Error; err != nil {
			return err
		}
		form.IntakePrinted = true

		return TransitionForm(tx, &form, models.FormStateDataEntry1, user)
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// routeToClearance creates an active clearance with the given problem flags
// and moves the form to CLEARANCE.
func routeToClearance(tx *gorm.DB, form *models.ResultForm, user *models.User, flags models.Clearance) (*models.Clearance, error) {
	if err := TransitionForm(tx, form, models.FormStateClearance, user); err != nil {
		return nil, err
	}
	return CreateClearance(tx, form, user, flags)
}
