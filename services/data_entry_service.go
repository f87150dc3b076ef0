package services

import (
	"errors"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// ReconciliationInput carries the count section of a transcription pass.
type ReconciliationInput struct {
	BallotNumberFrom                 string  `json:"ballot_number_from"`
	BallotNumberTo                   string  `json:"ballot_number_to"`
	IsStamped                        bool    `json:"is_stamped"`
	NumberBallotsReceived            int     `json:"number_ballots_received" binding:"min=0"`
	NumberSignaturesInVR             int     `json:"number_signatures_in_vr" binding:"min=0"`
	NumberUnusedBallots              int     `json:"number_unused_ballots" binding:"min=0"`
	NumberSpoiledBallots             int     `json:"number_spoiled_ballots" binding:"min=0"`
	NumberCancelledBallots           int     `json:"number_cancelled_ballots" binding:"min=0"`
	NumberBallotsOutsideBox          int     `json:"number_ballots_outside_box" binding:"min=0"`
	NumberBallotsInsideBox           int     `json:"number_ballots_inside_box" binding:"min=0"`
	NumberBallotsInsideAndOutsideBox int     `json:"number_ballots_inside_and_outside_box" binding:"min=0"`
	NumberUnstampedBallots           int     `json:"number_unstamped_ballots" binding:"min=0"`
	NumberInvalidVotes               int     `json:"number_invalid_votes" binding:"min=0"`
	NumberValidVotes                 int     `json:"number_valid_votes" binding:"min=0"`
	NumberSortedAndCounted           int     `json:"number_sorted_and_counted" binding:"min=0"`
	NumberOfVoterCardsInTheBallotBox *int    `json:"number_of_voter_cards_in_the_ballot_box"`
	SignaturePollingOfficer1         bool    `json:"signature_polling_officer_1"`
	SignaturePollingOfficer2         bool    `json:"signature_polling_officer_2"`
	SignaturePollingStationChair     bool    `json:"signature_polling_station_chair"`
	SignatureDated                   bool    `json:"signature_dated"`
	Notes                            *string `json:"notes"`
}

// CandidateVoteInput is one candidate row of a transcription pass.
type CandidateVoteInput struct {
	CandidateID int `json:"candidate_id" binding:"required"`
	Votes       int `json:"votes" binding:"min=0"`
}

func (in *ReconciliationInput) toModel(formID, userID int, version models.EntryVersion) models.ReconciliationForm {
	return models.ReconciliationForm{
		ResultFormID:                     formID,
		UserID:                           userID,
		EntryVersion:                     version,
		BallotNumberFrom:                 in.BallotNumberFrom,
		BallotNumberTo:                   in.BallotNumberTo,
		IsStamped:                        in.IsStamped,
		NumberBallotsReceived:            in.NumberBallotsReceived,
		NumberSignaturesInVR:             in.NumberSignaturesInVR,
		NumberUnusedBallots:              in.NumberUnusedBallots,
		NumberSpoiledBallots:             in.NumberSpoiledBallots,
		NumberCancelledBallots:           in.NumberCancelledBallots,
		NumberBallotsOutsideBox:          in.NumberBallotsOutsideBox,
		NumberBallotsInsideBox:           in.NumberBallotsInsideBox,
		NumberBallotsInsideAndOutsideBox: in.NumberBallotsInsideAndOutsideBox,
		NumberUnstampedBallots:           in.NumberUnstampedBallots,
		NumberInvalidVotes:               in.NumberInvalidVotes,
		NumberValidVotes:                 in.NumberValidVotes,
		NumberSortedAndCounted:           in.NumberSortedAndCounted,
		NumberOfVoterCardsInTheBallotBox: in.NumberOfVoterCardsInTheBallotBox,
		SignaturePollingOfficer1:         in.SignaturePollingOfficer1,
		SignaturePollingOfficer2:         in.SignaturePollingOfficer2,
		SignaturePollingStationChair:     in.SignaturePollingStationChair,
		SignatureDated:                   in.SignatureDated,
		Notes:                            in.Notes,
	}
}

// SaveDataEntry records one complete transcription pass (reconciliation
// counts plus one vote row per candidate) for the form's current data entry
// state, then advances the form: DATA_ENTRY_1 to DATA_ENTRY_2, DATA_ENTRY_2
// to CORRECTION.
//
// Data entry 2 must be performed by a different user than data entry 1. An
// active pass owned by another clerk cannot be overwritten; the clerk's
// in-progress rows stay active across idle timeouts and only a reject to
// DATA_ENTRY_1 clears them.
func SaveDataEntry(db *gorm.DB, resultFormID int, user *models.User, recon *ReconciliationInput, votes []CandidateVoteInput) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}

		var version models.EntryVersion
		var next models.FormState
		switch form.FormState {
		case models.FormStateDataEntry1:
			version = models.EntryVersionDataEntry1
			next = models.FormStateDataEntry2
		case models.FormStateDataEntry2:
			version = models.EntryVersionDataEntry2
			next = models.FormStateCorrection
		default:
			return &IllegalTransitionError{From: form.FormState, To: models.FormStateDataEntry2}
		}

		if form.BallotID != nil {
			var ballot models.Ballot
			if err := tx.First(&ballot, *form.BallotID).Error; err != nil {
				return err
			}
			if ballot.AvailableForRelease {
				return ErrBallotReleased
			}
		}

		if version == models.EntryVersionDataEntry2 {
			var de1 models.ReconciliationForm
			err := tx.Where("result_form_id = ? AND entry_version = ? AND active = ?",
				resultFormID, models.EntryVersionDataEntry1, true).
				First(&de1).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil && de1.UserID == user.UserID {
				return ErrSameUserDoubleEntry
			}
		}

		// An unfinished pass for this version owned by someone else blocks
		// the save; the owner resumes it on next login instead.
		var existing models.ReconciliationForm
		err := tx.Where("result_form_id = ? AND entry_version = ? AND active = ?",
			resultFormID, version, true).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if existing.UserID != user.UserID {
				return ErrEntryOwnedByOther
			}
			existing.Active = false
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Result{}).
				Where("result_form_id = ? AND entry_version = ? AND active = ?",
					resultFormID, version, true).
				Update("active", false).Error; err != nil {
				return err
			}
		}

		row := recon.toModel(resultFormID, user.UserID, version)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := RecordRevision(tx, EntityReconciliationForm, row.ReconciliationFormID, user, row, version.String()+" saved"); err != nil {
			return err
		}

		for _, vote := range votes {
			result := models.Result{
				ResultFormID: resultFormID,
				CandidateID:  vote.CandidateID,
				UserID:       user.UserID,
				EntryVersion: version,
				Votes:        vote.Votes,
			}
			if err := tx.Create(&result).Error; err != nil {
				return err
			}
		}

		return TransitionForm(tx, &form, next, user)
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// ActiveReconciliation returns the single active reconciliation form for an
// entry version, or nil when none exists.
func ActiveReconciliation(db *gorm.DB, resultFormID int, version models.EntryVersion) (*models.ReconciliationForm, error) {
	var recon models.ReconciliationForm
	err := db.Where("result_form_id = ? AND entry_version = ? AND active = ?",
		resultFormID, version, true).
		First(&recon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recon, nil
}

// ActiveResults returns the active vote rows for an entry version ordered by
// candidate.
func ActiveResults(db *gorm.DB, resultFormID int, version models.EntryVersion) ([]models.Result, error) {
	var results []models.Result
	err := db.Where("result_form_id = ? AND entry_version = ? AND active = ?",
		resultFormID, version, true).
		Order("candidate_id ASC").
		Find(&results).Error
	return results, err
}

// TotalFinalVotes sums the active FINAL vote rows for a form.
func TotalFinalVotes(db *gorm.DB, resultFormID int) (int, error) {
	var total *int
	err := db.Model(&models.Result{}).
		Where("result_form_id = ? AND entry_version = ? AND active = ?",
			resultFormID, models.EntryVersionFinal, true).
		Select("SUM(votes)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
