package services

import (
	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// MatchOutcome is the verdict of the dual-entry matcher.
type MatchOutcome struct {
	ResultsMatch         bool  `json:"results_match"`
	ReconciliationMatch  bool  `json:"reconciliation_match"`
	MismatchedCandidates []int `json:"mismatched_candidates,omitempty"`
}

// Match reports whether both comparisons agree.
func (o MatchOutcome) Match() bool {
	return o.ResultsMatch && o.ReconciliationMatch
}

// reconFieldsEqual compares every transcribed field of two reconciliation
// forms under exact equality. Identity, version, and bookkeeping columns are
// excluded.
func reconFieldsEqual(a, b *models.ReconciliationForm) bool {
	voterCardsEqual := (a.NumberOfVoterCardsInTheBallotBox == nil && b.NumberOfVoterCardsInTheBallotBox == nil) ||
		(a.NumberOfVoterCardsInTheBallotBox != nil && b.NumberOfVoterCardsInTheBallotBox != nil &&
			*a.NumberOfVoterCardsInTheBallotBox == *b.NumberOfVoterCardsInTheBallotBox)

	return a.BallotNumberFrom == b.BallotNumberFrom &&
		a.BallotNumberTo == b.BallotNumberTo &&
		a.IsStamped == b.IsStamped &&
		a.NumberBallotsReceived == b.NumberBallotsReceived &&
		a.NumberSignaturesInVR == b.NumberSignaturesInVR &&
		a.NumberUnusedBallots == b.NumberUnusedBallots &&
		a.NumberSpoiledBallots == b.NumberSpoiledBallots &&
		a.NumberCancelledBallots == b.NumberCancelledBallots &&
		a.NumberBallotsOutsideBox == b.NumberBallotsOutsideBox &&
		a.NumberBallotsInsideBox == b.NumberBallotsInsideBox &&
		a.NumberBallotsInsideAndOutsideBox == b.NumberBallotsInsideAndOutsideBox &&
		a.NumberUnstampedBallots == b.NumberUnstampedBallots &&
		a.NumberInvalidVotes == b.NumberInvalidVotes &&
		a.NumberValidVotes == b.NumberValidVotes &&
		a.NumberSortedAndCounted == b.NumberSortedAndCounted &&
		voterCardsEqual &&
		a.SignaturePollingOfficer1 == b.SignaturePollingOfficer1 &&
		a.SignaturePollingOfficer2 == b.SignaturePollingOfficer2 &&
		a.SignaturePollingStationChair == b.SignaturePollingStationChair &&
		a.SignatureDated == b.SignatureDated
}

// MatchEntries compares the two transcription passes of a form. Both passes
// must exist; a missing pass fails with ErrNoDoubleEntry. Candidate votes
// are compared as (candidate, votes) sets; a candidate row present on one
// side only counts as a mismatch.
func MatchEntries(db *gorm.DB, resultFormID int) (*MatchOutcome, error) {
	de1Recon, err := ActiveReconciliation(db, resultFormID, models.EntryVersionDataEntry1)
	if err != nil {
		return nil, err
	}
	de2Recon, err := ActiveReconciliation(db, resultFormID, models.EntryVersionDataEntry2)
	if err != nil {
		return nil, err
	}
	if de1Recon == nil || de2Recon == nil {
		return nil, ErrNoDoubleEntry
	}

	de1Results, err := ActiveResults(db, resultFormID, models.EntryVersionDataEntry1)
	if err != nil {
		return nil, err
	}
	de2Results, err := ActiveResults(db, resultFormID, models.EntryVersionDataEntry2)
	if err != nil {
		return nil, err
	}
	if len(de1Results) == 0 || len(de2Results) == 0 {
		return nil, ErrNoDoubleEntry
	}

	outcome := MatchOutcome{
		ResultsMatch:        true,
		ReconciliationMatch: reconFieldsEqual(de1Recon, de2Recon),
	}

	de1Votes := make(map[int]int, len(de1Results))
	for _, result := range de1Results {
		de1Votes[result.CandidateID] = result.Votes
	}

	seen := make(map[int]bool, len(de2Results))
	for _, result := range de2Results {
		seen[result.CandidateID] = true
		votes, ok := de1Votes[result.CandidateID]
		if !ok || votes != result.Votes {
			outcome.ResultsMatch = false
			outcome.MismatchedCandidates = append(outcome.MismatchedCandidates, result.CandidateID)
		}
	}
	for _, result := range de1Results {
		if !seen[result.CandidateID] {
			outcome.ResultsMatch = false
			outcome.MismatchedCandidates = append(outcome.MismatchedCandidates, result.CandidateID)
		}
	}

	return &outcome, nil
}

// deactivateEntryVersions flips the DE1 and DE2 rows inactive once a FINAL
// version exists. History is kept; nothing is deleted.
func deactivateEntryVersions(tx *gorm.DB, resultFormID int) error {
	versions := []models.EntryVersion{models.EntryVersionDataEntry1, models.EntryVersionDataEntry2}
	if err := tx.Model(&models.Result{}).
		Where("result_form_id = ? AND entry_version IN ? AND active = ?", resultFormID, versions, true).
		Update("active", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.ReconciliationForm{}).
		Where("result_form_id = ? AND entry_version IN ? AND active = ?", resultFormID, versions, true).
		Update("active", false).Error
}

// PassCorrections runs the matcher on a form in CORRECTION. When both
// comparisons match, the second entry is promoted: its values are cloned as
// FINAL, both data entry versions are deactivated, and the form moves to
// QUALITY_CONTROL. On any divergence the form stays in CORRECTION for a
// corrections clerk and the outcome lists the diverging candidates.
func PassCorrections(db *gorm.DB, resultFormID int, user *models.User) (*MatchOutcome, *models.ResultForm, error) {
	var form models.ResultForm
	var outcome *MatchOutcome

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateCorrection); err != nil {
			return err
		}

		var err error
		outcome, err = MatchEntries(tx, resultFormID)
		if err != nil {
			return err
		}
		if !outcome.Match() {
			return nil
		}

		return promoteSecondEntry(tx, &form, user)
	})
	if err != nil {
		return nil, nil, err
	}

	return outcome, &form, nil
}

// promoteSecondEntry clones DE2 as FINAL and moves the form onward. The
// second entry is authoritative only here, after a successful match.
func promoteSecondEntry(tx *gorm.DB, form *models.ResultForm, user *models.User) error {
	de2Recon, err := ActiveReconciliation(tx, form.ResultFormID, models.EntryVersionDataEntry2)
	if err != nil {
		return err
	}
	if de2Recon == nil {
		return ErrNoDoubleEntry
	}
	de2Results, err := ActiveResults(tx, form.ResultFormID, models.EntryVersionDataEntry2)
	if err != nil {
		return err
	}

	finalRecon := *de2Recon
	finalRecon.ReconciliationFormID = 0
	finalRecon.EntryVersion = models.EntryVersionFinal
	finalRecon.UserID = user.UserID
	finalRecon.Active = true
	if err := tx.Create(&finalRecon).Error; err != nil {
		return err
	}

	for _, result := range de2Results {
		final := models.Result{
			ResultFormID: form.ResultFormID,
			CandidateID:  result.CandidateID,
			UserID:       user.UserID,
			EntryVersion: models.EntryVersionFinal,
			Votes:        result.Votes,
		}
		if err := tx.Create(&final).Error; err != nil {
			return err
		}
	}

	if err := deactivateEntryVersions(tx, form.ResultFormID); err != nil {
		return err
	}

	return TransitionForm(tx, form, models.FormStateQualityControl, user)
}

// SaveCorrections writes the corrections clerk's field-by-field resolution
// of a mismatch as the FINAL version, deactivates DE1/DE2, and moves the
// form to QUALITY_CONTROL. Every candidate on the ballot needs a chosen
// value.
func SaveCorrections(db *gorm.DB, resultFormID int, user *models.User, recon *ReconciliationInput, votes []CandidateVoteInput) (*models.ResultForm, error) {
	var form models.ResultForm

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateCorrection); err != nil {
			return err
		}

		finalRecon := recon.toModel(resultFormID, user.UserID, models.EntryVersionFinal)
		if err := tx.Create(&finalRecon).Error; err != nil {
			return err
		}
		if err := RecordRevision(tx, EntityReconciliationForm, finalRecon.ReconciliationFormID, user, finalRecon, "corrections saved"); err != nil {
			return err
		}

		for _, vote := range votes {
			final := models.Result{
				ResultFormID: resultFormID,
				CandidateID:  vote.CandidateID,
				UserID:       user.UserID,
				EntryVersion: models.EntryVersionFinal,
				Votes:        vote.Votes,
			}
			if err := tx.Create(&final).Error; err != nil {
				return err
			}
		}

		if err := deactivateEntryVersions(tx, resultFormID); err != nil {
			return err
		}

		return TransitionForm(tx, &form, models.FormStateQualityControl, user)
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}
