package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tally-pipeline-api/models"
)

// allowedSources maps each target state to the set of states a form may move
// from. CLEARANCE is reachable from anywhere: a field problem can surface at
// any point of the pipeline.
var allowedSources = map[models.FormState][]models.FormState{
	models.FormStateIntake: {models.FormStateUnsubmitted},
	models.FormStateDataEntry1: {
		models.FormStateIntake,
		models.FormStateAudit,
		models.FormStateClearance,
	},
	models.FormStateDataEntry2:     {models.FormStateDataEntry1},
	models.FormStateCorrection:     {models.FormStateDataEntry2},
	models.FormStateQualityControl: {models.FormStateCorrection},
	models.FormStateArchiving:      {models.FormStateQualityControl},
	models.FormStateArchived: {
		models.FormStateQualityControl,
		models.FormStateArchiving,
		models.FormStateAudit,
	},
	models.FormStateAudit: {
		models.FormStateDataEntry1,
		models.FormStateDataEntry2,
		models.FormStateCorrection,
		models.FormStateQualityControl,
		models.FormStateArchived,
		models.FormStateClearance,
	},
	models.FormStateClearance: {
		models.FormStateUnsubmitted,
		models.FormStateIntake,
		models.FormStateDataEntry1,
		models.FormStateDataEntry2,
		models.FormStateCorrection,
		models.FormStateQualityControl,
		models.FormStateArchiving,
		models.FormStateArchived,
		models.FormStateAudit,
		models.FormStateClearance,
	},
	models.FormStateUnsubmitted: {models.FormStateClearance},
}

// CanTransition reports whether a form may move from one state to another.
func CanTransition(from, to models.FormState) bool {
	for _, source := range allowedSources[to] {
		if source == from {
			return true
		}
	}
	return false
}

// lockForUpdate adds a row lock on dialects that support it. SQLite (used in
// tests) serializes writers already.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// TransitionForm moves a result form to a new state inside the given
// transaction. It re-reads the form under a row lock, validates the source
// state, copies the old state into previous_form_state, records the acting
// user, bumps audited_count when entering AUDIT, and appends a revision.
// The caller's form is updated in place on success.
func TransitionForm(tx *gorm.DB, form *models.ResultForm, next models.FormState, user *models.User) error {
	var fresh models.ResultForm
	if err := lockForUpdate(tx).First(&fresh, form.ResultFormID).Error; err != nil {
		return err
	}

	if !CanTransition(fresh.FormState, next) {
		return &IllegalTransitionError{From: fresh.FormState, To: next}
	}

	previous := fresh.FormState
	fresh.PreviousFormState = &previous
	fresh.FormState = next
	if user != nil {
		fresh.UserID = &user.UserID
	}
	if next == models.FormStateAudit {
		fresh.AuditedCount++
	}

	if err := tx.Save(&fresh).Error; err != nil {
		return err
	}

	if err := recordFormRevision(tx, &fresh, user, previous.String()+" to "+next.String()); err != nil {
		return err
	}

	*form = fresh
	return nil
}

// RejectForm is a compound transition: it moves the form to new_state,
// deactivates every result and reconciliation form row, increments
// rejected_count, and records the reject reason. Rows are flipped inactive,
// never deleted.
func RejectForm(tx *gorm.DB, form *models.ResultForm, next models.FormState, reason string, user *models.User) error {
	if err := TransitionForm(tx, form, next, user); err != nil {
		return err
	}

	now := time.Now()
	if err := tx.Model(&models.Result{}).
		Where("result_form_id = ? AND active = ?", form.ResultFormID, true).
		Updates(map[string]any{"active": false, "modified_date": now}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ReconciliationForm{}).
		Where("result_form_id = ? AND active = ?", form.ResultFormID, true).
		Updates(map[string]any{"active": false, "modified_date": now}).Error; err != nil {
		return err
	}

	form.RejectedCount++
	form.DuplicateReviewed = false
	if reason != "" {
		form.RejectReason = &reason
	} else {
		form.RejectReason = nil
	}
	if err := tx.Model(&models.ResultForm{}).
		Where("result_form_id = ?", form.ResultFormID).
		Updates(map[string]any{
			"rejected_count":     form.RejectedCount,
			"duplicate_reviewed": false,
			"reject_reason":      form.RejectReason,
		}).Error; err != nil {
		return err
	}

	return recordFormRevision(tx, form, user, "rejected to "+next.String())
}

// FormInState returns ErrSuspiciousOperation when the form is not in one of
// the allowable states for the operation being attempted.
func FormInState(form *models.ResultForm, states ...models.FormState) error {
	for _, state := range states {
		if form.FormState == state {
			return nil
		}
	}
	return ErrSuspiciousOperation
}
