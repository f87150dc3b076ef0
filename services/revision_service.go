package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// Entity type labels used in the revision log.
const (
	EntityResultForm         = "result_form"
	EntityReconciliationForm = "reconciliation_form"
	EntityResult             = "result"
	EntityAudit              = "audit"
	EntityClearance          = "clearance"
	EntityWorkflowRequest    = "workflow_request"
)

// formSnapshot is the subset of result form fields captured on every state
// change. The revision primary key, not the timestamp, orders the history.
type formSnapshot struct {
	Barcode              string            `json:"barcode"`
	FormState            models.FormState  `json:"form_state"`
	PreviousFormState    *models.FormState `json:"previous_form_state"`
	AuditedCount         int               `json:"audited_count"`
	RejectedCount        int               `json:"rejected_count"`
	SkipQuarantineChecks bool              `json:"skip_quarantine_checks"`
	RejectReason         *string           `json:"reject_reason"`
}

// RecordRevision appends one history entry for an entity. The snapshot is
// marshalled to JSON; failures abort the surrounding transaction.
func RecordRevision(tx *gorm.DB, entityType string, entityID int, user *models.User, snapshot any, comment string) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s %d: %w", entityType, entityID, err)
	}

	rev := models.Revision{
		EntityType: entityType,
		EntityID:   entityID,
		Snapshot:   string(data),
		Comment:    comment,
	}
	if user != nil {
		rev.UserID = &user.UserID
	}

	return tx.Create(&rev).Error
}

func recordFormRevision(tx *gorm.DB, form *models.ResultForm, user *models.User, comment string) error {
	snapshot := formSnapshot{
		Barcode:              form.Barcode,
		FormState:            form.FormState,
		PreviousFormState:    form.PreviousFormState,
		AuditedCount:         form.AuditedCount,
		RejectedCount:        form.RejectedCount,
		SkipQuarantineChecks: form.SkipQuarantineChecks,
		RejectReason:         form.RejectReason,
	}
	return RecordRevision(tx, EntityResultForm, form.ResultFormID, user, snapshot, comment)
}

// FormHistory returns the revision log for a result form in authoritative
// order (ascending primary key).
func FormHistory(db *gorm.DB, resultFormID int) ([]models.Revision, error) {
	var revisions []models.Revision
	err := db.Where("entity_type = ? AND entity_id = ?", EntityResultForm, resultFormID).
		Order("revision_id ASC").
		Find(&revisions).Error
	return revisions, err
}

// ReplayFormState replays a form's revision log and returns the state the
// log yields. Used by the history view and by recall audits to verify the
// stored state matches the history.
func ReplayFormState(revisions []models.Revision) (models.FormState, error) {
	if len(revisions) == 0 {
		return models.FormStateUnsubmitted, fmt.Errorf("no revisions to replay")
	}

	var state models.FormState
	for _, rev := range revisions {
		var snapshot formSnapshot
		if err := json.Unmarshal([]byte(rev.Snapshot), &snapshot); err != nil {
			return state, fmt.Errorf("corrupt snapshot in revision %d: %w", rev.RevisionID, err)
		}
		state = snapshot.FormState
	}

	return state, nil
}
