package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
)

// CreateWorkflowRequest opens a pending approval request against a form. A
// recall may only target an archived form, the comment is mandatory, and at
// most one pending request per (form, type) may exist.
func CreateWorkflowRequest(db *gorm.DB, resultFormID int, requester *models.User, requestType models.RequestType, reason models.RequestReason, comment string) (*models.WorkflowRequest, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("request comment is required")
	}

	var request models.WorkflowRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}

		if requestType == models.RequestTypeRecallFromArchive {
			if err := FormInState(&form, models.FormStateArchived); err != nil {
				return err
			}
		}

		var pending int64
		err := tx.Model(&models.WorkflowRequest{}).
			Where("result_form_id = ? AND request_type = ? AND status = ?",
				resultFormID, requestType, models.RequestStatusPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicateRequest
		}

		request = models.WorkflowRequest{
			RequestType:    requestType,
			Status:         models.RequestStatusPending,
			ResultFormID:   resultFormID,
			TallyID:        form.TallyID,
			RequesterID:    requester.UserID,
			RequestReason:  reason,
			RequestComment: comment,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityWorkflowRequest, request.WorkflowRequestID, requester, request, "request opened")
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// ApproveWorkflowRequest resolves a pending request. Only a tally manager
// or super administrator may approve. A recall moves the form into AUDIT
// with a fresh active audit; a send-to-clearance opens a clearance. The
// requester is notified by mail on a best-effort basis.
func ApproveWorkflowRequest(db *gorm.DB, requestID int, approver *models.User, comment string) (*models.WorkflowRequest, error) {
	if !approver.IsTallyManager() {
		return nil, ErrNotPermitted
	}

	var request models.WorkflowRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&request, requestID).Error; err != nil {
			return err
		}
		if !request.IsPending() {
			return ErrRequestNotPending
		}

		var form models.ResultForm
		if err := lockForUpdate(tx).First(&form, request.ResultFormID).Error; err != nil {
			return err
		}

		switch request.RequestType {
		case models.RequestTypeRecallFromArchive:
			if _, err := CreateAudit(tx, &form, approver, false, nil); err != nil {
				return err
			}
		case models.RequestTypeSendToClearance:
			if err := RejectForm(tx, &form, models.FormStateClearance, "sent to clearance by approved request", approver); err != nil {
				return err
			}
			if _, err := CreateClearance(tx, &form, approver, models.Clearance{}); err != nil {
				return err
			}
		default:
			return ErrSuspiciousOperation
		}

		now := time.Now()
		request.Status = models.RequestStatusApproved
		request.ApproverID = &approver.UserID
		request.ResolvedDate = &now
		if comment != "" {
			request.ApprovalComment = &comment
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityWorkflowRequest, request.WorkflowRequestID, approver, request, "request approved")
	})
	if err != nil {
		return nil, err
	}

	notifyRequester(db, &request, "approved")
	return &request, nil
}

// RejectWorkflowRequest resolves a pending request without touching the
// form.
func RejectWorkflowRequest(db *gorm.DB, requestID int, approver *models.User, comment string) (*models.WorkflowRequest, error) {
	if !approver.IsTallyManager() {
		return nil, ErrNotPermitted
	}

	var request models.WorkflowRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&request, requestID).Error; err != nil {
			return err
		}
		if !request.IsPending() {
			return ErrRequestNotPending
		}

		now := time.Now()
		request.Status = models.RequestStatusRejected
		request.ApproverID = &approver.UserID
		request.ResolvedDate = &now
		if comment != "" {
			request.ApprovalComment = &comment
		}
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		return RecordRevision(tx, EntityWorkflowRequest, request.WorkflowRequestID, approver, request, "request rejected")
	})
	if err != nil {
		return nil, err
	}

	notifyRequester(db, &request, "rejected")
	return &request, nil
}

// PendingWorkflowRequests lists a tally's pending requests, newest first.
func PendingWorkflowRequests(db *gorm.DB, tallyID int) ([]models.WorkflowRequest, error) {
	var requests []models.WorkflowRequest
	err := db.Preload("ResultForm").Preload("Requester").
		Where("tally_id = ? AND status = ?", tallyID, models.RequestStatusPending).
		Order("workflow_request_id DESC").
		Find(&requests).Error
	return requests, err
}

// notifyRequester mails the requester about the decision. Mail failures are
// logged, never fatal: the decision itself is already committed.
func notifyRequester(db *gorm.DB, request *models.WorkflowRequest, decision string) {
	var requester models.User
	if err := db.First(&requester, request.RequesterID).Error; err != nil || requester.Email == nil {
		return
	}

	var form models.ResultForm
	if err := db.First(&form, request.ResultFormID).Error; err != nil {
		return
	}

	subject := fmt.Sprintf("Workflow request for form %s %s", form.Barcode, decision)
	body := fmt.Sprintf("<p>Your request regarding result form <b>%s</b> has been %s.</p>", form.Barcode, decision)
	if request.ApprovalComment != nil {
		body += fmt.Sprintf("<p>Comment: %s</p>", *request.ApprovalComment)
	}

	if err := config.SendMail([]string{*requester.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send workflow notification: %v", err)
	}
}
