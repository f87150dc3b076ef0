package models

import "time"

// WorkflowRequest is a pending approval request against a result form, such
// as a recall from archive. At most one pending request exists per
// (result form, request type).
type WorkflowRequest struct {
	WorkflowRequestID int           `gorm:"primaryKey;column:workflow_request_id" json:"workflow_request_id"`
	RequestType       RequestType   `gorm:"column:request_type;index:idx_request_form_type_status,priority:2" json:"request_type"`
	Status            RequestStatus `gorm:"column:status;default:0;index:idx_request_form_type_status,priority:3" json:"status"`
	ResultFormID      int           `gorm:"column:result_form_id;index:idx_request_form_type_status,priority:1" json:"result_form_id"`
	TallyID           int           `gorm:"column:tally_id" json:"tally_id"`
	RequesterID       int           `gorm:"column:requester_id" json:"requester_id"`
	ApproverID        *int          `gorm:"column:approver_id" json:"approver_id,omitempty"`
	RequestReason     RequestReason `gorm:"column:request_reason" json:"request_reason"`
	RequestComment    string        `gorm:"column:request_comment" json:"request_comment"`
	ApprovalComment   *string       `gorm:"column:approval_comment" json:"approval_comment,omitempty"`
	ResolvedDate      *time.Time    `gorm:"column:resolved_date" json:"resolved_date,omitempty"`
	CreatedDate       time.Time     `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate      time.Time     `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	ResultForm ResultForm `gorm:"foreignKey:ResultFormID" json:"result_form,omitempty"`
	Requester  User       `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Approver   *User      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

func (WorkflowRequest) TableName() string {
	return "workflow_requests"
}

func (w *WorkflowRequest) IsPending() bool {
	return w.Status == RequestStatusPending
}

func (w *WorkflowRequest) IsApproved() bool {
	return w.Status == RequestStatusApproved
}

func (w *WorkflowRequest) IsRejected() bool {
	return w.Status == RequestStatusRejected
}
