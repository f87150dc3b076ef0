package services

import (
	"errors"
	"testing"

	"tally-pipeline-api/models"
)

func TestCreateWorkflowRequestRequiresComment(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	form := seedForm(t, db, tally, models.FormStateArchived)

	if _, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonDataEntryError, "  "); err == nil {
		t.Fatal("a blank comment must be rejected")
	}
}

func TestCreateRecallRequiresArchivedForm(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	_, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonDataEntryError, "recall please")
	if !errors.Is(err, ErrSuspiciousOperation) {
		t.Fatalf("expected ErrSuspiciousOperation, got %v", err)
	}
}

func TestCreateWorkflowRequestOnePendingPerType(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	form := seedForm(t, db, tally, models.FormStateArchived)

	if _, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonDataEntryError, "first"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	_, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "second")
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}

	// A different request type is still allowed.
	if _, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeSendToClearance, models.RequestReasonClearanceNeeded, "different type"); err != nil {
		t.Fatalf("other type failed: %v", err)
	}
}

func TestApproveRecallMovesFormToAudit(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	manager := seedUser(t, db, tally, models.RoleTallyManager)
	form := seedForm(t, db, tally, models.FormStateArchived)

	request, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonIncorrectArchive, "wrong box")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	approved, err := ApproveWorkflowRequest(db, request.WorkflowRequestID, manager, "confirmed")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != models.RequestStatusApproved {
		t.Fatalf("expected APPROVED, got %d", approved.Status)
	}
	if approved.ResolvedDate == nil {
		t.Fatal("resolved date not set")
	}
	if approved.ApproverID == nil || *approved.ApproverID != manager.UserID {
		t.Fatal("approver not recorded")
	}

	stored := reloadForm(t, db, form.ResultFormID)
	if stored.FormState != models.FormStateAudit {
		t.Fatalf("recalled form must be in AUDIT, got %s", stored.FormState)
	}

	audit, err := ActiveAudit(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("audit lookup failed: %v", err)
	}
	if audit == nil {
		t.Fatal("a recall opens an audit")
	}
}

func TestApproveRequiresTallyManager(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateArchived)

	request, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "recall")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := ApproveWorkflowRequest(db, request.WorkflowRequestID, clerk, ""); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
}

func TestRejectLeavesFormUntouched(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	manager := seedUser(t, db, tally, models.RoleTallyManager)
	form := seedForm(t, db, tally, models.FormStateArchived)

	request, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "recall")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	rejected, err := RejectWorkflowRequest(db, request.WorkflowRequestID, manager, "not warranted")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != models.RequestStatusRejected {
		t.Fatalf("expected REJECTED, got %d", rejected.Status)
	}

	stored := reloadForm(t, db, form.ResultFormID)
	if stored.FormState != models.FormStateArchived {
		t.Fatalf("rejected recall must not move the form, got %s", stored.FormState)
	}
}

func TestApproveResolvedRequest(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	manager := seedUser(t, db, tally, models.RoleTallyManager)
	form := seedForm(t, db, tally, models.FormStateArchived)

	request, err := CreateWorkflowRequest(db, form.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "recall")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := RejectWorkflowRequest(db, request.WorkflowRequestID, manager, ""); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if _, err := ApproveWorkflowRequest(db, request.WorkflowRequestID, manager, ""); !errors.Is(err, ErrRequestNotPending) {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestPendingWorkflowRequests(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	requester := seedUser(t, db, tally, models.RoleAuditSupervisor)
	manager := seedUser(t, db, tally, models.RoleTallyManager)

	formA := seedForm(t, db, tally, models.FormStateArchived)
	formB := seedForm(t, db, tally, models.FormStateArchived)

	first, err := CreateWorkflowRequest(db, formA.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "a")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := CreateWorkflowRequest(db, formB.ResultFormID, requester, models.RequestTypeRecallFromArchive, models.RequestReasonOther, "b"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := RejectWorkflowRequest(db, first.WorkflowRequestID, manager, ""); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	pending, err := PendingWorkflowRequests(db, tally.TallyID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ResultFormID != formB.ResultFormID {
		t.Fatalf("expected only the second request pending, got %+v", pending)
	}
}
