package services

import (
	"errors"
	"testing"

	"tally-pipeline-api/models"
)

func TestTransitionFormRecordsPreviousState(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	user := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateUnsubmitted)

	if err := TransitionForm(db, form, models.FormStateIntake, user); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	if form.FormState != models.FormStateIntake {
		t.Fatalf("expected INTAKE, got %s", form.FormState)
	}
	if form.PreviousFormState == nil || *form.PreviousFormState != models.FormStateUnsubmitted {
		t.Fatalf("previous state not recorded: %v", form.PreviousFormState)
	}
	if form.UserID == nil || *form.UserID != user.UserID {
		t.Fatalf("acting user not recorded: %v", form.UserID)
	}

	stored := reloadForm(t, db, form.ResultFormID)
	if stored.FormState != models.FormStateIntake {
		t.Fatalf("stored state is %s", stored.FormState)
	}
}

func TestTransitionFormIllegal(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	user := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateUnsubmitted)

	err := TransitionForm(db, form, models.FormStateDataEntry1, user)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}

	var transitionErr *IllegalTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected IllegalTransitionError, got %T", err)
	}
	if transitionErr.From != models.FormStateUnsubmitted || transitionErr.To != models.FormStateDataEntry1 {
		t.Fatalf("wrong transition pair: %s to %s", transitionErr.From, transitionErr.To)
	}

	stored := reloadForm(t, db, form.ResultFormID)
	if stored.FormState != models.FormStateUnsubmitted {
		t.Fatalf("form moved despite illegal transition: %s", stored.FormState)
	}
}

func TestTransitionToAuditBumpsAuditedCount(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	user := seedUser(t, db, tally, models.RoleQualityControlSupervisor)
	form := seedForm(t, db, tally, models.FormStateQualityControl)

	if err := TransitionForm(db, form, models.FormStateAudit, user); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if form.AuditedCount != 1 {
		t.Fatalf("expected audited_count 1, got %d", form.AuditedCount)
	}
}

func TestClearanceReachableFromEveryState(t *testing.T) {
	states := []models.FormState{
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
	}
	for _, state := range states {
		if !CanTransition(state, models.FormStateClearance) {
			t.Errorf("CLEARANCE not reachable from %s", state)
		}
	}
}

func TestCannotSkipDataEntry(t *testing.T) {
	if CanTransition(models.FormStateIntake, models.FormStateCorrection) {
		t.Fatal("INTAKE must not reach CORRECTION directly")
	}
	if CanTransition(models.FormStateDataEntry1, models.FormStateQualityControl) {
		t.Fatal("DATA_ENTRY_1 must not reach QUALITY_CONTROL directly")
	}
}

func TestRejectFormDeactivatesEntries(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	supervisor := seedUser(t, db, tally, models.RoleAuditSupervisor)

	form := seedForm(t, db, tally, models.FormStateDataEntry1)
	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}

	if _, err := SaveDataEntry(db, form.ResultFormID, clerk1, &recon, votes); err != nil {
		t.Fatalf("first entry failed: %v", err)
	}
	if _, err := SaveDataEntry(db, form.ResultFormID, clerk2, &recon, votes); err != nil {
		t.Fatalf("second entry failed: %v", err)
	}

	form = reloadForm(t, db, form.ResultFormID)
	if err := RejectForm(db, form, models.FormStateClearance, "field problem", supervisor); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if form.RejectedCount != 1 {
		t.Fatalf("expected rejected_count 1, got %d", form.RejectedCount)
	}
	if form.RejectReason == nil || *form.RejectReason != "field problem" {
		t.Fatalf("reject reason not recorded: %v", form.RejectReason)
	}

	var activeResults int64
	if err := db.Model(&models.Result{}).
		Where("result_form_id = ? AND active = ?", form.ResultFormID, true).
		Count(&activeResults).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if activeResults != 0 {
		t.Fatalf("expected no active results, got %d", activeResults)
	}

	var totalResults int64
	if err := db.Model(&models.Result{}).
		Where("result_form_id = ?", form.ResultFormID).
		Count(&totalResults).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if totalResults != 4 {
		t.Fatalf("reject must keep inactive rows, found %d", totalResults)
	}
}

func TestReplayFormStateMatchesCurrent(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	user := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateUnsubmitted)

	chain := []models.FormState{
		models.FormStateIntake,
		models.FormStateDataEntry1,
		models.FormStateDataEntry2,
		models.FormStateCorrection,
	}
	for _, next := range chain {
		if err := TransitionForm(db, form, next, user); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	revisions, err := FormHistory(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(revisions) != len(chain) {
		t.Fatalf("expected %d revisions, got %d", len(chain), len(revisions))
	}

	replayed, err := ReplayFormState(revisions)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replayed != form.FormState {
		t.Fatalf("replayed %s, current %s", replayed, form.FormState)
	}
}
