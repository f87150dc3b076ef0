package services

import (
	"errors"
	"testing"

	"tally-pipeline-api/models"
)

func TestSaveDataEntryFirstPass(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}

	saved, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, votes)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.FormState != models.FormStateDataEntry2 {
		t.Fatalf("expected DATA_ENTRY_2, got %s", saved.FormState)
	}

	active, err := ActiveReconciliation(db, form.ResultFormID, models.EntryVersionDataEntry1)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if active == nil || active.UserID != clerk.UserID {
		t.Fatal("first pass reconciliation not active")
	}

	results, err := ActiveResults(db, form.ResultFormID, models.EntryVersionDataEntry1)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(results))
	}
}

func TestSaveDataEntrySecondPassSameUser(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101)
	clerk := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 85}}

	if _, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, votes); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	_, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, votes)
	if !errors.Is(err, ErrSameUserDoubleEntry) {
		t.Fatalf("expected ErrSameUserDoubleEntry, got %v", err)
	}
}

func TestSaveDataEntrySecondPassAdvances(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 85}}

	if _, err := SaveDataEntry(db, form.ResultFormID, clerk1, &recon, votes); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	saved, err := SaveDataEntry(db, form.ResultFormID, clerk2, &recon, votes)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if saved.FormState != models.FormStateCorrection {
		t.Fatalf("expected CORRECTION, got %s", saved.FormState)
	}
}

func TestSaveDataEntryWrongState(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateArchived)

	recon := baseReconInput()
	_, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, nil)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestSaveDataEntryReleasedBallot(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	ballot.AvailableForRelease = true
	if err := db.Save(ballot).Error; err != nil {
		t.Fatalf("failed to release ballot: %v", err)
	}
	clerk := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)
	form.BallotID = &ballot.BallotID
	if err := db.Save(form).Error; err != nil {
		t.Fatalf("failed to update form: %v", err)
	}

	recon := baseReconInput()
	_, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, nil)
	if !errors.Is(err, ErrBallotReleased) {
		t.Fatalf("expected ErrBallotReleased, got %v", err)
	}
}

func TestSaveDataEntryResumeOwnPass(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101)
	clerk := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 85}}
	if _, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, votes); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Roll the form back so the same clerk re-enters their own pass.
	if err := db.Model(&models.ResultForm{}).
		Where("result_form_id = ?", form.ResultFormID).
		Update("form_state", models.FormStateDataEntry1).Error; err != nil {
		t.Fatalf("failed to roll back state: %v", err)
	}

	recon.NumberValidVotes = 80
	if _, err := SaveDataEntry(db, form.ResultFormID, clerk, &recon, votes); err != nil {
		t.Fatalf("resumed save failed: %v", err)
	}

	active, err := ActiveReconciliation(db, form.ResultFormID, models.EntryVersionDataEntry1)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if active == nil || active.NumberValidVotes != 80 {
		t.Fatal("resumed save must supersede the earlier pass")
	}

	var total int64
	if err := db.Model(&models.ReconciliationForm{}).
		Where("result_form_id = ?", form.ResultFormID).
		Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("superseded pass must be kept inactive, found %d rows", total)
	}
}

func TestSaveDataEntryForeignActivePass(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 85}}
	if _, err := SaveDataEntry(db, form.ResultFormID, clerk1, &recon, votes); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	if err := db.Model(&models.ResultForm{}).
		Where("result_form_id = ?", form.ResultFormID).
		Update("form_state", models.FormStateDataEntry1).Error; err != nil {
		t.Fatalf("failed to roll back state: %v", err)
	}

	_, err := SaveDataEntry(db, form.ResultFormID, clerk2, &recon, votes)
	if !errors.Is(err, ErrEntryOwnedByOther) {
		t.Fatalf("expected ErrEntryOwnedByOther, got %v", err)
	}
}

func TestTotalFinalVotes(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	form := seedForm(t, db, tally, models.FormStateQualityControl)

	rows := []models.Result{
		{ResultFormID: form.ResultFormID, CandidateID: 101, EntryVersion: models.EntryVersionFinal, Votes: 40, Active: true},
		{ResultFormID: form.ResultFormID, CandidateID: 102, EntryVersion: models.EntryVersionFinal, Votes: 45, Active: true},
		{ResultFormID: form.ResultFormID, CandidateID: 103, EntryVersion: models.EntryVersionDataEntry1, Votes: 99, Active: true},
		{ResultFormID: form.ResultFormID, CandidateID: 101, EntryVersion: models.EntryVersionFinal, Votes: 7, Active: true},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed result: %v", err)
		}
	}
	if err := db.Model(&rows[3]).Update("active", false).Error; err != nil {
		t.Fatalf("failed to deactivate result: %v", err)
	}

	total, err := TotalFinalVotes(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if total != 85 {
		t.Fatalf("expected 85, got %d", total)
	}
}
