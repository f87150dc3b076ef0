package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// runDoubleEntry drives a form through both passes and leaves it in
// CORRECTION.
func runDoubleEntry(t *testing.T, db *gorm.DB, formID int, clerk1, clerk2 *models.User, recon1, recon2 ReconciliationInput, votes1, votes2 []CandidateVoteInput) {
	t.Helper()
	if _, err := SaveDataEntry(db, formID, clerk1, &recon1, votes1); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if _, err := SaveDataEntry(db, formID, clerk2, &recon2, votes2); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
}

func TestPassCorrectionsMatchPromotesFinal(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	corrections := seedUser(t, db, tally, models.RoleCorrectionsClerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}
	runDoubleEntry(t, db, form.ResultFormID, clerk1, clerk2, recon, recon, votes, votes)

	outcome, passed, err := PassCorrections(db, form.ResultFormID, corrections)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if !outcome.Match() {
		t.Fatalf("identical entries must match: %+v", outcome)
	}
	if passed.FormState != models.FormStateQualityControl {
		t.Fatalf("expected QUALITY_CONTROL, got %s", passed.FormState)
	}

	final, err := ActiveReconciliation(db, form.ResultFormID, models.EntryVersionFinal)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if final == nil || final.NumberValidVotes != recon.NumberValidVotes {
		t.Fatal("final reconciliation not promoted from the second entry")
	}

	for _, version := range []models.EntryVersion{models.EntryVersionDataEntry1, models.EntryVersionDataEntry2} {
		active, err := ActiveReconciliation(db, form.ResultFormID, version)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if active != nil {
			t.Fatalf("%s must be deactivated after promotion", version)
		}
	}

	total, err := TotalFinalVotes(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if total != 85 {
		t.Fatalf("expected 85 final votes, got %d", total)
	}
}

func TestPassCorrectionsMismatchStays(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	corrections := seedUser(t, db, tally, models.RoleCorrectionsClerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes1 := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}
	votes2 := []CandidateVoteInput{{CandidateID: 101, Votes: 51}, {CandidateID: 102, Votes: 35}}
	runDoubleEntry(t, db, form.ResultFormID, clerk1, clerk2, recon, recon, votes1, votes2)

	outcome, stayed, err := PassCorrections(db, form.ResultFormID, corrections)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if outcome.Match() {
		t.Fatal("differing votes must not match")
	}
	if len(outcome.MismatchedCandidates) != 1 || outcome.MismatchedCandidates[0] != 101 {
		t.Fatalf("expected candidate 101 flagged, got %v", outcome.MismatchedCandidates)
	}
	if stayed.FormState != models.FormStateCorrection {
		t.Fatalf("form must stay in CORRECTION, got %s", stayed.FormState)
	}
}

func TestMatchEntriesReconciliationDivergence(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon1 := baseReconInput()
	recon2 := baseReconInput()
	recon2.NumberUnusedBallots = 11
	votes := []CandidateVoteInput{{CandidateID: 101, Votes: 85}}
	runDoubleEntry(t, db, form.ResultFormID, clerk1, clerk2, recon1, recon2, votes, votes)

	outcome, err := MatchEntries(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !outcome.ResultsMatch {
		t.Fatal("identical votes must match")
	}
	if outcome.ReconciliationMatch {
		t.Fatal("diverging reconciliation fields must not match")
	}
}

func TestMatchEntriesCandidateSetDifference(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes1 := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}
	votes2 := []CandidateVoteInput{{CandidateID: 101, Votes: 50}}
	runDoubleEntry(t, db, form.ResultFormID, clerk1, clerk2, recon, recon, votes1, votes2)

	outcome, err := MatchEntries(db, form.ResultFormID)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if outcome.ResultsMatch {
		t.Fatal("a candidate present on one side only must not match")
	}
	if len(outcome.MismatchedCandidates) != 1 || outcome.MismatchedCandidates[0] != 102 {
		t.Fatalf("expected candidate 102 flagged, got %v", outcome.MismatchedCandidates)
	}
}

func TestMatchEntriesMissingPass(t *testing.T) {
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

	if _, err := MatchEntries(db, form.ResultFormID); !errors.Is(err, ErrNoDoubleEntry) {
		t.Fatalf("expected ErrNoDoubleEntry, got %v", err)
	}
}

func TestSaveCorrectionsWritesFinal(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	ballot := seedBallot(t, db, tally, 1)
	seedCandidates(t, db, tally, ballot, 101, 102)
	clerk1 := seedUser(t, db, tally, models.RoleDataEntry1Clerk)
	clerk2 := seedUser(t, db, tally, models.RoleDataEntry2Clerk)
	corrections := seedUser(t, db, tally, models.RoleCorrectionsClerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	recon := baseReconInput()
	votes1 := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}
	votes2 := []CandidateVoteInput{{CandidateID: 101, Votes: 51}, {CandidateID: 102, Votes: 35}}
	runDoubleEntry(t, db, form.ResultFormID, clerk1, clerk2, recon, recon, votes1, votes2)

	resolved := []CandidateVoteInput{{CandidateID: 101, Votes: 50}, {CandidateID: 102, Votes: 35}}
	saved, err := SaveCorrections(db, form.ResultFormID, corrections, &recon, resolved)
	if err != nil {
		t.Fatalf("save corrections failed: %v", err)
	}
	if saved.FormState != models.FormStateQualityControl {
		t.Fatalf("expected QUALITY_CONTROL, got %s", saved.FormState)
	}

	results, err := ActiveResults(db, form.ResultFormID, models.EntryVersionFinal)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(results) != 2 || results[0].Votes != 50 || results[1].Votes != 35 {
		t.Fatalf("final votes not the clerk's resolution: %+v", results)
	}
}
