package services

import (
	"errors"
	"testing"

	"tally-pipeline-api/models"
)

func TestIntakeScanBringsFormIn(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateUnsubmitted)

	scanned, err := IntakeScan(db, tally.TallyID, form.Barcode, clerk)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if scanned.FormState != models.FormStateIntake {
		t.Fatalf("expected INTAKE, got %s", scanned.FormState)
	}
	if scanned.DateSeen == nil {
		t.Fatal("date_seen not set")
	}
}

func TestIntakeScanRepeatIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateUnsubmitted)

	if _, err := IntakeScan(db, tally.TallyID, form.Barcode, clerk); err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	scanned, err := IntakeScan(db, tally.TallyID, form.Barcode, clerk)
	if err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	if scanned.FormState != models.FormStateIntake {
		t.Fatalf("expected INTAKE, got %s", scanned.FormState)
	}
}

func TestIntakeScanPastIntakeFails(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateDataEntry1)

	scanned, err := IntakeScan(db, tally.TallyID, form.Barcode, clerk)
	if !errors.Is(err, ErrAlreadyIntaken) {
		t.Fatalf("expected ErrAlreadyIntaken, got %v", err)
	}
	if scanned == nil || scanned.FormState != models.FormStateDataEntry1 {
		t.Fatal("the current form should be returned untouched")
	}

	stored := reloadForm(t, db, form.ResultFormID)
	if stored.FormState != models.FormStateDataEntry1 {
		t.Fatalf("form moved on a rejected scan: %s", stored.FormState)
	}
}

func TestIntakeScanBadBarcode(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)

	if _, err := IntakeScan(db, tally.TallyID, "12345", clerk); err == nil {
		t.Fatal("expected length validation error")
	}
	if _, err := IntakeScan(db, tally.TallyID, "12345678x", clerk); err == nil {
		t.Fatal("expected numeric validation error")
	}
}

func TestConfirmIntakeMatchingCenter(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	center, _ := seedCenterStation(t, db, tally, 11001, 1, nil)
	form := seedForm(t, db, tally, models.FormStateIntake)

	confirmed, clearance, err := ConfirmIntake(db, form.ResultFormID, center.Code, "Test Center", 1, clerk)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if clearance != nil {
		t.Fatal("matching center must not open a clearance")
	}
	if confirmed.FormState != models.FormStateIntake {
		t.Fatalf("expected INTAKE, got %s", confirmed.FormState)
	}
	if confirmed.CenterID == nil || *confirmed.CenterID != center.CenterID {
		t.Fatal("center not assigned to the form")
	}
}

func TestConfirmIntakeMismatchRoutesToClearance(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateIntake)

	confirmed, clearance, err := ConfirmIntake(db, form.ResultFormID, 99999, "", 1, clerk)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.FormState != models.FormStateClearance {
		t.Fatalf("expected CLEARANCE, got %s", confirmed.FormState)
	}
	if clearance == nil || !clearance.CenterCodeMismatching {
		t.Fatal("clearance must flag the mismatching center code")
	}
}

func TestConfirmIntakeNameMismatch(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	center, _ := seedCenterStation(t, db, tally, 11001, 1, nil)
	form := seedForm(t, db, tally, models.FormStateIntake)

	confirmed, clearance, err := ConfirmIntake(db, form.ResultFormID, center.Code, "Some Other Center", 1, clerk)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.FormState != models.FormStateClearance {
		t.Fatalf("expected CLEARANCE, got %s", confirmed.FormState)
	}
	if clearance == nil || !clearance.CenterNameMismatching {
		t.Fatal("clearance must flag the mismatching center name")
	}
	if clearance.CenterCodeMismatching {
		t.Fatal("the code matched, only the name diverged")
	}
}

func TestConfirmIntakeStationMismatch(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	center, _ := seedCenterStation(t, db, tally, 11001, 1, nil)

	stationNumber := 1
	form := seedForm(t, db, tally, models.FormStateIntake)
	form.CenterID = &center.CenterID
	form.StationNumber = &stationNumber
	if err := db.Save(form).Error; err != nil {
		t.Fatalf("failed to update form: %v", err)
	}

	confirmed, clearance, err := ConfirmIntake(db, form.ResultFormID, center.Code, "Test Center", 2, clerk)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.FormState != models.FormStateClearance {
		t.Fatalf("expected CLEARANCE, got %s", confirmed.FormState)
	}
	if clearance == nil || !clearance.FormIncorrectlyEnteredIntoSystem {
		t.Fatal("clearance must flag the incorrectly entered form")
	}
	if clearance.CenterCodeMismatching || clearance.CenterNameMismatching {
		t.Fatal("center code and name matched, only the station diverged")
	}
}

func TestConfirmIntakeDuplicateRoutesToClearance(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	ballot := seedBallot(t, db, tally, 1)
	center, _ := seedCenterStation(t, db, tally, 11001, 1, nil)

	stationNumber := 1
	existing := seedForm(t, db, tally, models.FormStateDataEntry1)
	existing.BallotID = &ballot.BallotID
	existing.CenterID = &center.CenterID
	existing.StationNumber = &stationNumber
	if err := db.Save(existing).Error; err != nil {
		t.Fatalf("failed to update existing form: %v", err)
	}

	form := seedForm(t, db, tally, models.FormStateIntake)
	form.BallotID = &ballot.BallotID
	if err := db.Save(form).Error; err != nil {
		t.Fatalf("failed to update form: %v", err)
	}

	confirmed, clearance, err := ConfirmIntake(db, form.ResultFormID, center.Code, "Test Center", stationNumber, clerk)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.FormState != models.FormStateClearance {
		t.Fatalf("expected CLEARANCE, got %s", confirmed.FormState)
	}
	if clearance == nil || !clearance.FormAlreadyInSystem {
		t.Fatal("clearance must flag the duplicate form")
	}
}

func TestPrintCoverReleasesToDataEntry(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateIntake)

	printed, err := PrintCover(db, form.ResultFormID, clerk)
	if err != nil {
		t.Fatalf("print cover failed: %v", err)
	}
	if printed.FormState != models.FormStateDataEntry1 {
		t.Fatalf("expected DATA_ENTRY_1, got %s", printed.FormState)
	}
	if !printed.IntakePrinted {
		t.Fatal("intake_printed not set")
	}
}

func TestPrintCoverOutsideIntake(t *testing.T) {
	db := newTestDB(t)
	tally := seedTally(t, db)
	clerk := seedUser(t, db, tally, models.RoleIntakeClerk)
	form := seedForm(t, db, tally, models.FormStateCorrection)

	if _, err := PrintCover(db, form.ResultFormID, clerk); !errors.Is(err, ErrSuspiciousOperation) {
		t.Fatalf("expected ErrSuspiciousOperation, got %v", err)
	}
}
