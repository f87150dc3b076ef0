package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tally-pipeline-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

var seededTallies int

func seedTally(t *testing.T, db *gorm.DB) *models.Tally {
	t.Helper()
	seededTallies++
	tally := models.Tally{Name: fmt.Sprintf("test tally %d", seededTallies), Active: true, BarcodeLength: 9}
	if err := db.Create(&tally).Error; err != nil {
		t.Fatalf("failed to seed tally: %v", err)
	}
	return &tally
}

var seededUsers int

func seedUser(t *testing.T, db *gorm.DB, tally *models.Tally, roleID int) *models.User {
	t.Helper()
	seededUsers++
	user := models.User{
		Username: fmt.Sprintf("user%d", seededUsers),
		FullName: fmt.Sprintf("Test User %d", seededUsers),
		Password: "hashed",
		RoleID:   roleID,
		Active:   true,
	}
	if tally != nil {
		user.TallyID = &tally.TallyID
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedBallot(t *testing.T, db *gorm.DB, tally *models.Tally, number int) *models.Ballot {
	t.Helper()
	ballot := models.Ballot{TallyID: tally.TallyID, Number: number, Active: true}
	if err := db.Create(&ballot).Error; err != nil {
		t.Fatalf("failed to seed ballot: %v", err)
	}
	return &ballot
}

func seedCandidates(t *testing.T, db *gorm.DB, tally *models.Tally, ballot *models.Ballot, ids ...int) {
	t.Helper()
	for order, id := range ids {
		candidate := models.Candidate{
			CandidateID: id,
			BallotID:    ballot.BallotID,
			TallyID:     tally.TallyID,
			FullName:    fmt.Sprintf("Candidate %d", id),
			BallotOrder: order + 1,
			Active:      true,
		}
		if err := db.Create(&candidate).Error; err != nil {
			t.Fatalf("failed to seed candidate: %v", err)
		}
	}
}

func seedCenterStation(t *testing.T, db *gorm.DB, tally *models.Tally, code, stationNumber int, registrants *int) (*models.Center, *models.Station) {
	t.Helper()
	center := models.Center{TallyID: tally.TallyID, Code: code, Name: "Test Center", Active: true}
	if err := db.Create(&center).Error; err != nil {
		t.Fatalf("failed to seed center: %v", err)
	}
	station := models.Station{
		CenterID:      center.CenterID,
		StationNumber: stationNumber,
		Gender:        models.GenderUnisex,
		Registrants:   registrants,
		Active:        true,
	}
	if err := db.Create(&station).Error; err != nil {
		t.Fatalf("failed to seed station: %v", err)
	}
	return &center, &station
}

var seededForms int

func seedForm(t *testing.T, db *gorm.DB, tally *models.Tally, state models.FormState) *models.ResultForm {
	t.Helper()
	seededForms++
	form := models.ResultForm{
		TallyID:   tally.TallyID,
		Barcode:   fmt.Sprintf("%09d", seededForms),
		FormState: state,
		Active:    true,
	}
	if err := db.Create(&form).Error; err != nil {
		t.Fatalf("failed to seed result form: %v", err)
	}
	return &form
}

// baseReconInput is a consistent set of counts: 85 valid + 5 invalid = 90
// sorted and counted.
func baseReconInput() ReconciliationInput {
	return ReconciliationInput{
		BallotNumberFrom:       "000100",
		BallotNumberTo:         "000200",
		IsStamped:              true,
		NumberBallotsReceived:  100,
		NumberSignaturesInVR:   90,
		NumberUnusedBallots:    10,
		NumberBallotsInsideBox: 90,
		NumberInvalidVotes:     5,
		NumberValidVotes:       85,
		NumberSortedAndCounted: 90,
	}
}

func reloadForm(t *testing.T, db *gorm.DB, id int) *models.ResultForm {
	t.Helper()
	var form models.ResultForm
	if err := db.First(&form, id).Error; err != nil {
		t.Fatalf("failed to reload form %d: %v", id, err)
	}
	return &form
}
