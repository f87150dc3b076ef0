package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// defaultQuarantineChecks seeds a new tally with the three canonical checks.
var defaultQuarantineChecks = []models.QuarantineCheck{
	{
		Name:       "Reconciliation Check",
		Method:     models.MethodReconciliationCheck,
		Value:      2,
		Percentage: 0,
		Active:     true,
	},
	{
		Name:       "Over Voting Check",
		Method:     models.MethodOverVotingCheck,
		Value:      2,
		Percentage: 0,
		Active:     true,
	},
	{
		Name:       "Card Check",
		Method:     models.MethodCardCheck,
		Value:      2,
		Percentage: 0,
		Active:     true,
	},
}

// CreateQuarantineChecks seeds the canonical checks for a tally, skipping
// any method already configured.
func CreateQuarantineChecks(db *gorm.DB, tallyID int) error {
	for _, check := range defaultQuarantineChecks {
		var existing models.QuarantineCheck
		err := db.Where("tally_id = ? AND method = ?", tallyID, check.Method).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		check.TallyID = tallyID
		if err := db.Create(&check).Error; err != nil {
			return err
		}
	}
	return nil
}

// quarantineContext is everything a check function reads: the form, its
// active FINAL reconciliation, the total FINAL candidate votes, and the
// station's registrants when known.
type quarantineContext struct {
	form        *models.ResultForm
	recon       *models.ReconciliationForm
	totalVotes  int
	registrants *int
}

type checkFunc func(ctx *quarantineContext, check *models.QuarantineCheck) bool

var checkMethods = map[string]checkFunc{
	models.MethodReconciliationCheck: passReconciliationCheck,
	models.MethodOverVotingCheck:     passOverVotingCheck,
	models.MethodCardCheck:           passCardCheck,
}

// passReconciliationCheck verifies that the sorted-and-counted total agrees
// with candidate votes plus invalid votes. Symmetric in sign: only the
// absolute difference matters.
func passReconciliationCheck(ctx *quarantineContext, check *models.QuarantineCheck) bool {
	if ctx.recon == nil {
		return true
	}
	sorted := ctx.recon.NumberSortedAndCounted
	expected := ctx.totalVotes + ctx.recon.NumberInvalidVotes
	diff := math.Abs(float64(sorted - expected))
	return diff <= check.Tolerance(expected)
}

// passOverVotingCheck guards against more ballots than registrants. Skips
// when the station's roll size is unknown.
func passOverVotingCheck(ctx *quarantineContext, check *models.QuarantineCheck) bool {
	if ctx.recon == nil || ctx.registrants == nil {
		return true
	}
	used := ctx.totalVotes + ctx.recon.NumberInvalidVotes
	return float64(used) <= float64(*ctx.registrants)+check.Tolerance(*ctx.registrants)
}

// passCardCheck compares ballots against voter cards found in the box.
// Legacy forms without the voter-cards field skip the check.
func passCardCheck(ctx *quarantineContext, check *models.QuarantineCheck) bool {
	if ctx.recon == nil || ctx.recon.NumberOfVoterCardsInTheBallotBox == nil {
		return true
	}
	cards := *ctx.recon.NumberOfVoterCardsInTheBallotBox
	used := ctx.totalVotes + ctx.recon.NumberInvalidVotes
	return float64(used) <= float64(cards)+check.Tolerance(cards)
}

// runQuarantineChecks evaluates every active configured check for the
// form's tally and returns the ones that failed.
func runQuarantineChecks(tx *gorm.DB, form *models.ResultForm) ([]models.QuarantineCheck, error) {
	var checks []models.QuarantineCheck
	err := tx.Where("tally_id = ? AND active = ?", form.TallyID, true).
		Order("quarantine_check_id ASC").
		Find(&checks).Error
	if err != nil {
		return nil, err
	}

	recon, err := ActiveReconciliation(tx, form.ResultFormID, models.EntryVersionFinal)
	if err != nil {
		return nil, err
	}
	totalVotes, err := TotalFinalVotes(tx, form.ResultFormID)
	if err != nil {
		return nil, err
	}

	ctx := &quarantineContext{form: form, recon: recon, totalVotes: totalVotes}
	if station, err := FormStation(tx, form); err != nil {
		return nil, err
	} else if station != nil {
		ctx.registrants = station.Registrants
	}

	var failed []models.QuarantineCheck
	for _, check := range checks {
		method, ok := checkMethods[check.Method]
		if !ok {
			continue
		}
		if !method(ctx, &check) {
			failed = append(failed, check)
		}
	}

	return failed, nil
}

// FormStation resolves the station for a form through its center and
// station number. Returns nil when the form has no center assigned or the
// station is unknown.
func FormStation(db *gorm.DB, form *models.ResultForm) (*models.Station, error) {
	if form.CenterID == nil || form.StationNumber == nil {
		return nil, nil
	}
	var station models.Station
	err := db.Where("center_id = ? AND station_number = ?", *form.CenterID, *form.StationNumber).
		First(&station).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// CompleteQualityControl finishes quality control for a passing form. The
// quarantine checks gate archival: a clean run (or skip_quarantine_checks)
// archives the form; any failure creates a super-admin audit linked to the
// failed checks and routes the form to AUDIT instead.
func CompleteQualityControl(db *gorm.DB, resultFormID int, user *models.User) (*models.ResultForm, []models.QuarantineCheck, error) {
	var form models.ResultForm
	var failed []models.QuarantineCheck

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&form, resultFormID).Error; err != nil {
			return err
		}
		if err := FormInState(&form, models.FormStateQualityControl); err != nil {
			return err
		}

		if !form.SkipQuarantineChecks {
			var err error
			failed, err = runQuarantineChecks(tx, &form)
			if err != nil {
				return err
			}
		}

		if len(failed) == 0 {
			return TransitionForm(tx, &form, models.FormStateArchived, user)
		}

		audit, err := CreateAudit(tx, &form, user, true, failed)
		if err != nil {
			return err
		}
		audit.ReviewedTeam = true
		audit.ReviewedSupervisor = false
		return tx.Save(audit).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &form, failed, nil
}
