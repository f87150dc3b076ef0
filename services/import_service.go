package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"tally-pipeline-api/models"
)

// ImportSummary reports what an import run did.
type ImportSummary struct {
	Created int
	Updated int
	Skipped int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d", s.Created, s.Updated, s.Skipped)
}

// openCSV opens a file and returns a reader that tolerates ragged rows.
func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader, f, nil
}

func atoiField(field string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(field))
}

func parseGender(field string) (models.Gender, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "female", "f":
		return models.GenderFemale, nil
	case "male", "m":
		return models.GenderMale, nil
	case "unisex", "u":
		return models.GenderUnisex, nil
	}
	return 0, fmt.Errorf("unrecognized gender %q", field)
}

func parseRaceType(field string) models.RaceType {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "women":
		return models.RaceTypeWomen
	case "presidential":
		return models.RaceTypePresidential
	case "component":
		return models.RaceTypeComponent
	default:
		return models.RaceTypeGeneral
	}
}

// ImportSubConstituencies loads the sub-constituency file:
// code,field_office,ballot?,component_ballot?,number_of_ballots,races.
// Ballot columns link existing ballots by number when present.
func ImportSubConstituencies(db *gorm.DB, tallyID int, path string) (*ImportSummary, error) {
	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue // header row
			}
			if len(record) < 2 {
				summary.Skipped++
				continue
			}

			code, err := atoiField(record[0])
			if err != nil {
				summary.Skipped++
				continue
			}

			subCon := models.SubConstituency{
				TallyID:     tallyID,
				Code:        code,
				FieldOffice: strings.TrimSpace(record[1]),
				Active:      true,
			}
			if len(record) > 4 {
				if n, err := atoiField(record[4]); err == nil {
					subCon.NumberOfBallots = n
				}
			}

			var existing models.SubConstituency
			lookupErr := tx.Where("tally_id = ? AND code = ?", tallyID, code).First(&existing).Error
			if lookupErr == nil {
				subCon.SubConstituencyID = existing.SubConstituencyID
				if err := tx.Save(&subCon).Error; err != nil {
					return err
				}
				summary.Updated++
			} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				if err := tx.Create(&subCon).Error; err != nil {
					return err
				}
				summary.Created++
			} else {
				return lookupErr
			}

			// Optional ballot columns link this sub-constituency's races.
			for _, col := range []int{2, 3} {
				if len(record) <= col || strings.TrimSpace(record[col]) == "" {
					continue
				}
				number, err := atoiField(record[col])
				if err != nil {
					continue
				}
				var ballot models.Ballot
				if err := tx.Where("tally_id = ? AND number = ?", tallyID, number).First(&ballot).Error; err != nil {
					continue
				}
				if err := tx.Model(&subCon).Association("Ballots").Append(&ballot); err != nil {
					return err
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportCenters loads the centers file:
// code,sub_constituency_code,latitude,longitude,mahalla,name,office,region,village,center_type.
func ImportCenters(db *gorm.DB, tallyID int, path string) (*ImportSummary, error) {
	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue
			}
			if len(record) < 10 {
				summary.Skipped++
				continue
			}

			code, err := atoiField(record[0])
			if err != nil {
				summary.Skipped++
				continue
			}

			center := models.Center{
				TallyID:    tallyID,
				Code:       code,
				Mahalla:    strings.TrimSpace(record[4]),
				Name:       strings.TrimSpace(record[5]),
				OfficeName: strings.TrimSpace(record[6]),
				Region:     strings.TrimSpace(record[7]),
				Village:    strings.TrimSpace(record[8]),
				Active:     true,
			}
			if lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err == nil {
				center.Latitude = &lat
			}
			if lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64); err == nil {
				center.Longitude = &lon
			}
			if strings.EqualFold(strings.TrimSpace(record[9]), "special") {
				center.CenterType = models.CenterTypeSpecial
			}

			if subConCode, err := atoiField(record[1]); err == nil {
				var subCon models.SubConstituency
				if err := tx.Where("tally_id = ? AND code = ?", tallyID, subConCode).First(&subCon).Error; err == nil {
					center.SubConstituencyID = &subCon.SubConstituencyID
				}
			}

			var existing models.Center
			lookupErr := tx.Where("tally_id = ? AND code = ?", tallyID, code).First(&existing).Error
			if lookupErr == nil {
				center.CenterID = existing.CenterID
				if err := tx.Save(&center).Error; err != nil {
					return err
				}
				summary.Updated++
			} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				if err := tx.Create(&center).Error; err != nil {
					return err
				}
				summary.Created++
			} else {
				return lookupErr
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportStations loads the stations file:
// center_code,sub_constituency_code,gender,registrants,station_number.
func ImportStations(db *gorm.DB, tallyID int, path string) (*ImportSummary, error) {
	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue
			}
			if len(record) < 5 {
				summary.Skipped++
				continue
			}

			centerCode, err := atoiField(record[0])
			if err != nil {
				summary.Skipped++
				continue
			}
			stationNumber, err := atoiField(record[4])
			if err != nil {
				summary.Skipped++
				continue
			}
			gender, err := parseGender(record[2])
			if err != nil {
				summary.Skipped++
				continue
			}

			var center models.Center
			if err := tx.Where("tally_id = ? AND code = ?", tallyID, centerCode).First(&center).Error; err != nil {
				summary.Skipped++
				continue
			}

			station := models.Station{
				CenterID:          center.CenterID,
				StationNumber:     stationNumber,
				SubConstituencyID: center.SubConstituencyID,
				Gender:            gender,
				Active:            true,
			}
			if registrants, err := atoiField(record[3]); err == nil && registrants >= 0 {
				station.Registrants = &registrants
			}

			var existing models.Station
			lookupErr := tx.Where("center_id = ? AND station_number = ?", center.CenterID, stationNumber).
				First(&existing).Error
			if lookupErr == nil {
				station.StationID = existing.StationID
				if err := tx.Save(&station).Error; err != nil {
					return err
				}
				summary.Updated++
			} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				if err := tx.Create(&station).Error; err != nil {
					return err
				}
				summary.Created++
			} else {
				return lookupErr
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportCandidates loads the candidates file
// (ballot_number,candidate_id,full_name,order,race_type), optionally joined
// with a ballot-order file (id,ballot_number) that overrides each
// candidate's position on the ballot.
func ImportCandidates(db *gorm.DB, tallyID int, path, ordersPath string) (*ImportSummary, error) {
	orders := map[int]int{}
	if ordersPath != "" {
		reader, f, err := openCSV(ordersPath)
		if err != nil {
			return nil, err
		}
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				f.Close()
				return nil, err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue
			}
			if len(record) < 2 {
				continue
			}
			id, err1 := atoiField(record[0])
			order, err2 := atoiField(record[1])
			if err1 == nil && err2 == nil {
				orders[id] = order
			}
		}
		f.Close()
	}

	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue
			}
			if len(record) < 5 {
				summary.Skipped++
				continue
			}

			ballotNumber, err := atoiField(record[0])
			if err != nil {
				summary.Skipped++
				continue
			}
			candidateID, err := atoiField(record[1])
			if err != nil {
				summary.Skipped++
				continue
			}

			var ballot models.Ballot
			if err := tx.Where("tally_id = ? AND number = ?", tallyID, ballotNumber).First(&ballot).Error; err != nil {
				summary.Skipped++
				continue
			}

			candidate := models.Candidate{
				CandidateID: candidateID,
				BallotID:    ballot.BallotID,
				TallyID:     tallyID,
				FullName:    strings.TrimSpace(record[2]),
				RaceType:    parseRaceType(record[4]),
				Active:      true,
			}
			if order, err := atoiField(record[3]); err == nil {
				candidate.BallotOrder = order
			}
			if order, ok := orders[candidateID]; ok {
				candidate.BallotOrder = order
			}

			var existing models.Candidate
			lookupErr := tx.First(&existing, candidateID).Error
			if lookupErr == nil {
				if err := tx.Save(&candidate).Error; err != nil {
					return err
				}
				summary.Updated++
			} else if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				if err := tx.Create(&candidate).Error; err != nil {
					return err
				}
				summary.Created++
			} else {
				return lookupErr
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ImportResultForms loads the result-forms file:
// ballot_number,center_code,station_number,gender,name,office,_,barcode,serial_number.
// Forms are created in UNSUBMITTED with an initial revision so history
// replay starts from creation.
func ImportResultForms(db *gorm.DB, tallyID int, path string) (*ImportSummary, error) {
	reader, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &ImportSummary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		line := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			line++
			if line == 1 && !isNumeric(record[0]) {
				continue
			}
			if len(record) < 9 {
				summary.Skipped++
				continue
			}

			barcode := strings.TrimSpace(record[7])
			if barcode == "" {
				summary.Skipped++
				continue
			}

			var count int64
			if err := tx.Model(&models.ResultForm{}).
				Where("tally_id = ? AND barcode = ?", tallyID, barcode).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				summary.Skipped++
				continue
			}

			form := models.ResultForm{
				TallyID:   tallyID,
				Barcode:   barcode,
				FormState: models.FormStateUnsubmitted,
				Active:    true,
			}
			if name := strings.TrimSpace(record[4]); name != "" {
				form.Name = &name
			}
			if office := strings.TrimSpace(record[5]); office != "" {
				form.OfficeName = &office
			}
			if serial, err := atoiField(record[8]); err == nil {
				// Serial numbers are globally unique when set.
				var taken int64
				if err := tx.Model(&models.ResultForm{}).
					Where("serial_number = ?", serial).
					Count(&taken).Error; err != nil {
					return err
				}
				if taken > 0 {
					summary.Skipped++
					continue
				}
				form.SerialNumber = &serial
			}
			if gender, err := parseGender(record[3]); err == nil {
				form.Gender = &gender
			}
			if ballotNumber, err := atoiField(record[0]); err == nil {
				var ballot models.Ballot
				if err := tx.Where("tally_id = ? AND number = ?", tallyID, ballotNumber).First(&ballot).Error; err == nil {
					form.BallotID = &ballot.BallotID
				}
			}
			if centerCode, err := atoiField(record[1]); err == nil {
				var center models.Center
				if err := tx.Where("tally_id = ? AND code = ?", tallyID, centerCode).First(&center).Error; err == nil {
					form.CenterID = &center.CenterID
				}
			}
			if stationNumber, err := atoiField(record[2]); err == nil {
				form.StationNumber = &stationNumber
			}

			if err := tx.Create(&form).Error; err != nil {
				return err
			}
			if err := recordFormRevision(tx, &form, nil, "form created"); err != nil {
				return err
			}
			summary.Created++
		}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func isNumeric(field string) bool {
	field = strings.TrimSpace(field)
	if field == "" {
		return false
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
