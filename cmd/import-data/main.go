// Bulk import of electoral base data from CSV exports.
// cmd/import-data/main.go
package main

import (
	"flag"
	"log"

	"tally-pipeline-api/config"
	"tally-pipeline-api/models"
	"tally-pipeline-api/services"

	"github.com/joho/godotenv"
)

func main() {
	tallyID := flag.Int("tally", 0, "tally ID to import into (required)")
	subConstituencies := flag.String("sub-constituencies", "", "sub constituencies CSV file")
	centers := flag.String("centers", "", "centers CSV file")
	stations := flag.String("stations", "", "stations CSV file")
	candidates := flag.String("candidates", "", "candidates CSV file")
	ballotOrders := flag.String("ballot-orders", "", "optional candidate ballot order CSV file")
	resultForms := flag.String("result-forms", "", "result forms CSV file")
	flag.Parse()

	if *tallyID <= 0 {
		log.Fatal("--tally is required")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	var tally models.Tally
	if err := config.DB.First(&tally, *tallyID).Error; err != nil {
		log.Fatalf("Tally %d not found: %v", *tallyID, err)
	}

	// Import order matters: centers reference sub constituencies, stations
	// reference centers, result forms reference centers and ballots.
	steps := []struct {
		name string
		path string
		run  func() (*services.ImportSummary, error)
	}{
		{"sub constituencies", *subConstituencies, func() (*services.ImportSummary, error) {
			return services.ImportSubConstituencies(config.DB, tally.TallyID, *subConstituencies)
		}},
		{"centers", *centers, func() (*services.ImportSummary, error) {
			return services.ImportCenters(config.DB, tally.TallyID, *centers)
		}},
		{"stations", *stations, func() (*services.ImportSummary, error) {
			return services.ImportStations(config.DB, tally.TallyID, *stations)
		}},
		{"candidates", *candidates, func() (*services.ImportSummary, error) {
			return services.ImportCandidates(config.DB, tally.TallyID, *candidates, *ballotOrders)
		}},
		{"result forms", *resultForms, func() (*services.ImportSummary, error) {
			return services.ImportResultForms(config.DB, tally.TallyID, *resultForms)
		}},
	}

	ran := 0
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		summary, err := step.run()
		if err != nil {
			log.Fatalf("Failed to import %s: %v", step.name, err)
		}
		log.Printf("Imported %s: %s", step.name, summary)
		ran++
	}

	if ran == 0 {
		log.Fatal("Nothing to import, pass at least one CSV flag")
	}

	log.Println("Import completed!")
}
