// Seeds the default quarantine checks for a tally.
// cmd/create-quarantine-checks/main.go
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
	tallyID := flag.Int("tally", 0, "tally ID to seed (0 seeds every tally)")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	var tallies []models.Tally
	query := config.DB
	if *tallyID > 0 {
		query = query.Where("tally_id = ?", *tallyID)
	}
	if err := query.Find(&tallies).Error; err != nil {
		log.Fatal("Failed to fetch tallies:", err)
	}
	if len(tallies) == 0 {
		log.Fatal("No tallies found")
	}

	for _, tally := range tallies {
		if err := services.CreateQuarantineChecks(config.DB, tally.TallyID); err != nil {
			log.Fatalf("Failed to seed tally %d: %v", tally.TallyID, err)
		}
		log.Printf("Seeded quarantine checks for tally %d (%s)", tally.TallyID, tally.Name)
	}

	log.Println("Quarantine checks created!")
}
