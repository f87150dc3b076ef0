// Bulk creation of staff accounts from a CSV roster.
// cmd/import-staff/main.go
package main

import (
	"flag"
	"log"

	"tally-pipeline-api/config"
	"tally-pipeline-api/services"

	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("file", "", "staff roster CSV file (required)")
	passwordSuffix := flag.String("password-suffix", "", "suffix appended to the username to form the initial password")
	flag.Parse()

	if *path == "" {
		log.Fatal("--file is required")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	summary, err := services.ImportStaff(config.DB, *path, *passwordSuffix)
	if err != nil {
		log.Fatal("Failed to import staff:", err)
	}

	log.Printf("Imported staff: %s", summary)
	log.Println("Staff import completed!")
}
