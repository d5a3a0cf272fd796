package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/allinsport/bonus-backend/internal/config"
	"github.com/allinsport/bonus-backend/internal/models"
	"github.com/allinsport/bonus-backend/internal/repositories"
	mongorepo "github.com/allinsport/bonus-backend/internal/repositories/mongodb"
	"github.com/allinsport/bonus-backend/internal/services"
	"github.com/allinsport/bonus-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

// Imports members from a CSV file with the columns
// firstName,lastName,email,totalPoints (header row required). Imported
// starting totals are written as one opening ledger entry per member.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	mongoURI := config.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.GetEnv("MONGODB_DATABASE", "allinsport-bonus")

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	var memberRepo repositories.MemberRepository = mongorepo.NewMemberRepository(db)
	memberService := services.NewMemberService(memberRepo)

	imported, skipped, err := importMembers(memberService, csvFilePath)
	if err != nil {
		log.Fatalf("Failed to import members: %v", err)
	}
	log.Printf("Import finished: %d imported, %d skipped", imported, skipped)
}

func importMembers(memberService services.MemberService, path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return 0, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	imported, skipped := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < 4 {
			log.Printf("Skipping malformed record: %v", record)
			skipped++
			continue
		}

		totalPoints, err := strconv.Atoi(record[3])
		if err != nil || totalPoints < 0 {
			log.Printf("Skipping record with invalid point total: %v", record)
			skipped++
			continue
		}

		member := &models.Member{
			FirstName:   record[0],
			LastName:    record[1],
			Email:       record[2],
			TotalPoints: totalPoints,
		}
		if err := memberService.CreateMember(context.Background(), member); err != nil {
			log.Printf("Skipping %s: %v", member.Email, err)
			skipped++
			continue
		}
		imported++
	}

	return imported, skipped, nil
}
