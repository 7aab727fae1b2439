package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/xavierca1/prefab-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/prefab-leads/internal/infra/logging"
)

// Creates one throwaway lead in Kommo to check the token and pipeline ids.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found, using the process environment")
	}

	if os.Getenv("KOMMO_API_TOKEN") == "" {
		log.Fatal("❌ KOMMO_API_TOKEN must be set")
	}

	client := kommo.NewClient(os.Getenv("KOMMO_API_TOKEN"), os.Getenv("KOMMO_BASE_URL"), logging.New("development", "debug"))

	input := kommo.CreateLeadInput{
		CustomerName: "Jane Test",
		Phone:        "+4915112345678",
		Email:        "jane.test@example.com",
		ProductName:  "Nature",
		Price:        119000,
		Origin:       "Smoke test",
		Tags:         []string{"smoke_test"},
	}

	fmt.Println("🔄 Creating lead in Kommo...")
	fmt.Printf("   Name: %s\n", input.CustomerName)
	fmt.Printf("   Phone: %s\n", input.Phone)
	fmt.Printf("   Email: %s\n", input.Email)
	fmt.Printf("   Model: %s\n", input.ProductName)
	fmt.Printf("   Price: %.0f €\n\n", input.Price)

	leadID, err := client.CreateLead(context.Background(), input)
	if err != nil {
		log.Fatalf("creating lead in Kommo: %v", err)
	}

	fmt.Printf("Lead created: #%d\n", leadID)
}
