package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	tuteliq "github.com/tuteliq/gosdk"
)

func main() {
	// Load a local .env when present; real deployments set the variables
	// directly.
	_ = godotenv.Load()

	apiKey := os.Getenv("TUTELIQ_API_KEY")
	if apiKey == "" {
		log.Fatal("TUTELIQ_API_KEY environment variable is required")
	}

	fmt.Printf("Testing Tuteliq SDK against production servers...\n")
	fmt.Printf("API Key: %s...\n", apiKey[:min(len(apiKey), 10)])

	// Create client with default settings (production endpoint)
	client, err := tuteliq.New(tuteliq.WithAPIKey(apiKey))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testText := "Nobody likes you, just leave the server already."
	fmt.Printf("\nAnalyzing: %q\n", testText)

	result, err := client.DetectBullying(ctx, &tuteliq.BullyingRequest{
		Text: testText,
	})
	if err != nil {
		var apiErr *tuteliq.Error
		if errors.As(err, &apiErr) {
			fmt.Printf("❌ Detection failed (%s): %s\n", apiErr.Kind, apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Printf("   Request ID: %s\n", apiErr.RequestID)
			}
			os.Exit(1)
		}
		log.Fatalf("❌ Detection failed: %v", err)
	}

	fmt.Printf("\n✅ Detection completed successfully!\n")
	fmt.Printf("Bullying: %v\n", result.IsBullying)
	if result.IsBullying {
		fmt.Printf("Severity: %s\n", result.Severity)
		fmt.Printf("Types: %v\n", result.BullyingTypes)
	}
	fmt.Printf("Confidence: %.2f\n", result.Confidence)

	// Composite analysis on the same text
	analysis, err := client.Analyze(ctx, &tuteliq.AnalysisRequest{Text: testText})
	if err != nil {
		log.Fatalf("❌ Analysis failed: %v", err)
	}
	fmt.Printf("\nComposite risk: %s (%.2f)\n", analysis.RiskLevel, analysis.RiskScore)
	fmt.Printf("Summary: %s\n", analysis.Summary)

	// Account usage
	usage, err := client.GetUsage(ctx, nil)
	if err != nil {
		log.Fatalf("❌ Usage query failed: %v", err)
	}
	fmt.Printf("\nRequests this period: %d (remaining quota: %d)\n", usage.Requests, usage.RemainingQuota)
}
