package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/evaluation"
)

// Replays the golden referral set through the validation engine and prints
// aggregate precision/recall, so changes to the required-field contract are
// caught before they ship.
func main() {
	var goldenPath string
	flag.StringVar(&goldenPath, "golden", "config/golden_referrals.json", "path to the golden referral set")
	flag.Parse()

	if _, err := os.Stat("backend/" + goldenPath); err == nil {
		goldenPath = "backend/" + goldenPath
	}

	docs, err := evaluation.LoadGoldenDocuments(goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load golden documents")
	}
	if err := evaluation.ValidateGoldenDocuments(docs); err != nil {
		log.Fatal().Err(err).Msg("Invalid golden document set")
	}

	runner := evaluation.NewRunner(services.NewValidationService())
	summary, err := runner.Run(docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
