package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/croptrack/croptrack/internal/config"
	"github.com/croptrack/croptrack/internal/database"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/croptrack/croptrack/internal/services"
	"github.com/spf13/cobra"
)

type SpeciesImport struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Category    string   `json:"category"`
	MinHeight   float64  `json:"min_height"`
	HarvestDays int      `json:"harvest_days"`
	Climate     string   `json:"climate"`
	Soil        string   `json:"soil"`
	Water       string   `json:"water"`
	Sunlight    string   `json:"sunlight"`
	MaxHeight   *float64 `json:"max_height"`
	MaxDiameter *float64 `json:"max_diameter"`
}

var (
	seedFile   string
	strictSeed bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the species catalog from a JSON file",
	Long: `Load species definitions from a JSON file into the catalog.

Expected JSON format:
[
  {"name": "Cherry Tomato", "code": "TOM1", "category": "vegetable",
   "min_height": 50, "harvest_days": 90}
]

By default, invalid or duplicate entries are skipped and reported.
Use --strict to fail on the first rejected entry instead.`,
	Example: `  croptrack seed -f species.json
  croptrack seed --file species.json --strict`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSeed(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON file to import (required)")
	seedCmd.Flags().BoolVar(&strictSeed, "strict", false, "Fail on any validation error")
	seedCmd.MarkFlagRequired("file")
}

func runSeed() error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var entries []SpeciesImport
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	speciesRepo := repository.NewSpeciesRepository(db)
	speciesService := services.NewSpeciesService(speciesRepo)

	log.Printf("Starting import of %d species from %s", len(entries), seedFile)

	imported := 0
	skipped := 0

	for _, e := range entries {
		_, err := speciesService.Register(services.RegisterSpeciesInput{
			Name:        e.Name,
			Code:        e.Code,
			Category:    e.Category,
			MinHeight:   e.MinHeight,
			HarvestDays: e.HarvestDays,
			Climate:     e.Climate,
			Soil:        e.Soil,
			Water:       e.Water,
			Sunlight:    e.Sunlight,
			MaxHeight:   e.MaxHeight,
			MaxDiameter: e.MaxDiameter,
		}, 0)
		if err != nil {
			if strictSeed {
				return fmt.Errorf("import failed for %s: %w", e.Name, err)
			}
			log.Printf("Skipped %s: %v", e.Name, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
	return nil
}
