package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/itsmeter/piggy-point-plan/internal/config"
	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/spf13/cobra"
)

type CatalogImport struct {
	Achievements []models.Achievement `json:"achievements"`
	ShopItems    []models.ShopItem    `json:"shop_items"`
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed achievement and shop catalogs from JSON file",
	Long: `Seed the achievement and shop item catalogs from a JSON file.

Expected JSON format:
{
  "achievements": [
    {"name": "First Steps", "description": "Record your first transaction",
     "requirement_type": "transactions", "requirement_value": 1, "points_reward": 100}
  ],
  "shop_items": [
    {"name": "Ocean Theme", "type": "theme", "price": 300,
     "config": "{\"primary\":\"#1a6b8a\"}", "is_available": true}
  ]
}

Seeding is idempotent: entries whose name already exists are updated in
place, everything else is inserted.`,
	Example: `  piggy-point-plan seed -f catalog.json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSeed(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON file to seed from (required)")
	seedCmd.MarkFlagRequired("file")
}

func runSeed() error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var catalog CatalogImport
	if err := json.Unmarshal(data, &catalog); err != nil {
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

	achievementRepo := repository.NewAchievementRepository(db)
	shopRepo := repository.NewShopRepository(db)

	log.Printf("Seeding %d achievements and %d shop items from %s",
		len(catalog.Achievements), len(catalog.ShopItems), seedFile)

	for i := range catalog.Achievements {
		if err := seedAchievement(achievementRepo, &catalog.Achievements[i]); err != nil {
			return fmt.Errorf("achievement %q: %w", catalog.Achievements[i].Name, err)
		}
	}
	for i := range catalog.ShopItems {
		if err := seedShopItem(shopRepo, &catalog.ShopItems[i]); err != nil {
			return fmt.Errorf("shop item %q: %w", catalog.ShopItems[i].Name, err)
		}
	}

	log.Println("Seed complete")
	return nil
}

func seedAchievement(repo *repository.AchievementRepository, a *models.Achievement) error {
	if a.Name == "" {
		return fmt.Errorf("empty name")
	}

	existing, err := repo.FindByName(a.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		log.Printf("Creating achievement %s", a.Name)
		return repo.Create(a)
	}

	existing.Description = a.Description
	existing.Icon = a.Icon
	existing.RequirementType = a.RequirementType
	existing.RequirementValue = a.RequirementValue
	existing.PointsReward = a.PointsReward
	log.Printf("Updating achievement %s", a.Name)
	return repo.Update(existing)
}

func seedShopItem(repo *repository.ShopRepository, item *models.ShopItem) error {
	if item.Name == "" {
		return fmt.Errorf("empty name")
	}

	existing, err := repo.FindByName(item.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		log.Printf("Creating shop item %s", item.Name)
		return repo.Create(item)
	}

	existing.Description = item.Description
	existing.Type = item.Type
	existing.Price = item.Price
	existing.Config = item.Config
	existing.IsDefault = item.IsDefault
	existing.IsAvailable = item.IsAvailable
	log.Printf("Updating shop item %s", item.Name)
	return repo.Update(existing)
}
