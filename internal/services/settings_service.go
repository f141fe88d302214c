package services

import (
	"log"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
)

type SettingsService struct {
	settingsRepo       *repository.SettingsRepository
	achievementService *AchievementService
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, achievementService *AchievementService) *SettingsService {
	return &SettingsService{
		settingsRepo:       settingsRepo,
		achievementService: achievementService,
	}
}

// Get returns the user's settings, provisioning the default row on first
// access for accounts that predate automatic provisioning.
func (s *SettingsService) Get(userID uint) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &models.UserSettings{UserID: userID, DefaultCurrency: "PHP"}
		if err := s.settingsRepo.Create(settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func (s *SettingsService) Update(userID uint, defaultCurrency string, monthlyBudget float64) (*models.UserSettings, error) {
	settings, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if defaultCurrency != "" {
		settings.DefaultCurrency = defaultCurrency
	}
	if monthlyBudget >= 0 {
		settings.MonthlyBudget = monthlyBudget
	}
	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// CompleteFirstSetup records onboarding completion and unlocks any setup
// achievements.
func (s *SettingsService) CompleteFirstSetup(userID uint, defaultCurrency string, monthlyBudget float64) (*models.UserSettings, error) {
	settings, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if defaultCurrency != "" {
		settings.DefaultCurrency = defaultCurrency
	}
	if monthlyBudget > 0 {
		settings.MonthlyBudget = monthlyBudget
	}
	settings.FirstSetupCompleted = true
	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, err
	}

	if err := s.achievementService.CheckAndAutoClaim(userID, models.RequirementSetupComplete, 1); err != nil {
		log.Printf("Failed to auto-claim setup achievements for user %d: %v", userID, err)
	}

	return settings, nil
}
