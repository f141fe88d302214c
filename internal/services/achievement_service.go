package services

import (
	"errors"
	"log"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAchievementNotFound       = errors.New("achievement not found")
	ErrAchievementAlreadyClaimed = errors.New("achievement already claimed")
	ErrRequirementsNotMet        = errors.New("achievement requirements not met")
)

type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	transactionRepo *repository.TransactionRepository
	projectRepo     *repository.ProjectRepository
	settingsRepo    *repository.SettingsRepository
	pointsService   *PointsService
	db              *gorm.DB
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	transactionRepo *repository.TransactionRepository,
	projectRepo *repository.ProjectRepository,
	settingsRepo *repository.SettingsRepository,
	pointsService *PointsService,
	db *gorm.DB,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		transactionRepo: transactionRepo,
		projectRepo:     projectRepo,
		settingsRepo:    settingsRepo,
		pointsService:   pointsService,
		db:              db,
	}
}

// ProgressFor computes the current value of the metric behind a requirement
// type by scanning the user's rows. budget_streak has no tracking yet and
// always reports zero.
func (s *AchievementService) ProgressFor(userID uint, requirementType string) (int, error) {
	switch requirementType {
	case models.RequirementTransactions:
		count, err := s.transactionRepo.CountByUser(userID)
		return int(count), err
	case models.RequirementLoginStreak:
		account, err := s.pointsService.GetAccount(userID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return 0, nil
			}
			return 0, err
		}
		return account.LoginStreak, nil
	case models.RequirementProjectsCompleted:
		count, err := s.projectRepo.CountCompleted(userID)
		return int(count), err
	case models.RequirementSetupComplete:
		settings, err := s.settingsRepo.FindByUserID(userID)
		if err != nil {
			return 0, err
		}
		if settings != nil && settings.FirstSetupCompleted {
			return 1, nil
		}
		return 0, nil
	case models.RequirementBudgetStreak:
		return 0, nil
	default:
		return 0, nil
	}
}

// Claim unlocks an achievement and awards its points. The unique index on
// (user, achievement) makes a racing double-claim lose cleanly.
func (s *AchievementService) Claim(userID, achievementID uint) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.FindByID(achievementID)
	if err != nil {
		return nil, err
	}
	if achievement == nil {
		return nil, ErrAchievementNotFound
	}

	claimed, err := s.achievementRepo.ExistsUserAchievement(userID, achievementID)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, ErrAchievementAlreadyClaimed
	}

	progress, err := s.ProgressFor(userID, achievement.RequirementType)
	if err != nil {
		return nil, err
	}
	if progress < achievement.RequirementValue {
		return nil, ErrRequirementsNotMet
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		earned := &models.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
		}
		if err := s.achievementRepo.CreateUserAchievementInTx(tx, earned); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAchievementAlreadyClaimed
			}
			return err
		}

		_, _, err := s.pointsService.addPointsInTx(tx, userID, achievement.PointsReward)
		return err
	})
	if err != nil {
		return nil, err
	}

	return achievement, nil
}

// CheckAndAutoClaim unlocks every not-yet-earned achievement of the given
// type whose requirement is covered by the observed value. Called from the
// write paths that move the metric, so eligible achievements unlock without
// the user visiting the achievements view.
func (s *AchievementService) CheckAndAutoClaim(userID uint, requirementType string, observed int) error {
	candidates, err := s.achievementRepo.FindByType(requirementType)
	if err != nil {
		return err
	}

	for i := range candidates {
		achievement := &candidates[i]
		if achievement.RequirementValue > observed {
			continue
		}

		claimed, err := s.achievementRepo.ExistsUserAchievement(userID, achievement.ID)
		if err != nil {
			return err
		}
		if claimed {
			continue
		}

		if _, err := s.Claim(userID, achievement.ID); err != nil {
			if errors.Is(err, ErrAchievementAlreadyClaimed) {
				continue
			}
			return err
		}
		log.Printf("User %d auto-unlocked achievement %q (+%d points)", userID, achievement.Name, achievement.PointsReward)
	}

	return nil
}

func (s *AchievementService) Catalog() ([]models.Achievement, error) {
	return s.achievementRepo.FindAll()
}

func (s *AchievementService) EarnedByUser(userID uint) ([]models.UserAchievement, error) {
	return s.achievementRepo.FindEarnedByUser(userID)
}
