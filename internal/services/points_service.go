package services

import (
	"errors"
	"log"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrRewardAlreadyClaimed = errors.New("daily reward already claimed today")
	ErrAccountNotFound      = errors.New("points account not found")
	ErrInvalidAmount        = errors.New("invalid amount")
)

const (
	dateLayout      = "2006-01-02"
	levelStep       = 1000
	dailyRewardBase = 50
	streakBonusStep = 10
	streakBonusCap  = 100
)

type PointsService struct {
	pointsRepo *repository.PointsRepository
	db         *gorm.DB
}

func NewPointsService(pointsRepo *repository.PointsRepository, db *gorm.DB) *PointsService {
	return &PointsService{
		pointsRepo: pointsRepo,
		db:         db,
	}
}

func (s *PointsService) GetAccount(userID uint) (*models.PointsAccount, error) {
	account, err := s.pointsRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// AddPoints credits the account and applies the level curve: crossing the
// current threshold bumps the level and resets the threshold to
// level * 1000. A missing account is a silent no-op. Returns whether a
// level-up happened.
func (s *PointsService) AddPoints(userID uint, amount int, reason string) (*models.PointsAccount, bool, error) {
	if amount <= 0 {
		return nil, false, ErrInvalidAmount
	}

	var account *models.PointsAccount
	var leveledUp bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, leveledUp, err = s.addPointsInTx(tx, userID, amount)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, nil
	}

	if leveledUp {
		log.Printf("User %d reached level %d (+%d points: %s)", userID, account.CurrentLevel, amount, reason)
	}

	return account, leveledUp, nil
}

func (s *PointsService) addPointsInTx(tx *gorm.DB, userID uint, amount int) (*models.PointsAccount, bool, error) {
	account, err := s.pointsRepo.FindByUserIDForUpdate(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	account.TotalPoints += amount
	leveledUp := false
	if account.TotalPoints >= account.PointsToNextLevel {
		account.CurrentLevel++
		account.PointsToNextLevel = account.CurrentLevel * levelStep
		leveledUp = true
	}

	if err := s.pointsRepo.UpdateInTx(tx, account); err != nil {
		return nil, false, err
	}
	return account, leveledUp, nil
}

// SpendPoints debits the account. Spending never reduces the level or the
// threshold.
func (s *PointsService) SpendPoints(userID uint, amount int, reason string) (*models.PointsAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var account *models.PointsAccount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = s.spendPointsInTx(tx, userID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *PointsService) spendPointsInTx(tx *gorm.DB, userID uint, amount int) (*models.PointsAccount, error) {
	account, err := s.pointsRepo.FindByUserIDForUpdate(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if account.TotalPoints < amount {
		return nil, ErrInsufficientPoints
	}

	account.TotalPoints -= amount
	if err := s.pointsRepo.UpdateInTx(tx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ClaimDailyReward claims the reward for the calendar date of today. The
// streak continues when the previous claim was yesterday and restarts at 1
// after any longer gap. The reward is 50 base plus min(streak*10, 100).
func (s *PointsService) ClaimDailyReward(userID uint, today time.Time) (*models.PointsAccount, int, error) {
	todayStr := today.Format(dateLayout)
	yesterdayStr := today.AddDate(0, 0, -1).Format(dateLayout)

	var account *models.PointsAccount
	var awarded int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = s.pointsRepo.FindByUserIDForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if account.LastDailyRewardClaimed == todayStr {
			return ErrRewardAlreadyClaimed
		}

		streak := 1
		if account.LastDailyRewardClaimed == yesterdayStr {
			streak = account.LoginStreak + 1
		}

		bonus := min(streak*streakBonusStep, streakBonusCap)
		awarded = dailyRewardBase + bonus

		account.LoginStreak = streak
		account.LastLoginDate = todayStr
		account.LastDailyRewardClaimed = todayStr

		account.TotalPoints += awarded
		if account.TotalPoints >= account.PointsToNextLevel {
			account.CurrentLevel++
			account.PointsToNextLevel = account.CurrentLevel * levelStep
		}

		return s.pointsRepo.UpdateInTx(tx, account)
	})
	if err != nil {
		return nil, 0, err
	}

	return account, awarded, nil
}

// CanClaimDailyReward reports whether the daily reward is still unclaimed
// for the calendar date of today.
func (s *PointsService) CanClaimDailyReward(userID uint, today time.Time) (bool, string, error) {
	account, err := s.pointsRepo.FindByUserID(userID)
	if err != nil {
		return false, "", err
	}
	if account == nil {
		return false, "", ErrAccountNotFound
	}
	return account.LastDailyRewardClaimed != today.Format(dateLayout), account.LastDailyRewardClaimed, nil
}
