package services

import (
	"errors"
	"log"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectService struct {
	projectRepo        *repository.ProjectRepository
	transactionRepo    *repository.TransactionRepository
	achievementService *AchievementService
	db                 *gorm.DB
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	transactionRepo *repository.TransactionRepository,
	achievementService *AchievementService,
	db *gorm.DB,
) *ProjectService {
	return &ProjectService{
		projectRepo:        projectRepo,
		transactionRepo:    transactionRepo,
		achievementService: achievementService,
		db:                 db,
	}
}

func (s *ProjectService) Create(userID uint, name, description string, targetBudget *float64, startDate time.Time, endDate *time.Time) (*models.Project, error) {
	if startDate.IsZero() {
		startDate = time.Now()
	}

	project := &models.Project{
		UserID:       userID,
		Name:         name,
		Description:  description,
		TargetBudget: targetBudget,
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       models.StatusActive,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(userID, id uint, name, description string, targetBudget *float64, endDate *time.Time) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	project.Name = name
	project.Description = description
	project.TargetBudget = targetBudget
	project.EndDate = endDate
	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(userID, id uint) error {
	project, err := s.projectRepo.FindByID(userID, id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	return s.projectRepo.Delete(userID, id)
}

func (s *ProjectService) List(userID uint) ([]models.Project, error) {
	return s.projectRepo.FindByUser(userID)
}

func (s *ProjectService) Get(userID, id uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) Contributions(userID, projectID uint) ([]models.ProjectContribution, error) {
	return s.projectRepo.FindContributions(userID, projectID)
}

// AddContribution funds a project goal: it appends the contribution row,
// posts the paired ledger transaction, and bumps the project's expense
// total, all in one database transaction.
func (s *ProjectService) AddContribution(userID, projectID uint, amount float64, note string) (*models.ProjectContribution, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	contribution := &models.ProjectContribution{
		ProjectID: projectID,
		UserID:    userID,
		Amount:    amount,
		Note:      note,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		project, err := s.projectRepo.FindByIDForUpdate(tx, userID, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		if err := s.projectRepo.CreateContributionInTx(tx, contribution); err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:     userID,
			Amount:     amount,
			Type:       models.TransactionTypeProjectContribution,
			Category:   "Project",
			Note:       note,
			OccurredAt: time.Now(),
			ProjectID:  &projectID,
		}
		if err := s.transactionRepo.Create(tx, transaction); err != nil {
			return err
		}

		project.TotalExpense += amount
		return s.projectRepo.UpdateInTx(tx, project)
	})
	if err != nil {
		return nil, err
	}

	s.autoClaimTransactionCount(userID)

	return contribution, nil
}

// Complete marks the project done and checks completion achievements.
func (s *ProjectService) Complete(userID, id uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if project.Status != models.StatusCompleted {
		project.Status = models.StatusCompleted
		now := time.Now()
		if project.EndDate == nil {
			project.EndDate = &now
		}
		if err := s.projectRepo.Update(project); err != nil {
			return nil, err
		}
	}

	completed, err := s.projectRepo.CountCompleted(userID)
	if err != nil {
		log.Printf("Failed to count completed projects for user %d: %v", userID, err)
		return project, nil
	}
	if err := s.achievementService.CheckAndAutoClaim(userID, models.RequirementProjectsCompleted, int(completed)); err != nil {
		log.Printf("Failed to auto-claim project achievements for user %d: %v", userID, err)
	}

	return project, nil
}

func (s *ProjectService) autoClaimTransactionCount(userID uint) {
	count, err := s.transactionRepo.CountByUser(userID)
	if err != nil {
		log.Printf("Failed to count transactions for user %d: %v", userID, err)
		return
	}
	if err := s.achievementService.CheckAndAutoClaim(userID, models.RequirementTransactions, int(count)); err != nil {
		log.Printf("Failed to auto-claim transaction achievements for user %d: %v", userID, err)
	}
}
