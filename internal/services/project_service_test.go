package services

import (
	"testing"
	"time"

	"github.com/itsmeter/piggy-point-plan/internal/database"
	"github.com/itsmeter/piggy-point-plan/internal/models"
	"github.com/itsmeter/piggy-point-plan/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupProjectTestDB(t *testing.T) (*gorm.DB, *ProjectService, *TransactionService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	transactionRepo := repository.NewTransactionRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	pointsService := NewPointsService(pointsRepo, db)
	achievementService := NewAchievementService(achievementRepo, transactionRepo, projectRepo, settingsRepo, pointsService, db)
	transactionService := NewTransactionService(transactionRepo, budgetRepo, projectRepo, achievementService, db)
	projectService := NewProjectService(projectRepo, transactionRepo, achievementService, db)

	return db, projectService, transactionService
}

func TestProjectService_Create(t *testing.T) {
	_, projectService, _ := setupProjectTestDB(t)

	target := 20000.0
	project, err := projectService.Create(1, "New Laptop", "saving up", &target, time.Time{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "New Laptop", project.Name)
	assert.Equal(t, models.StatusActive, project.Status)
	assert.False(t, project.StartDate.IsZero(), "zero start date defaults to now")
}

func TestProjectService_AddContribution(t *testing.T) {
	_, projectService, transactionService := setupProjectTestDB(t)

	project, err := projectService.Create(1, "New Laptop", "", nil, time.Now(), nil)
	assert.NoError(t, err)

	contribution, err := projectService.AddContribution(1, project.ID, 500, "first deposit")
	assert.NoError(t, err)
	assert.Equal(t, 500.0, contribution.Amount)

	project, err = projectService.Get(1, project.ID)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, project.TotalExpense)

	transactions, err := transactionService.List(1, 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1, "a contribution posts a paired ledger transaction")
	assert.Equal(t, models.TransactionTypeProjectContribution, transactions[0].Type)
	assert.Equal(t, 500.0, transactions[0].Amount)
	assert.NotNil(t, transactions[0].ProjectID)
	assert.Equal(t, project.ID, *transactions[0].ProjectID)

	summary, err := transactionService.Summarize(1)
	assert.NoError(t, err)
	assert.Equal(t, -500.0, summary.Balance, "contributions count as outgoing money")
}

func TestProjectService_AddContribution_ProjectNotFound(t *testing.T) {
	_, projectService, transactionService := setupProjectTestDB(t)

	_, err := projectService.AddContribution(1, 999, 500, "")
	assert.Equal(t, ErrProjectNotFound, err)

	transactions, err := transactionService.List(1, 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 0, "failed contribution must not post a transaction")
}

func TestProjectService_AddContribution_InvalidAmount(t *testing.T) {
	_, projectService, _ := setupProjectTestDB(t)

	project, err := projectService.Create(1, "New Laptop", "", nil, time.Now(), nil)
	assert.NoError(t, err)

	_, err = projectService.AddContribution(1, project.ID, 0, "")
	assert.Equal(t, ErrInvalidAmount, err)
}

func TestProjectService_DeleteContributionTransaction(t *testing.T) {
	_, projectService, transactionService := setupProjectTestDB(t)

	project, err := projectService.Create(1, "New Laptop", "", nil, time.Now(), nil)
	assert.NoError(t, err)

	_, err = projectService.AddContribution(1, project.ID, 500, "")
	assert.NoError(t, err)

	transactions, err := transactionService.List(1, 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)

	err = transactionService.Delete(1, transactions[0].ID)
	assert.NoError(t, err)

	project, err = projectService.Get(1, project.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, project.TotalExpense, "deleting the paired transaction reverses the project total")
}

func TestProjectService_Complete(t *testing.T) {
	db, projectService, _ := setupProjectTestDB(t)

	seedPointsAccount(t, db, &models.PointsAccount{UserID: 1})
	assert.NoError(t, db.Create(&models.Achievement{
		Name:             "Goal Getter",
		RequirementType:  models.RequirementProjectsCompleted,
		RequirementValue: 1,
		PointsReward:     300,
	}).Error)

	project, err := projectService.Create(1, "New Laptop", "", nil, time.Now(), nil)
	assert.NoError(t, err)

	completed, err := projectService.Complete(1, project.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.EndDate)

	var account models.PointsAccount
	assert.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
	assert.Equal(t, 300, account.TotalPoints, "completing the first project unlocks the achievement")

	// Completing again is idempotent.
	_, err = projectService.Complete(1, project.ID)
	assert.NoError(t, err)

	assert.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
	assert.Equal(t, 300, account.TotalPoints)
}

func TestProjectService_Complete_NotFound(t *testing.T) {
	_, projectService, _ := setupProjectTestDB(t)

	_, err := projectService.Complete(1, 999)
	assert.Equal(t, ErrProjectNotFound, err)
}
