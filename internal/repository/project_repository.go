package repository

import (
	"errors"

	"github.com/itsmeter/piggy-point-plan/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepository) FindByID(userID, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("user_id = ?", userID).First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) FindByIDForUpdate(tx *gorm.DB, userID, id uint) (*models.Project, error) {
	var project models.Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) FindByUser(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

func (r *ProjectRepository) UpdateInTx(tx *gorm.DB, project *models.Project) error {
	return tx.Save(project).Error
}

func (r *ProjectRepository) Delete(userID, id uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Project{}, id).Error
}

func (r *ProjectRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *ProjectRepository) CreateContributionInTx(tx *gorm.DB, contribution *models.ProjectContribution) error {
	return tx.Create(contribution).Error
}

func (r *ProjectRepository) FindContributions(userID, projectID uint) ([]models.ProjectContribution, error) {
	var contributions []models.ProjectContribution
	err := r.db.Where("user_id = ? AND project_id = ?", userID, projectID).
		Order("created_at DESC").
		Find(&contributions).Error
	return contributions, err
}
