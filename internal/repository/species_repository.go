package repository

import (
	"errors"

	"github.com/croptrack/croptrack/internal/models"
	"gorm.io/gorm"
)

type SpeciesRepository struct {
	db *gorm.DB
}

func NewSpeciesRepository(db *gorm.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

func (r *SpeciesRepository) Create(species *models.Species) error {
	return r.db.Create(species).Error
}

func (r *SpeciesRepository) FindByID(id uint) (*models.Species, error) {
	var species models.Species
	err := r.db.First(&species, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &species, nil
}

func (r *SpeciesRepository) FindByCode(code string) (*models.Species, error) {
	var species models.Species
	err := r.db.Where("code = ?", code).First(&species).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &species, nil
}

func (r *SpeciesRepository) FindByName(name string) (*models.Species, error) {
	var species models.Species
	err := r.db.Where("name = ?", name).First(&species).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &species, nil
}

func (r *SpeciesRepository) FindByCategory(category string, activeOnly bool) ([]models.Species, error) {
	var list []models.Species
	db := r.db
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *SpeciesRepository) Update(species *models.Species) error {
	return r.db.Save(species).Error
}
