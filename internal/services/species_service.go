package services

import (
	"fmt"
	"strings"

	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
)

type SpeciesService struct {
	speciesRepo *repository.SpeciesRepository
}

func NewSpeciesService(speciesRepo *repository.SpeciesRepository) *SpeciesService {
	return &SpeciesService{speciesRepo: speciesRepo}
}

type RegisterSpeciesInput struct {
	Name        string
	Code        string
	Category    string
	MinHeight   float64
	HarvestDays int
	Climate     string
	Soil        string
	Water       string
	Sunlight    string
	MaxHeight   *float64
	MaxDiameter *float64
}

func (s *SpeciesService) Register(input RegisterSpeciesInput, actorID uint) (*models.Species, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))

	if input.Name == "" {
		return nil, validationf("species name is required")
	}
	if !models.SpeciesCodePattern.MatchString(input.Code) {
		return nil, validationf("species code must be 2-10 uppercase alphanumeric characters")
	}
	if !models.ValidCategory(input.Category) {
		return nil, validationf(fmt.Sprintf("invalid category %q", input.Category))
	}
	if input.MinHeight < 0 {
		return nil, validationf("min_height must not be negative")
	}
	if input.HarvestDays <= 0 {
		return nil, validationf("harvest_days must be a positive integer")
	}
	if input.MaxHeight != nil && *input.MaxHeight < input.MinHeight {
		return nil, validationf("max_height must be >= min_height")
	}
	if input.MaxDiameter != nil && *input.MaxDiameter < input.MinHeight {
		return nil, validationf("max_diameter must be >= min_height")
	}

	if existing, err := s.speciesRepo.FindByName(input.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateSpecies
	}
	if existing, err := s.speciesRepo.FindByCode(input.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateSpecies
	}

	species := &models.Species{
		Name:        input.Name,
		Code:        input.Code,
		Category:    input.Category,
		MinHeight:   input.MinHeight,
		HarvestDays: input.HarvestDays,
		Climate:     input.Climate,
		Soil:        input.Soil,
		Water:       input.Water,
		Sunlight:    input.Sunlight,
		MaxHeight:   input.MaxHeight,
		MaxDiameter: input.MaxDiameter,
		IsActive:    true,
	}
	if actorID != 0 {
		species.CreatedByID = &actorID
	}

	if err := s.speciesRepo.Create(species); err != nil {
		return nil, err
	}

	return species, nil
}

func (s *SpeciesService) GetByID(id uint) (*models.Species, error) {
	species, err := s.speciesRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if species == nil {
		return nil, ErrSpeciesNotFound
	}
	return species, nil
}

func (s *SpeciesService) GetByCode(code string) (*models.Species, error) {
	species, err := s.speciesRepo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if species == nil {
		return nil, ErrSpeciesNotFound
	}
	return species, nil
}

func (s *SpeciesService) ListByCategory(category string, activeOnly bool) ([]models.Species, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, validationf(fmt.Sprintf("invalid category %q", category))
	}
	return s.speciesRepo.FindByCategory(category, activeOnly)
}

// UpdateDescriptive mutates only descriptive fields; name/code/thresholds
// stay as registered.
func (s *SpeciesService) UpdateDescriptive(id uint, climate, soil, water, sunlight string) (*models.Species, error) {
	species, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	species.Climate = climate
	species.Soil = soil
	species.Water = water
	species.Sunlight = sunlight

	if err := s.speciesRepo.Update(species); err != nil {
		return nil, err
	}
	return species, nil
}

// Deactivate soft-disables a species. Existing lots keep their reference.
func (s *SpeciesService) Deactivate(id uint) error {
	species, err := s.GetByID(id)
	if err != nil {
		return err
	}

	species.IsActive = false
	return s.speciesRepo.Update(species)
}
