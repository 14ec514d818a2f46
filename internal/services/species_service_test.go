package services

import (
	"testing"

	"github.com/croptrack/croptrack/internal/database"
	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/stretchr/testify/assert"
)

func setupSpeciesTestDB(t *testing.T) (*repository.SpeciesRepository, *SpeciesService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	speciesRepo := repository.NewSpeciesRepository(db)
	return speciesRepo, NewSpeciesService(speciesRepo)
}

func tomatoInput() RegisterSpeciesInput {
	return RegisterSpeciesInput{
		Name:        "Cherry Tomato",
		Code:        "TOM1",
		Category:    models.CategoryVegetable,
		MinHeight:   50,
		HarvestDays: 90,
		Climate:     "temperate",
	}
}

func TestSpeciesService_RegisterAndLookup(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	created, err := speciesService.Register(tomatoInput(), 0)
	assert.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)

	found, err := speciesService.GetByCode("TOM1")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Cherry Tomato", found.Name)
	assert.Equal(t, 50.0, found.MinHeight)
	assert.Equal(t, 90, found.HarvestDays)
}

func TestSpeciesService_CodeNormalized(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	input := tomatoInput()
	input.Code = " tom1 "
	created, err := speciesService.Register(input, 0)
	assert.NoError(t, err)
	assert.Equal(t, "TOM1", created.Code)
}

func TestSpeciesService_DuplicateCode(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	_, err := speciesService.Register(tomatoInput(), 0)
	assert.NoError(t, err)

	// Same code, everything else different.
	other := RegisterSpeciesInput{
		Name:        "Roma Tomato",
		Code:        "TOM1",
		Category:    models.CategoryFruit,
		MinHeight:   10,
		HarvestDays: 60,
	}
	_, err = speciesService.Register(other, 0)
	assert.Equal(t, ErrDuplicateSpecies, err)
}

func TestSpeciesService_DuplicateName(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	_, err := speciesService.Register(tomatoInput(), 0)
	assert.NoError(t, err)

	other := tomatoInput()
	other.Code = "TOM2"
	_, err = speciesService.Register(other, 0)
	assert.Equal(t, ErrDuplicateSpecies, err)
}

func TestSpeciesService_Validation(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	input := tomatoInput()
	input.Category = "cactus"
	_, err := speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))

	input = tomatoInput()
	input.MinHeight = -1
	_, err = speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))

	input = tomatoInput()
	input.HarvestDays = 0
	_, err = speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))

	input = tomatoInput()
	lower := 10.0
	input.MaxHeight = &lower
	_, err = speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))

	input = tomatoInput()
	narrow := 1.0
	input.MaxDiameter = &narrow
	_, err = speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))

	input = tomatoInput()
	input.Code = "lowercase-code"
	_, err = speciesService.Register(input, 0)
	assert.True(t, IsValidation(err))
}

func TestSpeciesService_LookupMissing(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	_, err := speciesService.GetByCode("NOPE")
	assert.Equal(t, ErrSpeciesNotFound, err)

	_, err = speciesService.GetByID(999)
	assert.Equal(t, ErrSpeciesNotFound, err)
}

func TestSpeciesService_Deactivate(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	created, err := speciesService.Register(tomatoInput(), 0)
	assert.NoError(t, err)

	err = speciesService.Deactivate(created.ID)
	assert.NoError(t, err)

	// Still resolvable by code; only the active flag flips.
	found, err := speciesService.GetByCode("TOM1")
	assert.NoError(t, err)
	assert.False(t, found.IsActive)

	active, err := speciesService.ListByCategory("", true)
	assert.NoError(t, err)
	assert.Empty(t, active)
}

func TestSpeciesService_ListByCategory(t *testing.T) {
	_, speciesService := setupSpeciesTestDB(t)

	_, err := speciesService.Register(tomatoInput(), 0)
	assert.NoError(t, err)

	basil := RegisterSpeciesInput{
		Name:        "Basil",
		Code:        "BAS1",
		Category:    models.CategoryHerb,
		MinHeight:   15,
		HarvestDays: 30,
	}
	_, err = speciesService.Register(basil, 0)
	assert.NoError(t, err)

	herbs, err := speciesService.ListByCategory(models.CategoryHerb, true)
	assert.NoError(t, err)
	assert.Len(t, herbs, 1)
	assert.Equal(t, "Basil", herbs[0].Name)

	all, err := speciesService.ListByCategory("", true)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
