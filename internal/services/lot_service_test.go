package services

import (
	"sync"
	"testing"
	"time"

	"github.com/croptrack/croptrack/internal/database"
	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lotTestEnv struct {
	lotService     *LotService
	speciesService *SpeciesService
	actor          *models.User
	species        *models.Species
}

func setupLotTestDB(t *testing.T) *lotTestEnv {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	speciesRepo := repository.NewSpeciesRepository(db)
	lotRepo := repository.NewLotRepository(db)

	actor := &models.User{Username: "worker1", PasswordHash: "x", Role: models.RoleField}
	require.NoError(t, userRepo.Create(actor))

	speciesService := NewSpeciesService(speciesRepo)
	species, err := speciesService.Register(RegisterSpeciesInput{
		Name:        "Cherry Tomato",
		Code:        "TOM1",
		Category:    models.CategoryVegetable,
		MinHeight:   50,
		HarvestDays: 90,
	}, actor.ID)
	require.NoError(t, err)

	return &lotTestEnv{
		lotService:     NewLotService(lotRepo, speciesRepo, db),
		speciesService: speciesService,
		actor:          actor,
		species:        species,
	}
}

func (e *lotTestEnv) createLot(t *testing.T, code string, plantedDaysAgo int) *models.Lot {
	lot, err := e.lotService.CreateLot(CreateLotInput{
		Code:        code,
		SpeciesID:   e.species.ID,
		PlantedDate: time.Now().AddDate(0, 0, -plantedDaysAgo),
		Zone:        "north",
		LocationID:  "N-04",
		PlantCount:  25,
	}, e.actor.ID)
	require.NoError(t, err)
	return lot
}

func TestLotService_CreateLot(t *testing.T) {
	env := setupLotTestDB(t)

	lot := env.createLot(t, "LOT-001", 10)
	assert.Equal(t, "LOT-001", lot.Code)
	assert.Equal(t, env.species.ID, lot.SpeciesID)
	assert.Equal(t, models.HealthHealthy, lot.HealthStatus)
	assert.Equal(t, env.actor.ID, lot.CreatedByID)
	assert.NotNil(t, lot.Species)
}

func TestLotService_CreateLot_Validation(t *testing.T) {
	env := setupLotTestDB(t)

	_, err := env.lotService.CreateLot(CreateLotInput{
		Code:        "LOT-002",
		SpeciesID:   env.species.ID,
		PlantedDate: time.Now().AddDate(0, 0, 2),
		Zone:        "north",
		LocationID:  "N-04",
		PlantCount:  25,
	}, env.actor.ID)
	assert.True(t, IsValidation(err), "future planted date must be rejected")

	_, err = env.lotService.CreateLot(CreateLotInput{
		Code:        "bad code!",
		SpeciesID:   env.species.ID,
		PlantedDate: time.Now(),
		Zone:        "north",
		LocationID:  "N-04",
		PlantCount:  25,
	}, env.actor.ID)
	assert.True(t, IsValidation(err))

	_, err = env.lotService.CreateLot(CreateLotInput{
		Code:        "LOT-003",
		SpeciesID:   env.species.ID,
		PlantedDate: time.Now(),
		Zone:        "north",
		LocationID:  "N-04",
		PlantCount:  0,
	}, env.actor.ID)
	assert.True(t, IsValidation(err))
}

func TestLotService_CreateLot_UnknownSpecies(t *testing.T) {
	env := setupLotTestDB(t)

	_, err := env.lotService.CreateLot(CreateLotInput{
		Code:        "LOT-004",
		SpeciesID:   999,
		PlantedDate: time.Now(),
		Zone:        "north",
		LocationID:  "N-04",
		PlantCount:  25,
	}, env.actor.ID)
	assert.Equal(t, ErrSpeciesNotFound, err)
}

func TestLotService_CreateLot_DuplicateCode(t *testing.T) {
	env := setupLotTestDB(t)
	env.createLot(t, "LOT-005", 10)

	_, err := env.lotService.CreateLot(CreateLotInput{
		Code:        "LOT-005",
		SpeciesID:   env.species.ID,
		PlantedDate: time.Now(),
		Zone:        "south",
		LocationID:  "S-01",
		PlantCount:  5,
	}, env.actor.ID)
	assert.Equal(t, ErrDuplicateLotCode, err)
}

func TestLotService_RecordGrowthMeasurement(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-010", 10)

	d1 := 3.5
	updated, err := env.lotService.RecordGrowthMeasurement(lot.ID, 12.0, &d1, "first check", env.actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, 12.0, updated.CurrentHeight)
	assert.Equal(t, 3.5, updated.CurrentDiameter)
	assert.Len(t, updated.Measurements, 1)

	updated, err = env.lotService.RecordGrowthMeasurement(lot.ID, 18.5, nil, "", env.actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, 18.5, updated.CurrentHeight)
	// Diameter snapshot keeps its last measured value.
	assert.Equal(t, 3.5, updated.CurrentDiameter)
	assert.Len(t, updated.Measurements, 2)

	// History is ordered by recording time.
	assert.Equal(t, 12.0, updated.Measurements[0].Height)
	assert.Equal(t, 18.5, updated.Measurements[1].Height)

	_, err = env.lotService.RecordGrowthMeasurement(lot.ID, -1, nil, "", env.actor.ID)
	assert.True(t, IsValidation(err))
}

func TestLotService_ConcurrentMeasurementAppends(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-011", 10)

	var wg sync.WaitGroup
	heights := []float64{20.0, 21.0}
	for _, h := range heights {
		wg.Add(1)
		go func(height float64) {
			defer wg.Done()
			_, err := env.lotService.RecordGrowthMeasurement(lot.ID, height, nil, "", env.actor.ID)
			assert.NoError(t, err)
		}(h)
	}
	wg.Wait()

	// Both appends survive as history entries; the snapshot holds
	// whichever write landed last.
	after, err := env.lotService.GetLot(lot.ID)
	assert.NoError(t, err)
	assert.Len(t, after.Measurements, 2)
	assert.Contains(t, heights, after.CurrentHeight)
}

func TestLotService_RecordHealthObservation(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-012", 10)

	updated, err := env.lotService.RecordHealthObservation(lot.ID, models.HealthSick, "yellow leaves", "fungicide", "", env.actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.HealthSick, updated.HealthStatus)
	assert.Len(t, updated.HealthRecords, 1)

	// Any status may follow any other.
	updated, err = env.lotService.RecordHealthObservation(lot.ID, models.HealthDead, "", "", "", env.actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.HealthDead, updated.HealthStatus)

	updated, err = env.lotService.RecordHealthObservation(lot.ID, models.HealthHealthy, "", "", "recovered after all", env.actor.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.HealthHealthy, updated.HealthStatus)
	assert.Len(t, updated.HealthRecords, 3)

	_, err = env.lotService.RecordHealthObservation(lot.ID, "thriving", "", "", "", env.actor.ID)
	assert.True(t, IsValidation(err))
}

func TestLotService_AttachPhoto(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-013", 10)

	updated, err := env.lotService.AttachPhoto(lot.ID, "https://cdn.example.com/lot13.jpg", "week 2", env.actor.ID)
	assert.NoError(t, err)
	assert.Len(t, updated.Photos, 1)
	assert.Equal(t, "week 2", updated.Photos[0].Caption)
	assert.Equal(t, env.actor.ID, *updated.UpdatedByID)

	_, err = env.lotService.AttachPhoto(lot.ID, "https://cdn.example.com/report.pdf", "", env.actor.ID)
	assert.True(t, IsValidation(err))
}

func TestLotService_Harvest(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-014", 95)

	updated, err := env.lotService.Harvest(lot.ID, 12.5, "kg", models.QualityA, env.actor.ID)
	assert.NoError(t, err)
	assert.True(t, updated.IsHarvested)
	assert.NotNil(t, updated.HarvestedDate)
	assert.False(t, updated.HarvestedDate.Before(updated.PlantedDate))
	assert.Equal(t, 12.5, *updated.HarvestQuantity)
	assert.Equal(t, "kg", updated.HarvestUnit)
	assert.Equal(t, models.QualityA, updated.HarvestQuality)

	_, err = env.lotService.Harvest(lot.ID, 1, "kg", models.QualityB, env.actor.ID)
	assert.Equal(t, ErrAlreadyHarvested, err)
}

func TestLotService_FindReadyForHarvest(t *testing.T) {
	env := setupLotTestDB(t)

	// Species thresholds: minHeight 50, harvestDays 90.
	ready := env.createLot(t, "LOT-020", 91)
	_, err := env.lotService.RecordGrowthMeasurement(ready.ID, 55, nil, "", env.actor.ID)
	assert.NoError(t, err)

	tooShort := env.createLot(t, "LOT-021", 91)
	_, err = env.lotService.RecordGrowthMeasurement(tooShort.ID, 40, nil, "", env.actor.ID)
	assert.NoError(t, err)

	tooYoung := env.createLot(t, "LOT-022", 89)
	_, err = env.lotService.RecordGrowthMeasurement(tooYoung.ID, 55, nil, "", env.actor.ID)
	assert.NoError(t, err)

	result, err := env.lotService.FindReadyForHarvest()
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "LOT-020", result[0].Code)

	// A harvested lot drops out of the scan.
	_, err = env.lotService.Harvest(ready.ID, 10, "kg", models.QualityA, env.actor.ID)
	assert.NoError(t, err)

	result, err = env.lotService.FindReadyForHarvest()
	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestLotService_ListAndFilter(t *testing.T) {
	env := setupLotTestDB(t)

	a := env.createLot(t, "LOT-030", 10)
	env.createLot(t, "LOT-031", 10)

	south, err := env.lotService.CreateLot(CreateLotInput{
		Code:        "LOT-032",
		SpeciesID:   env.species.ID,
		PlantedDate: time.Now().AddDate(0, 0, -5),
		Zone:        "south",
		LocationID:  "S-01",
		PlantCount:  10,
	}, env.actor.ID)
	assert.NoError(t, err)

	_, err = env.lotService.RecordHealthObservation(a.ID, models.HealthSick, "", "", "", env.actor.ID)
	assert.NoError(t, err)

	lots, total, err := env.lotService.ListLots(repository.LotFilter{Zone: "south"}, 1, 20, "", "")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, south.Code, lots[0].Code)

	lots, total, err = env.lotService.ListLots(repository.LotFilter{HealthStatus: models.HealthSick}, 1, 20, "", "")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "LOT-030", lots[0].Code)

	_, _, err = env.lotService.ListLots(repository.LotFilter{HealthStatus: "wilting"}, 1, 20, "", "")
	assert.True(t, IsValidation(err))

	_, total, err = env.lotService.ListLots(repository.LotFilter{}, 1, 2, "code", "asc")
	assert.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestLotService_DeleteLot(t *testing.T) {
	env := setupLotTestDB(t)
	lot := env.createLot(t, "LOT-040", 10)

	err := env.lotService.DeleteLot(lot.ID)
	assert.NoError(t, err)

	_, err = env.lotService.GetLot(lot.ID)
	assert.Equal(t, ErrLotNotFound, err)

	err = env.lotService.DeleteLot(lot.ID)
	assert.Equal(t, ErrLotNotFound, err)
}

func TestLotService_Stats(t *testing.T) {
	env := setupLotTestDB(t)

	a := env.createLot(t, "LOT-050", 95)
	env.createLot(t, "LOT-051", 10)

	_, err := env.lotService.RecordGrowthMeasurement(a.ID, 60, nil, "", env.actor.ID)
	assert.NoError(t, err)
	_, err = env.lotService.Harvest(a.ID, 5, "kg", models.QualityB, env.actor.ID)
	assert.NoError(t, err)

	stats, err := env.lotService.Stats()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalLots)
	assert.EqualValues(t, 1, stats.HarvestedLots)
	assert.Equal(t, 30.0, stats.AverageHeight)
	assert.NotEmpty(t, stats.ByHealthStatus)
	assert.NotEmpty(t, stats.ByZone)
}
