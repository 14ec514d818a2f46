package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"gorm.io/gorm"
)

type LotService struct {
	lotRepo     *repository.LotRepository
	speciesRepo *repository.SpeciesRepository
	db          *gorm.DB
}

func NewLotService(lotRepo *repository.LotRepository, speciesRepo *repository.SpeciesRepository, db *gorm.DB) *LotService {
	return &LotService{
		lotRepo:     lotRepo,
		speciesRepo: speciesRepo,
		db:          db,
	}
}

type CreateLotInput struct {
	Code        string
	SpeciesID   uint
	PlantedDate time.Time
	Zone        string
	LocationID  string
	PlantCount  int
	Notes       string
}

type UpdateLotInput struct {
	Zone         *string
	LocationID   *string
	Notes        *string
	AssignedToID *uint
}

type LotStats struct {
	TotalLots      int64                          `json:"total_lots"`
	HarvestedLots  int64                          `json:"harvested_lots"`
	AverageHeight  float64                        `json:"average_height"`
	ByHealthStatus []repository.HealthStatusCount `json:"by_health_status"`
	ByZone         []repository.ZoneCount         `json:"by_zone"`
}

func (s *LotService) CreateLot(input CreateLotInput, actorID uint) (*models.Lot, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))

	if !models.LotCodePattern.MatchString(input.Code) {
		return nil, validationf("lot code must be 3-20 characters of A-Z, 0-9 or '-'")
	}
	if input.PlantedDate.IsZero() {
		return nil, validationf("planted_date is required")
	}
	if input.PlantedDate.After(time.Now()) {
		return nil, validationf("planted_date must not be in the future")
	}
	if input.Zone == "" {
		return nil, validationf("zone is required")
	}
	if input.LocationID == "" {
		return nil, validationf("location_id is required")
	}
	if input.PlantCount <= 0 {
		return nil, validationf("plant_count must be a positive integer")
	}

	species, err := s.speciesRepo.FindByID(input.SpeciesID)
	if err != nil {
		return nil, err
	}
	if species == nil {
		return nil, ErrSpeciesNotFound
	}

	if existing, err := s.lotRepo.FindByCode(input.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateLotCode
	}

	lot := &models.Lot{
		Code:         input.Code,
		SpeciesID:    species.ID,
		PlantedDate:  input.PlantedDate,
		Zone:         input.Zone,
		LocationID:   input.LocationID,
		PlantCount:   input.PlantCount,
		HealthStatus: models.HealthHealthy,
		Notes:        input.Notes,
		CreatedByID:  actorID,
		IsActive:     true,
	}

	if err := s.lotRepo.Create(lot); err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

// RecordGrowthMeasurement appends one measurement row and mirrors its
// values into the lot's current-height/diameter snapshot. The snapshot
// always tracks the newest append; it has no other writer.
func (s *LotService) RecordGrowthMeasurement(lotID uint, height float64, diameter *float64, notes string, actorID uint) (*models.Lot, error) {
	if height < 0 {
		return nil, validationf("height must not be negative")
	}
	if diameter != nil && *diameter < 0 {
		return nil, validationf("diameter must not be negative")
	}

	lot, err := s.getLot(lotID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		measurement := &models.GrowthMeasurement{
			LotID:        lot.ID,
			Height:       height,
			Diameter:     diameter,
			Notes:        notes,
			RecordedAt:   time.Now(),
			RecordedByID: actorID,
		}
		if err := s.lotRepo.CreateMeasurementInTx(tx, measurement); err != nil {
			return err
		}

		snapshot := map[string]interface{}{
			"current_height": height,
			"updated_by_id":  actorID,
		}
		if diameter != nil {
			snapshot["current_diameter"] = *diameter
		}
		return s.lotRepo.UpdateSnapshotInTx(tx, lot.ID, snapshot)
	})
	if err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

// RecordHealthObservation appends a health record and moves the lot's
// current status to it. Any status may follow any other.
func (s *LotService) RecordHealthObservation(lotID uint, status, symptoms, treatment, notes string, actorID uint) (*models.Lot, error) {
	if !models.ValidHealthStatus(status) {
		return nil, validationf(fmt.Sprintf("invalid health status %q", status))
	}

	lot, err := s.getLot(lotID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		record := &models.HealthRecord{
			LotID:        lot.ID,
			Status:       status,
			Symptoms:     symptoms,
			Treatment:    treatment,
			Notes:        notes,
			RecordedAt:   time.Now(),
			RecordedByID: actorID,
		}
		if err := s.lotRepo.CreateHealthRecordInTx(tx, record); err != nil {
			return err
		}
		return s.lotRepo.UpdateSnapshotInTx(tx, lot.ID, map[string]interface{}{
			"health_status": status,
			"updated_by_id": actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

func (s *LotService) AttachPhoto(lotID uint, url, caption string, actorID uint) (*models.Lot, error) {
	if !models.PhotoURLPattern.MatchString(url) {
		return nil, validationf("photo url must end with an image extension (jpg, jpeg, png, gif, webp)")
	}

	lot, err := s.getLot(lotID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		photo := &models.LotPhoto{
			LotID:        lot.ID,
			URL:          url,
			Caption:      caption,
			UploadedAt:   time.Now(),
			UploadedByID: actorID,
		}
		if err := s.lotRepo.CreatePhotoInTx(tx, photo); err != nil {
			return err
		}
		return s.lotRepo.UpdateSnapshotInTx(tx, lot.ID, map[string]interface{}{
			"updated_by_id": actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

func (s *LotService) Harvest(lotID uint, quantity float64, unit, quality string, actorID uint) (*models.Lot, error) {
	if quantity <= 0 {
		return nil, validationf("harvest quantity must be positive")
	}
	if unit == "" {
		return nil, validationf("harvest unit is required")
	}
	if !models.ValidQuality(quality) {
		return nil, validationf(fmt.Sprintf("invalid quality grade %q", quality))
	}

	lot, err := s.getLot(lotID)
	if err != nil {
		return nil, err
	}
	if lot.IsHarvested {
		return nil, ErrAlreadyHarvested
	}

	now := time.Now()
	lot.IsHarvested = true
	lot.HarvestedDate = &now
	lot.HarvestQuantity = &quantity
	lot.HarvestUnit = unit
	lot.HarvestQuality = quality
	lot.UpdatedByID = &actorID

	if err := s.lotRepo.Update(lot); err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

func (s *LotService) UpdateLot(lotID uint, input UpdateLotInput, actorID uint) (*models.Lot, error) {
	lot, err := s.getLot(lotID)
	if err != nil {
		return nil, err
	}

	if input.Zone != nil {
		if *input.Zone == "" {
			return nil, validationf("zone must not be empty")
		}
		lot.Zone = *input.Zone
	}
	if input.LocationID != nil {
		if *input.LocationID == "" {
			return nil, validationf("location_id must not be empty")
		}
		lot.LocationID = *input.LocationID
	}
	if input.Notes != nil {
		lot.Notes = *input.Notes
	}
	if input.AssignedToID != nil {
		lot.AssignedToID = input.AssignedToID
	}
	lot.UpdatedByID = &actorID

	if err := s.lotRepo.Update(lot); err != nil {
		return nil, err
	}

	return s.lotRepo.FindByID(lot.ID)
}

func (s *LotService) DeleteLot(lotID uint) error {
	if _, err := s.getLot(lotID); err != nil {
		return err
	}
	return s.lotRepo.Delete(lotID)
}

func (s *LotService) GetLot(lotID uint) (*models.Lot, error) {
	return s.getLot(lotID)
}

func (s *LotService) GetLotByCode(code string) (*models.Lot, error) {
	lot, err := s.lotRepo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, ErrLotNotFound
	}
	return lot, nil
}

func (s *LotService) ListLots(filter repository.LotFilter, page, limit int, sortBy, order string) ([]models.Lot, int64, error) {
	if filter.HealthStatus != "" && !models.ValidHealthStatus(filter.HealthStatus) {
		return nil, 0, validationf(fmt.Sprintf("invalid health status %q", filter.HealthStatus))
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	lots, err := s.lotRepo.List(filter, page, limit, sortBy, order)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.lotRepo.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	return lots, count, nil
}

// FindReadyForHarvest scans unharvested lots and evaluates readiness per
// lot against its preloaded species. Readiness is derived, not stored, so
// there is no index shortcut here.
func (s *LotService) FindReadyForHarvest() ([]models.Lot, error) {
	lots, err := s.lotRepo.FindUnharvested()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ready := make([]models.Lot, 0, len(lots))
	for _, lot := range lots {
		ok, err := lot.ReadyForHarvest(lot.Species, now)
		if err != nil {
			return nil, err
		}
		if ok {
			ready = append(ready, lot)
		}
	}
	return ready, nil
}

func (s *LotService) Stats() (*LotStats, error) {
	total, err := s.lotRepo.Count(repository.LotFilter{})
	if err != nil {
		return nil, err
	}
	harvested, err := s.lotRepo.CountHarvested()
	if err != nil {
		return nil, err
	}
	avgHeight, err := s.lotRepo.AverageHeight()
	if err != nil {
		return nil, err
	}
	byHealth, err := s.lotRepo.CountByHealthStatus()
	if err != nil {
		return nil, err
	}
	byZone, err := s.lotRepo.CountByZone()
	if err != nil {
		return nil, err
	}

	return &LotStats{
		TotalLots:      total,
		HarvestedLots:  harvested,
		AverageHeight:  avgHeight,
		ByHealthStatus: byHealth,
		ByZone:         byZone,
	}, nil
}

func (s *LotService) getLot(lotID uint) (*models.Lot, error) {
	lot, err := s.lotRepo.FindByID(lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, ErrLotNotFound
	}
	return lot, nil
}
