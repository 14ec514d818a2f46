package repository

import (
	"errors"

	"github.com/croptrack/croptrack/internal/models"
	"gorm.io/gorm"
)

type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

// LotFilter narrows List results. Zero values mean "no constraint".
type LotFilter struct {
	Zone         string
	HealthStatus string
	SpeciesID    uint
	Unharvested  bool
}

type HealthStatusCount struct {
	HealthStatus string `json:"health_status"`
	Count        int64  `json:"count"`
}

type ZoneCount struct {
	Zone  string `json:"zone"`
	Count int64  `json:"count"`
}

func (r *LotRepository) Create(lot *models.Lot) error {
	return r.db.Create(lot).Error
}

func (r *LotRepository) FindByID(id uint) (*models.Lot, error) {
	var lot models.Lot
	err := r.db.Preload("Species").
		Preload("Measurements", func(db *gorm.DB) *gorm.DB { return db.Order("recorded_at ASC, id ASC") }).
		Preload("HealthRecords", func(db *gorm.DB) *gorm.DB { return db.Order("recorded_at ASC, id ASC") }).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at ASC, id ASC") }).
		First(&lot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lot, nil
}

func (r *LotRepository) FindByCode(code string) (*models.Lot, error) {
	var lot models.Lot
	err := r.db.Preload("Species").Where("code = ?", code).First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lot, nil
}

var lotSortColumns = map[string]string{
	"code":           "code",
	"planted_date":   "planted_date",
	"zone":           "zone",
	"current_height": "current_height",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

func (r *LotRepository) List(filter LotFilter, page, limit int, sortBy, order string) ([]models.Lot, error) {
	var lots []models.Lot
	offset := (page - 1) * limit

	column, ok := lotSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}

	err := r.filtered(filter).Preload("Species").
		Order(column + " " + order).
		Offset(offset).
		Limit(limit).
		Find(&lots).Error
	return lots, err
}

func (r *LotRepository) Count(filter LotFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Model(&models.Lot{}).Count(&count).Error
	return count, err
}

func (r *LotRepository) filtered(filter LotFilter) *gorm.DB {
	db := r.db.Where("is_active = ?", true)
	if filter.Zone != "" {
		db = db.Where("zone = ?", filter.Zone)
	}
	if filter.HealthStatus != "" {
		db = db.Where("health_status = ?", filter.HealthStatus)
	}
	if filter.SpeciesID != 0 {
		db = db.Where("species_id = ?", filter.SpeciesID)
	}
	if filter.Unharvested {
		db = db.Where("is_harvested = ?", false)
	}
	return db
}

// FindUnharvested returns active unharvested lots with their species
// preloaded, for the O(n) readiness scan.
func (r *LotRepository) FindUnharvested() ([]models.Lot, error) {
	var lots []models.Lot
	err := r.db.Preload("Species").
		Where("is_active = ? AND is_harvested = ?", true, false).
		Order("planted_date ASC").
		Find(&lots).Error
	return lots, err
}

func (r *LotRepository) Update(lot *models.Lot) error {
	return r.db.Save(lot).Error
}

func (r *LotRepository) Delete(id uint) error {
	return r.db.Delete(&models.Lot{}, id).Error
}

func (r *LotRepository) CreateMeasurementInTx(tx *gorm.DB, m *models.GrowthMeasurement) error {
	return tx.Create(m).Error
}

func (r *LotRepository) CreateHealthRecordInTx(tx *gorm.DB, h *models.HealthRecord) error {
	return tx.Create(h).Error
}

func (r *LotRepository) CreatePhotoInTx(tx *gorm.DB, p *models.LotPhoto) error {
	return tx.Create(p).Error
}

// UpdateSnapshotInTx writes only the denormalized "current" columns so a
// concurrent append never clobbers unrelated fields.
func (r *LotRepository) UpdateSnapshotInTx(tx *gorm.DB, lotID uint, fields map[string]interface{}) error {
	return tx.Model(&models.Lot{}).Where("id = ?", lotID).Updates(fields).Error
}

func (r *LotRepository) CountByHealthStatus() ([]HealthStatusCount, error) {
	var rows []HealthStatusCount
	err := r.db.Model(&models.Lot{}).
		Select("health_status, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("health_status").
		Scan(&rows).Error
	return rows, err
}

func (r *LotRepository) CountByZone() ([]ZoneCount, error) {
	var rows []ZoneCount
	err := r.db.Model(&models.Lot{}).
		Select("zone, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("zone").
		Scan(&rows).Error
	return rows, err
}

func (r *LotRepository) AverageHeight() (float64, error) {
	var avg float64
	err := r.db.Model(&models.Lot{}).
		Select("COALESCE(AVG(current_height), 0)").
		Where("is_active = ?", true).
		Scan(&avg).Error
	return avg, err
}

func (r *LotRepository) CountHarvested() (int64, error) {
	var count int64
	err := r.db.Model(&models.Lot{}).
		Where("is_active = ? AND is_harvested = ?", true, true).
		Count(&count).Error
	return count, err
}
