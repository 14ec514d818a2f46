package models

import (
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"
)

const (
	HealthHealthy    = "healthy"
	HealthSick       = "sick"
	HealthRecovering = "recovering"
	HealthDead       = "dead"
)

const (
	QualityA = "A"
	QualityB = "B"
	QualityC = "C"
)

var (
	LotCodePattern  = regexp.MustCompile(`^[A-Z0-9-]{3,20}$`)
	PhotoURLPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
)

var ErrSpeciesRequired = errors.New("species data required to compute readiness")

func ValidHealthStatus(status string) bool {
	switch status {
	case HealthHealthy, HealthSick, HealthRecovering, HealthDead:
		return true
	}
	return false
}

func ValidQuality(quality string) bool {
	return quality == QualityA || quality == QualityB || quality == QualityC
}

// Lot is one planted batch. CurrentHeight, CurrentDiameter and
// HealthStatus are snapshots of the newest append in the corresponding
// history; they are never written independently of an append.
type Lot struct {
	gorm.Model
	Code            string              `gorm:"uniqueIndex;not null;size:20" json:"code"`
	SpeciesID       uint                `gorm:"not null;index" json:"species_id"`
	Species         *Species            `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	PlantedDate     time.Time           `gorm:"not null" json:"planted_date"`
	Zone            string              `gorm:"not null;index" json:"zone"`
	LocationID      string              `gorm:"not null" json:"location_id"`
	PlantCount      int                 `gorm:"not null" json:"plant_count"`
	CurrentHeight   float64             `gorm:"default:0" json:"current_height"`
	CurrentDiameter float64             `gorm:"default:0" json:"current_diameter"`
	HealthStatus    string              `gorm:"not null;default:healthy;index" json:"health_status"`
	Notes           string              `gorm:"type:text" json:"notes,omitempty"`
	Measurements    []GrowthMeasurement `gorm:"foreignKey:LotID" json:"measurements,omitempty"`
	HealthRecords   []HealthRecord      `gorm:"foreignKey:LotID" json:"health_records,omitempty"`
	Photos          []LotPhoto          `gorm:"foreignKey:LotID" json:"photos,omitempty"`
	IsHarvested     bool                `gorm:"default:false;index" json:"is_harvested"`
	HarvestedDate   *time.Time          `json:"harvested_date,omitempty"`
	HarvestQuantity *float64            `json:"harvest_quantity,omitempty"`
	HarvestUnit     string              `json:"harvest_unit,omitempty"`
	HarvestQuality  string              `json:"harvest_quality,omitempty"`
	CreatedByID     uint                `gorm:"not null;index" json:"created_by_id"`
	CreatedBy       *User               `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedToID    *uint               `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo      *User               `gorm:"foreignKey:AssignedToID" json:"-"`
	UpdatedByID     *uint               `gorm:"index" json:"updated_by_id,omitempty"`
	UpdatedBy       *User               `gorm:"foreignKey:UpdatedByID" json:"-"`
	IsActive        bool                `gorm:"default:true;index" json:"is_active"`
}

type GrowthMeasurement struct {
	gorm.Model
	LotID        uint      `gorm:"not null;index" json:"lot_id"`
	Height       float64   `gorm:"not null" json:"height"`
	Diameter     *float64  `json:"diameter,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedAt   time.Time `gorm:"not null;index" json:"recorded_at"`
	RecordedByID uint      `gorm:"not null" json:"recorded_by_id"`
	RecordedBy   *User     `gorm:"foreignKey:RecordedByID" json:"-"`
}

type HealthRecord struct {
	gorm.Model
	LotID        uint      `gorm:"not null;index" json:"lot_id"`
	Status       string    `gorm:"not null" json:"status"`
	Symptoms     string    `json:"symptoms,omitempty"`
	Treatment    string    `json:"treatment,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RecordedAt   time.Time `gorm:"not null;index" json:"recorded_at"`
	RecordedByID uint      `gorm:"not null" json:"recorded_by_id"`
	RecordedBy   *User     `gorm:"foreignKey:RecordedByID" json:"-"`
}

type LotPhoto struct {
	gorm.Model
	LotID        uint      `gorm:"not null;index" json:"lot_id"`
	URL          string    `gorm:"not null" json:"url"`
	Caption      string    `json:"caption,omitempty"`
	UploadedAt   time.Time `gorm:"not null" json:"uploaded_at"`
	UploadedByID uint      `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"-"`
}

// AgeDays returns whole days elapsed since planting at the given instant.
func (l *Lot) AgeDays(now time.Time) int {
	return int(now.Sub(l.PlantedDate).Hours() / 24)
}

// ReadyForHarvest reports whether the lot has met both the age and the
// height threshold of its species. The species must be passed explicitly;
// a nil species is an error, not a false.
func (l *Lot) ReadyForHarvest(species *Species, now time.Time) (bool, error) {
	if species == nil {
		return false, ErrSpeciesRequired
	}
	return l.AgeDays(now) >= species.HarvestDays && l.CurrentHeight >= species.MinHeight, nil
}

// ExpectedHarvestDate is always derived, never stored.
func (l *Lot) ExpectedHarvestDate(species *Species) (time.Time, error) {
	if species == nil {
		return time.Time{}, ErrSpeciesRequired
	}
	return l.PlantedDate.AddDate(0, 0, species.HarvestDays), nil
}
