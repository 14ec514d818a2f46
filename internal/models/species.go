package models

import (
	"regexp"

	"gorm.io/gorm"
)

const (
	CategoryVegetable = "vegetable"
	CategoryFruit     = "fruit"
	CategoryHerb      = "herb"
	CategoryFlower    = "flower"
	CategoryTree      = "tree"
)

var SpeciesCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

func ValidCategory(category string) bool {
	switch category {
	case CategoryVegetable, CategoryFruit, CategoryHerb, CategoryFlower, CategoryTree:
		return true
	}
	return false
}

// Species defines the growth parameters a lot is evaluated against.
// Name and Code are immutable identity; descriptive fields may change.
type Species struct {
	gorm.Model
	Name        string   `gorm:"uniqueIndex;not null" json:"name"`
	Code        string   `gorm:"uniqueIndex;not null;size:10" json:"code"`
	Category    string   `gorm:"not null;index" json:"category"`
	MinHeight   float64  `gorm:"not null" json:"min_height"`
	HarvestDays int      `gorm:"not null" json:"harvest_days"`
	Climate     string   `json:"climate,omitempty"`
	Soil        string   `json:"soil,omitempty"`
	Water       string   `json:"water,omitempty"`
	Sunlight    string   `json:"sunlight,omitempty"`
	MaxHeight   *float64 `json:"max_height,omitempty"`
	MaxDiameter *float64 `json:"max_diameter,omitempty"`
	IsActive    bool     `gorm:"default:true;index" json:"is_active"`
	CreatedByID *uint    `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy   *User    `gorm:"foreignKey:CreatedByID" json:"-"`
}
