package models

import (
	"gorm.io/gorm"
)

const (
	RoleManager = "manager"
	RoleField   = "field"
	RoleAnalyst = "analyst"
)

func ValidRole(role string) bool {
	return role == RoleManager || role == RoleField || role == RoleAnalyst
}

type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"" json:"email,omitempty"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:field;index" json:"role"`
	APITokens    []APIToken `gorm:"foreignKey:UserID" json:"-"`
}
