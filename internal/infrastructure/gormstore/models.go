package gormstore

import (
	"time"

	"gorm.io/datatypes"
)

type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type profileModel struct {
	ID             string `gorm:"primaryKey;size:36"`
	Email          string `gorm:"not null"`
	Name           *string
	ProfilePicture *string
	Bio            *string
	Profession     *string
	Role           string `gorm:"not null;default:'jobseeker'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (profileModel) TableName() string { return "profiles" }

type jobModel struct {
	ID          string                      `gorm:"primaryKey;size:36"`
	Title       string                      `gorm:"not null"`
	Description string                      `gorm:"not null"`
	Location    string                      `gorm:"not null;default:''"`
	Salary      float64                     `gorm:"not null;default:0"`
	SalaryType  string                      `gorm:"not null;default:'Yearly'"`
	Negotiable  bool                        `gorm:"not null;default:false"`
	JobType     datatypes.JSONSlice[string] `gorm:"type:json"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:json"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:json"`
	Likes       datatypes.JSONSlice[string] `gorm:"type:json"`
	Applicants  datatypes.JSONSlice[string] `gorm:"type:json"`
	CreatedBy   string                      `gorm:"not null;size:36;index"`
	Author      *profileModel               `gorm:"foreignKey:CreatedBy;references:ID"`
	CreatedAt   time.Time                   `gorm:"index"`
	UpdatedAt   time.Time
}

func (jobModel) TableName() string { return "jobs" }
