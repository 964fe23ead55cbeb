package models

import (
	"gorm.io/gorm"
)

// Profile holds the student-entered identity fields shown on the profile page
type Profile struct {
	gorm.Model
	UserID        uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName      string `gorm:"default:''" json:"full_name"`
	PhoneNumber   string `gorm:"default:''" json:"phone_number"`
	Branch        string `gorm:"default:''" json:"branch"`
	YearOfStudy   string `gorm:"default:''" json:"year_of_study"`
	StudentID     string `gorm:"default:''" json:"student_id"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	PhoneVerified bool   `gorm:"default:false" json:"phone_verified"`
	IsDeleted     bool   `gorm:"default:false" json:"-"`
}
