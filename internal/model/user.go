// Package model contains the database models used across the application
package model

type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	Verification Verification `gorm:"foreignKey:UserID"`
}
