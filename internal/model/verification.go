package model

import "time"

// Verification holds the email verification state of a user. Exactly one row
// exists per user, created in the same transaction as the user itself.
// IsVerified only ever flips false -> true.
type Verification struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	UserID     string `gorm:"uniqueIndex;not null"`
	Code       string `gorm:"size:6;not null"`
	IsVerified bool   `gorm:"default:false"`
	CreatedAt  time.Time
}
