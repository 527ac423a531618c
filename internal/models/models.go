package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"`
	IsActive     bool      `gorm:"not null;default:true"         json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// RefreshToken is one issued refresh credential. Token holds the serialized
// signed token itself; the unique index on it closes the check-then-insert
// race. Revoked only ever flips false -> true.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"size:500;uniqueIndex;not null" json:"-"`
	ExpiresAt int64     `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false"   json:"revoked"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
