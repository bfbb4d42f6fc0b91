package model

import "time"

// User is an account identified by email.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	IsStaff      bool      `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Owned rows, removed with the user.
	Tags        []Tag        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipes     []Recipe     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Updates     []Update     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
