package model

import "time"

// Update is a short status post. Only the model and its cascade live here;
// there is no HTTP surface for it.
type Update struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Content   *string   `gorm:"size:128"`
	Image     string    `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `gorm:"type:date"`
	UpdatedAt time.Time `gorm:"type:date"`
}

// All lists every model in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&Update{},
	}
}
