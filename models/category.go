package models

import "time"

// Category groups transactions for budgeting. A default set is seeded for
// every new user.
type Category struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint   `gorm:"index;not null;uniqueIndex:idx_user_category"`
	Name      string `gorm:"size:64;not null;uniqueIndex:idx_user_category"`
	Type      string `gorm:"size:16;not null;default:expense"` // expense or income
	Budget    int64  `gorm:"not null;default:0"`               // monthly budget, whole rupiah
	Icon      string `gorm:"size:32"`
	Color     string `gorm:"size:16"`
	IsDefault bool   `gorm:"default:false"`
}
