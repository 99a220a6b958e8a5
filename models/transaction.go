package models

import "time"

// Transaction is one persisted receipt scan: the structured record produced
// by the OCR pipeline plus its line items.
type Transaction struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint              `gorm:"index;not null"`
	CategoryID   *uint             `gorm:"index"`
	Category     *Category         `gorm:"foreignKey:CategoryID;references:ID"`
	MerchantName string            `gorm:"size:255"`
	Date         time.Time         `gorm:"not null"`
	Total        int64             `gorm:"not null"` // whole rupiah
	Confidence   float64
	RawText      string            `gorm:"type:text"`
	Items        []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TransactionItem is one purchased item belonging to a transaction.
type TransactionItem struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TransactionID uint   `gorm:"index;not null"`
	Name          string `gorm:"size:255"`
	Quantity      int    `gorm:"not null;default:1"`
	Price         int64  `gorm:"not null"` // unit price, whole rupiah
}
