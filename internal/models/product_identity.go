package models

import "time"

// ProductIdentity - Stil kimliği (üretici + stil numarası + sipariş bilgisi)
type ProductIdentity struct {
	ID             uint   `gorm:"primaryKey"`
	Uretici        string `gorm:"size:100;not null"`
	StilNo         string `gorm:"size:50;uniqueIndex;not null"`
	SiparisMiktari int    `gorm:"not null;default:0"`
	TerminTarihi   *time.Time
	Aciklama       string `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
