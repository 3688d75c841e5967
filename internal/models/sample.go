package models

import "time"

// Sample - Numune kaydı (teknik özellikler serbest metin)
type Sample struct {
	ID            uint   `gorm:"primaryKey"`
	StilNo        string `gorm:"size:50;index;not null"`
	Musteri       string `gorm:"size:100"`
	TeknikOzellik string `gorm:"type:text"`
	BedenAraligi  string `gorm:"size:50"`
	Miktar        int    `gorm:"not null;default:0"`
	DurumNotu     string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
