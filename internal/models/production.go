package models

import "time"

// Üretim durumları (sıralı aşamalar)
const (
	DurumUretim      = "Üretim"
	DurumBurunDikisi = "Burun Dikişi"
	DurumPaketleme   = "Paketleme"
	DurumTamamlandi  = "Tamamlandı"
)

// Production - Bir üretim siparişi. Notlar kolonu JSON blob olarak
// tarama geçmişi, QR atamaları ve varyantları taşır.
type Production struct {
	ID              uint   `gorm:"primaryKey"`
	StilNo          string `gorm:"size:50;index;not null"`
	SiparisNo       string `gorm:"size:50;index"`
	Musteri         string `gorm:"size:100"`
	SiparisMiktari  int    `gorm:"not null;default:0"`
	BaslangicTarihi *time.Time
	TahminiBitis    *time.Time
	Durum           string `gorm:"size:30;not null;default:'Üretim'"`
	Tamamlanma      int    `gorm:"not null;default:0"` // yüzde (0-100)
	Notlar          string `gorm:"type:text"`
	Version         uint   `gorm:"not null;default:0"` // optimistic locking
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// QRCodeIndex - QR kod -> (üretim, varyant) ikincil indeksi.
// Notlar blob'undan türetilir; atama anında aynı transaction içinde güncellenir.
type QRCodeIndex struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"size:100;uniqueIndex;not null"`
	ProductionID uint   `gorm:"index;not null"`
	VariantID    string `gorm:"size:50;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
