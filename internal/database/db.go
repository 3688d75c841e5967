package database

import (
	"fmt"
	"log"

	"corap-backend/internal/config"
	"corap-backend/internal/models"
	"corap-backend/internal/production"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect veritabanı bağlantısını açar, migration'ları çalıştırır ve
// handle'ı döndürür. Kapatma sorumluluğu çağırana aittir (main).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return db, nil
}

// Migrate şema migration'larını ve QR indeks backfill'ini çalıştırır.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Production{},
		&models.QRCodeIndex{},
		&models.ProductIdentity{},
		&models.Sample{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	backfillQRIndex(db)
	return nil
}

// backfillQRIndex eski kayıtların notlar blob'undaki QR atamalarını
// qr_code_indices tablosuna taşır. İndeks tablosu sonradan eklendi;
// mevcut üretimlerdeki atamalar olmadan benzersizlik kontrolü eksik kalır.
func backfillQRIndex(db *gorm.DB) {
	var prods []models.Production
	if err := db.Where("notlar <> ''").Find(&prods).Error; err != nil {
		log.Printf("QR indeks backfill: üretimler okunamadı: %v", err)
		return
	}

	var added int
	for _, p := range prods {
		state := production.DecodeNotes(p.Notlar)
		for variantID, qa := range state.QRCodes {
			if qa.QRCode == "" {
				continue
			}
			var count int64
			db.Model(&models.QRCodeIndex{}).Where("code = ?", qa.QRCode).Count(&count)
			if count > 0 {
				continue
			}
			idx := models.QRCodeIndex{
				Code:         qa.QRCode,
				ProductionID: p.ID,
				VariantID:    variantID,
			}
			if err := db.Create(&idx).Error; err != nil {
				log.Printf("QR indeks backfill: %q eklenemedi (üretim %d): %v", qa.QRCode, p.ID, err)
				continue
			}
			added++
		}
	}

	if added > 0 {
		log.Printf("QR indeks backfill: %d kayıt eklendi", added)
	}
}
