package production_test

import (
	"testing"
	"time"

	"corap-backend/internal/database"
	"corap-backend/internal/models"
	"corap-backend/internal/production"
	"corap-backend/internal/testutil"
)

func TestIndexChecker(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if err := db.Create(&models.QRCodeIndex{Code: "QR1", ProductionID: 1, VariantID: "v1"}).Error; err != nil {
		t.Fatalf("İndeks kaydı eklenemedi: %v", err)
	}

	checker := &production.IndexChecker{DB: db}

	cases := []struct {
		name         string
		code         string
		productionID uint
		variantID    string
		conflict     bool
	}{
		{"atanmamış kod", "QR9", 1, "v1", false},
		{"aynı üretim aynı varyant", "QR1", 1, "v1", false},
		{"aynı üretim farklı varyant", "QR1", 1, "v2", true},
		{"farklı üretim", "QR1", 2, "v1", true},
	}

	for _, tc := range cases {
		got, err := checker.IsAssignedElsewhere(tc.code, tc.productionID, tc.variantID)
		if err != nil {
			t.Fatalf("%s: beklenmeyen hata: %v", tc.name, err)
		}
		if got != tc.conflict {
			t.Errorf("%s: %v beklenir, %v geldi", tc.name, tc.conflict, got)
		}
	}
}

func TestMigrateBackfillsQRIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)

	state := production.NotesState{
		QRCodes: map[string]production.QRAssignment{
			"v1": {QRCode: "QR-ESKI", Quantity: 10, AssignedAt: time.Now(), Stage: models.DurumUretim},
		},
	}
	encoded, err := production.EncodeNotes(state)
	if err != nil {
		t.Fatalf("EncodeNotes başarısız: %v", err)
	}

	// İndeks tablosundan önce yazılmış bir kayıt gibi: blob dolu, indeks boş
	p := models.Production{StilNo: "ST-ESKI", Durum: models.DurumUretim, Notlar: encoded}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Üretim kaydı eklenemedi: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate başarısız: %v", err)
	}

	var idx models.QRCodeIndex
	if err := db.Where("code = ?", "QR-ESKI").First(&idx).Error; err != nil {
		t.Fatalf("Backfill indeks kaydı oluşturmalı: %v", err)
	}
	if idx.ProductionID != p.ID || idx.VariantID != "v1" {
		t.Errorf("beklenmeyen indeks kaydı: %+v", idx)
	}

	// İkinci çalıştırma tekrarlı kayıt üretmemeli
	if err := database.Migrate(db); err != nil {
		t.Fatalf("İkinci Migrate başarısız: %v", err)
	}
	var count int64
	db.Model(&models.QRCodeIndex{}).Where("code = ?", "QR-ESKI").Count(&count)
	if count != 1 {
		t.Errorf("backfill idempotent olmalı, %d kayıt var", count)
	}
}
