package production

import (
	"errors"
	"fmt"

	"corap-backend/internal/models"

	"gorm.io/gorm"
)

// ConflictChecker - Bir QR kodun başka bir varyanta bağlı olup olmadığını
// söyler. Transition engine'in tek dış bağımlılığı.
type ConflictChecker interface {
	IsAssignedElsewhere(code string, productionID uint, variantID string) (bool, error)
}

// IndexChecker qr_code_indices tablosu üzerinden kontrol yapar.
// İndeks, her atamada aynı transaction içinde güncel tutulur.
type IndexChecker struct {
	DB *gorm.DB
}

func (ic *IndexChecker) IsAssignedElsewhere(code string, productionID uint, variantID string) (bool, error) {
	var idx models.QRCodeIndex
	err := ic.DB.Where("code = ?", code).First(&idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("QR indeks sorgusu başarısız: %w", err)
	}
	// Aynı üretimin aynı varyantına yeniden atama çakışma değildir
	if idx.ProductionID == productionID && idx.VariantID == variantID {
		return false, nil
	}
	return true, nil
}

// upsertQRIndex atama sonrası indeks kaydını günceller. Varyantın önceki
// kodu (kod değiştiyse) silinir, yeni kod için kayıt yazılır. Çağıranın
// transaction'ı içinde çalışır.
func upsertQRIndex(tx *gorm.DB, code string, productionID uint, variantID string) error {
	if err := tx.Where("production_id = ? AND variant_id = ? AND code <> ?", productionID, variantID, code).
		Delete(&models.QRCodeIndex{}).Error; err != nil {
		return fmt.Errorf("eski QR indeks kaydı silinemedi: %w", err)
	}

	var existing models.QRCodeIndex
	err := tx.Where("code = ?", code).First(&existing).Error
	if err == nil {
		// Benzersizlik kontrolü engine'de yapıldı; burada sadece aynı
		// varyantın tekrar ataması görülür, güncellenecek bir şey yok.
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("QR indeks sorgusu başarısız: %w", err)
	}

	idx := models.QRCodeIndex{
		Code:         code,
		ProductionID: productionID,
		VariantID:    variantID,
	}
	if err := tx.Create(&idx).Error; err != nil {
		return fmt.Errorf("QR indeks kaydı yazılamadı: %w", err)
	}
	return nil
}

// removeQRIndexForProduction üretim silinirken indeks kayıtlarını temizler.
func removeQRIndexForProduction(tx *gorm.DB, productionID uint) error {
	return tx.Where("production_id = ?", productionID).Delete(&models.QRCodeIndex{}).Error
}
