package production

import (
	"fmt"
	"time"

	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// GET /api/productions/export - Üretim listesini XLSX olarak indirir.
func ExportProductionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var prods []models.Production
		if err := db.Order("created_at desc").Find(&prods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretimler listelenemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Üretimler"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Stil No", "Sipariş No", "Müşteri", "Sipariş Miktarı",
			"Başlangıç", "Tahmini Bitiş", "Durum", "Tamamlanma (%)"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, p := range prods {
			baslangic := ""
			if p.BaslangicTarihi != nil {
				baslangic = p.BaslangicTarihi.Format("2006-01-02")
			}
			bitis := ""
			if p.TahminiBitis != nil {
				bitis = p.TahminiBitis.Format("2006-01-02")
			}
			values := []interface{}{p.ID, p.StilNo, p.SiparisNo, p.Musteri, p.SiparisMiktari,
				baslangic, bitis, p.Durum, p.Tamamlanma}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("uretimler-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
