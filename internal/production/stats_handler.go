package production

import (
	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DurumCount struct {
	Durum string `json:"durum"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Total         int64        `json:"total"`
	Completed     int64        `json:"completed"`
	InProgress    int64        `json:"inProgress"`
	TotalQuantity int64        `json:"totalQuantity"`
	ByDurum       []DurumCount `json:"byDurum"`
}

// GET /api/productions/stats
func StatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res StatsResponse

		if err := db.Model(&models.Production{}).Count(&res.Total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistikler hesaplanamadı")
		}
		db.Model(&models.Production{}).
			Where("durum = ?", models.DurumTamamlandi).
			Count(&res.Completed)
		res.InProgress = res.Total - res.Completed

		db.Model(&models.Production{}).
			Select("COALESCE(SUM(siparis_miktari), 0)").
			Scan(&res.TotalQuantity)

		if err := db.Model(&models.Production{}).
			Select("durum, COUNT(*) as count").
			Group("durum").
			Order("count desc").
			Scan(&res.ByDurum).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistikler hesaplanamadı")
		}
		if res.ByDurum == nil {
			res.ByDurum = []DurumCount{}
		}

		return c.JSON(res)
	}
}
