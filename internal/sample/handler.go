package sample

import (
	"strings"

	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSampleRequest struct {
	StilNo        string `json:"stilNo"`
	Musteri       string `json:"musteri"`
	TeknikOzellik string `json:"teknikOzellik"`
	BedenAraligi  string `json:"bedenAraligi"`
	Miktar        int    `json:"miktar"`
	DurumNotu     string `json:"durumNotu"`
}

type UpdateSampleRequest struct {
	StilNo        *string `json:"stilNo"`
	Musteri       *string `json:"musteri"`
	TeknikOzellik *string `json:"teknikOzellik"`
	BedenAraligi  *string `json:"bedenAraligi"`
	Miktar        *int    `json:"miktar"`
	DurumNotu     *string `json:"durumNotu"`
}

type SampleResponse struct {
	ID            uint   `json:"id"`
	StilNo        string `json:"stilNo"`
	Musteri       string `json:"musteri"`
	TeknikOzellik string `json:"teknikOzellik"`
	BedenAraligi  string `json:"bedenAraligi"`
	Miktar        int    `json:"miktar"`
	DurumNotu     string `json:"durumNotu"`
}

func toResponse(s *models.Sample) SampleResponse {
	return SampleResponse{
		ID:            s.ID,
		StilNo:        s.StilNo,
		Musteri:       s.Musteri,
		TeknikOzellik: s.TeknikOzellik,
		BedenAraligi:  s.BedenAraligi,
		Miktar:        s.Miktar,
		DurumNotu:     s.DurumNotu,
	}
}

// GET /api/samples
func ListSamplesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Sample{})
		if stilNo := c.Query("stil_no"); stilNo != "" {
			dbq = dbq.Where("stil_no = ?", stilNo)
		}

		var samples []models.Sample
		if err := dbq.Order("created_at desc").Find(&samples).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Numuneler listelenemedi")
		}

		res := make([]SampleResponse, 0, len(samples))
		for i := range samples {
			res = append(res, toResponse(&samples[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/samples/:id
func GetSampleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Sample
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Numune bulunamadı")
		}
		return c.JSON(toResponse(&s))
	}
}

// POST /api/samples
func CreateSampleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSampleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.StilNo = strings.TrimSpace(body.StilNo)
		if body.StilNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "stilNo zorunlu")
		}

		s := models.Sample{
			StilNo:        body.StilNo,
			Musteri:       strings.TrimSpace(body.Musteri),
			TeknikOzellik: body.TeknikOzellik,
			BedenAraligi:  strings.TrimSpace(body.BedenAraligi),
			Miktar:        body.Miktar,
			DurumNotu:     strings.TrimSpace(body.DurumNotu),
		}

		if err := db.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Numune oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&s))
	}
}

// PUT /api/samples/:id
func UpdateSampleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Sample
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Numune bulunamadı")
		}

		var body UpdateSampleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.StilNo != nil {
			stilNo := strings.TrimSpace(*body.StilNo)
			if stilNo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "stilNo boş olamaz")
			}
			s.StilNo = stilNo
		}
		if body.Musteri != nil {
			s.Musteri = strings.TrimSpace(*body.Musteri)
		}
		if body.TeknikOzellik != nil {
			s.TeknikOzellik = *body.TeknikOzellik
		}
		if body.BedenAraligi != nil {
			s.BedenAraligi = strings.TrimSpace(*body.BedenAraligi)
		}
		if body.Miktar != nil {
			s.Miktar = *body.Miktar
		}
		if body.DurumNotu != nil {
			s.DurumNotu = strings.TrimSpace(*body.DurumNotu)
		}

		if err := db.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Numune güncellenemedi")
		}

		return c.JSON(toResponse(&s))
	}
}

// DELETE /api/samples/:id
func DeleteSampleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Sample
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Numune bulunamadı")
		}

		if err := db.Delete(&models.Sample{}, "id = ?", s.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Numune silinemedi")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
