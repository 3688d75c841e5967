package product

import (
	"strings"
	"time"

	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductIdentityRequest struct {
	Uretici        string `json:"uretici"`
	StilNo         string `json:"stilNo"`
	SiparisMiktari int    `json:"siparisMiktari"`
	TerminTarihi   string `json:"terminTarihi"` // "2025-12-09"
	Aciklama       string `json:"aciklama"`
}

type UpdateProductIdentityRequest struct {
	Uretici        *string `json:"uretici"`
	StilNo         *string `json:"stilNo"`
	SiparisMiktari *int    `json:"siparisMiktari"`
	TerminTarihi   *string `json:"terminTarihi"`
	Aciklama       *string `json:"aciklama"`
}

type ProductIdentityResponse struct {
	ID             uint    `json:"id"`
	Uretici        string  `json:"uretici"`
	StilNo         string  `json:"stilNo"`
	SiparisMiktari int     `json:"siparisMiktari"`
	TerminTarihi   *string `json:"terminTarihi"`
	Aciklama       string  `json:"aciklama"`
}

func toResponse(p *models.ProductIdentity) ProductIdentityResponse {
	res := ProductIdentityResponse{
		ID:             p.ID,
		Uretici:        p.Uretici,
		StilNo:         p.StilNo,
		SiparisMiktari: p.SiparisMiktari,
		Aciklama:       p.Aciklama,
	}
	if p.TerminTarihi != nil {
		s := p.TerminTarihi.Format("2006-01-02")
		res.TerminTarihi = &s
	}
	return res
}

// GET /api/products
func ListProductIdentitiesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.ProductIdentity
		if err := db.Order("stil_no asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductIdentityResponse, 0, len(items))
		for i := range items {
			res = append(res, toResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductIdentityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.ProductIdentity
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return c.JSON(toResponse(&p))
	}
}

// POST /api/products
func CreateProductIdentityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductIdentityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Uretici = strings.TrimSpace(body.Uretici)
		body.StilNo = strings.TrimSpace(body.StilNo)

		if body.Uretici == "" || body.StilNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Üretici ve stilNo zorunlu")
		}

		var existing models.ProductIdentity
		if err := db.Where("stil_no = ?", body.StilNo).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu stil numarası zaten kayıtlı")
		}

		var termin *time.Time
		if body.TerminTarihi != "" {
			t, err := time.Parse("2006-01-02", body.TerminTarihi)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "terminTarihi formatı YYYY-MM-DD olmalı")
			}
			termin = &t
		}

		p := models.ProductIdentity{
			Uretici:        body.Uretici,
			StilNo:         body.StilNo,
			SiparisMiktari: body.SiparisMiktari,
			TerminTarihi:   termin,
			Aciklama:       strings.TrimSpace(body.Aciklama),
		}

		if err := db.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&p))
	}
}

// PUT /api/products/:id
func UpdateProductIdentityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.ProductIdentity
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductIdentityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Uretici != nil {
			uretici := strings.TrimSpace(*body.Uretici)
			if uretici == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Üretici boş olamaz")
			}
			p.Uretici = uretici
		}
		if body.StilNo != nil {
			stilNo := strings.TrimSpace(*body.StilNo)
			if stilNo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "stilNo boş olamaz")
			}
			p.StilNo = stilNo
		}
		if body.SiparisMiktari != nil {
			p.SiparisMiktari = *body.SiparisMiktari
		}
		if body.TerminTarihi != nil {
			if *body.TerminTarihi == "" {
				p.TerminTarihi = nil
			} else {
				t, err := time.Parse("2006-01-02", *body.TerminTarihi)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "terminTarihi formatı YYYY-MM-DD olmalı")
				}
				p.TerminTarihi = &t
			}
		}
		if body.Aciklama != nil {
			p.Aciklama = strings.TrimSpace(*body.Aciklama)
		}

		if err := db.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toResponse(&p))
	}
}

// DELETE /api/products/:id
func DeleteProductIdentityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.ProductIdentity
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := db.Delete(&models.ProductIdentity{}, "id = ?", p.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
