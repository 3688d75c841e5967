package production

import (
	"errors"
	"strings"
	"time"

	"corap-backend/internal/audit"
	"corap-backend/internal/auth"
	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateProductionRequest struct {
	StilNo          string `json:"stilNo"`
	SiparisNo       string `json:"siparisNo"`
	Musteri         string `json:"musteri"`
	SiparisMiktari  int    `json:"siparisMiktari"`
	BaslangicTarihi string `json:"baslangicTarihi"` // "2025-12-09"
	TahminiBitis    string `json:"tahminiBitis"`    // "2025-12-09"
	Durum           string `json:"durum"`           // Opsiyonel, varsayılan "Üretim"
}

type ProductionResponse struct {
	ID              uint       `json:"id"`
	StilNo          string     `json:"stilNo"`
	SiparisNo       string     `json:"siparisNo"`
	Musteri         string     `json:"musteri"`
	SiparisMiktari  int        `json:"siparisMiktari"`
	BaslangicTarihi *string    `json:"baslangicTarihi"`
	TahminiBitis    *string    `json:"tahminiBitis"`
	Durum           string     `json:"durum"`
	Tamamlanma      int        `json:"tamamlanma"`
	Notlar          NotesState `json:"notlar"`
}

func toResponse(p *models.Production) ProductionResponse {
	res := ProductionResponse{
		ID:             p.ID,
		StilNo:         p.StilNo,
		SiparisNo:      p.SiparisNo,
		Musteri:        p.Musteri,
		SiparisMiktari: p.SiparisMiktari,
		Durum:          p.Durum,
		Tamamlanma:     p.Tamamlanma,
		Notlar:         DecodeNotes(p.Notlar),
	}
	if p.BaslangicTarihi != nil {
		s := p.BaslangicTarihi.Format("2006-01-02")
		res.BaslangicTarihi = &s
	}
	if p.TahminiBitis != nil {
		s := p.TahminiBitis.Format("2006-01-02")
		res.TahminiBitis = &s
	}
	return res
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func currentUser(c *fiber.Ctx, db *gorm.DB) (uint, string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, ""
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

// -------------------------
// Handlers
// -------------------------

// GET /api/productions (opsiyonel ?id= ile tek kayıt)
func ListProductionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if idStr := c.Query("id"); idStr != "" {
			var p models.Production
			if err := db.First(&p, "id = ?", idStr).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Üretim kaydı bulunamadı")
			}
			return c.JSON(toResponse(&p))
		}

		var prods []models.Production
		if err := db.Order("created_at desc").Find(&prods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretimler listelenemedi")
		}

		res := make([]ProductionResponse, 0, len(prods))
		for i := range prods {
			res = append(res, toResponse(&prods[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/productions/:id
func GetProductionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Production
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim kaydı bulunamadı")
		}
		return c.JSON(toResponse(&p))
	}
}

// POST /api/productions
func CreateProductionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.StilNo = strings.TrimSpace(body.StilNo)
		if body.StilNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "stilNo zorunlu")
		}

		baslangic, err := parseDate(body.BaslangicTarihi)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "baslangicTarihi formatı YYYY-MM-DD olmalı")
		}
		bitis, err := parseDate(body.TahminiBitis)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "tahminiBitis formatı YYYY-MM-DD olmalı")
		}

		durum := body.Durum
		if durum == "" {
			durum = models.DurumUretim
		}

		p := models.Production{
			StilNo:          body.StilNo,
			SiparisNo:       strings.TrimSpace(body.SiparisNo),
			Musteri:         strings.TrimSpace(body.Musteri),
			SiparisMiktari:  body.SiparisMiktari,
			BaslangicTarihi: baslangic,
			TahminiBitis:    bitis,
			Durum:           durum,
		}

		if err := db.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim kaydı oluşturulamadı")
		}

		userID, userName := currentUser(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Üretim kaydı oluşturuldu: " + p.StilNo,
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&p))
	}
}

// PATCH /api/productions/:id
// Durum, tamamlanma, tarama kaydı ve QR ataması tek istekle güncellenir.
// Tüm okuma-hesapla-yazma döngüsü bir transaction içinde, versiyon
// kontrolüyle çalışır; çakışan istek 409 alır.
func UpdateProductionHandler(db *gorm.DB, policy string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if body.Tamamlanma != nil && (*body.Tamamlanma < 0 || *body.Tamamlanma > 100) {
			return fiber.NewError(fiber.StatusBadRequest, "tamamlanma 0-100 arasında olmalı")
		}
		var updated models.Production
		before := make(map[string]interface{})

		txErr := db.Transaction(func(tx *gorm.DB) error {
			var p models.Production
			if err := tx.First(&p, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Üretim kaydı bulunamadı")
				}
				return err
			}

			before["durum"] = p.Durum
			before["tamamlanma"] = p.Tamamlanma
			before["notlar"] = p.Notlar

			engine := &Engine{Policy: policy, Checker: &IndexChecker{DB: tx}}
			state, err := engine.Apply(&p, body, time.Now())
			if err != nil {
				return err
			}

			encoded, err := EncodeNotes(state)
			if err != nil {
				return err
			}

			updates := map[string]interface{}{
				"notlar":  encoded,
				"version": p.Version + 1,
			}
			if body.Durum != nil {
				updates["durum"] = *body.Durum
			}
			if body.Tamamlanma != nil {
				updates["tamamlanma"] = *body.Tamamlanma
			}

			res := tx.Model(&models.Production{}).
				Where("id = ? AND version = ?", p.ID, p.Version).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrStaleVersion
			}

			if body.AssignQRCode && body.Variant != nil && body.ScannedCode != "" {
				if err := upsertQRIndex(tx, body.ScannedCode, p.ID, body.Variant.ID); err != nil {
					return err
				}
			}

			return tx.First(&updated, "id = ?", p.ID).Error
		})

		if txErr != nil {
			var fe *fiber.Error
			switch {
			case errors.As(txErr, &fe):
				return fe
			case errors.Is(txErr, ErrQRConflict):
				return fiber.NewError(fiber.StatusConflict, "QR kod zaten başka bir varyanta atanmış")
			case errors.Is(txErr, ErrStaleVersion):
				return fiber.NewError(fiber.StatusConflict, "Kayıt başka bir istek tarafından güncellendi, tekrar deneyin")
			case errors.Is(txErr, ErrInvalidTransition):
				return fiber.NewError(fiber.StatusBadRequest, txErr.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim kaydı güncellenemedi")
			}
		}

		userID, userName := currentUser(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production",
			EntityID:    updated.ID,
			Action:      models.AuditActionUpdate,
			Description: "Üretim kaydı güncellendi: " + updated.StilNo,
			Before:      before,
			After: map[string]interface{}{
				"durum":      updated.Durum,
				"tamamlanma": updated.Tamamlanma,
				"notlar":     updated.Notlar,
			},
		})

		return c.JSON(toResponse(&updated))
	}
}

// DELETE /api/productions/:id
func DeleteProductionHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Production
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim kaydı bulunamadı")
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := removeQRIndexForProduction(tx, p.ID); err != nil {
				return err
			}
			return tx.Delete(&models.Production{}, "id = ?", p.ID).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim kaydı silinemedi")
		}

		userID, userName := currentUser(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: "Üretim kaydı silindi: " + p.StilNo,
			Before:      p,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}

// -------------------------
// QR kod sorgusu
// -------------------------

type QRCheckUsedIn struct {
	ProductionID uint   `json:"productionId"`
	StyleNo      string `json:"styleNo"`
}

type QRCheckResponse struct {
	Exists bool            `json:"exists"`
	Count  int             `json:"count"`
	UsedIn []QRCheckUsedIn `json:"usedIn"`
}

// GET /api/qr-code/check?code=...
func CheckQRCodeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code parametresi zorunlu")
		}

		var indices []models.QRCodeIndex
		if err := db.Where("code = ?", code).Find(&indices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "QR kod sorgusu başarısız")
		}

		res := QRCheckResponse{
			Exists: len(indices) > 0,
			Count:  len(indices),
			UsedIn: make([]QRCheckUsedIn, 0, len(indices)),
		}
		for _, idx := range indices {
			var p models.Production
			styleNo := ""
			if err := db.Select("stil_no").First(&p, "id = ?", idx.ProductionID).Error; err == nil {
				styleNo = p.StilNo
			}
			res.UsedIn = append(res.UsedIn, QRCheckUsedIn{
				ProductionID: idx.ProductionID,
				StyleNo:      styleNo,
			})
		}
		return c.JSON(res)
	}
}
