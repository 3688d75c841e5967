package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"corap-backend/internal/auth"
	"corap-backend/internal/config"
	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-jwt-secret-en-az-32-karakter-uzun"

var dbCounter atomic.Int64

// TestConfig test ortamı için hazır bir config döndürür.
func TestConfig() *config.Config {
	return &config.Config{
		HTTPPort:     "0",
		JWTSecret:    testJWTSecret,
		StatusPolicy: config.StatusPolicySerbest,
	}
}

// SetupTestDB her test için izole, bellek içi bir SQLite veritabanı açar
// ve şemayı kurar.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Her test kendi adlandırılmış in-memory veritabanını alır; cache=shared
	// olmadan gorm'un bağlantı havuzu her bağlantıda boş bir DB görür.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Test veritabanı açılamadı: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Production{},
		&models.QRCodeIndex{},
		&models.ProductIdentity{},
		&models.Sample{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("Test migration başarısız: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewApp production'dakiyle aynı error handler'a sahip bir Fiber app kurar.
// Route kaydı testin kendisine bırakılır.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})
}

// SeedUser veritabanına kullanıcı ekler ve JWT token'ını döndürür.
func SeedUser(t *testing.T, db *gorm.DB, cfg *config.Config, email string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("sifre123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Şifre hashlenemedi: %v", err)
	}

	user := &models.User{
		Name:         "Test Kullanıcı",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Test kullanıcısı oluşturulamadı: %v", err)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		t.Fatalf("Test token oluşturulamadı: %v", err)
	}
	return user, token
}

// DoRequest JSON gövdeli bir isteği app.Test üzerinden çalıştırır.
func DoRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("İstek gövdesi serileştirilemedi: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("İstek çalıştırılamadı: %v", err)
	}
	return resp
}

// ParseResponse yanıt gövdesini generic map'e çözer.
func ParseResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Yanıt gövdesi okunamadı: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Yanıt çözülemedi: %v (gövde: %s)", err, b)
	}
	return out
}
