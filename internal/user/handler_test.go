package user

import (
	"fmt"
	"net/http"
	"testing"

	"corap-backend/internal/auth"
	"corap-backend/internal/models"
	"corap-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, *fiber.App, string) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	_, adminToken := testutil.SeedUser(t, db, cfg, "admin@corap.local", models.RoleAdmin)

	app := testutil.NewApp()
	api := app.Group("/api")
	api.Use(auth.JWTMiddleware(cfg))

	adminOnly := auth.RequireRole(models.RoleAdmin)
	api.Post("/users", adminOnly, CreateUserHandler(db))
	api.Get("/users", adminOnly, ListUsersHandler(db))
	api.Get("/users/:id", adminOnly, GetUserHandler(db))
	api.Put("/users/:id", adminOnly, UpdateUserHandler(db))
	api.Delete("/users/:id", adminOnly, DeleteUserHandler(db))

	return db, app, adminToken
}

func TestCreateUser(t *testing.T) {
	db, app, adminToken := setupUserTest(t)

	resp := testutil.DoRequest(t, app, http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Ayşe Operatör",
		"email":    "ayse@corap.local",
		"password": "gizli-sifre",
		"role":     "operator",
	}, adminToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("201 beklenir, %d geldi", resp.StatusCode)
	}
	body := testutil.ParseResponse(t, resp)
	if body["role"] != "operator" || body["active"] != true {
		t.Errorf("beklenmeyen kullanıcı: %+v", body)
	}

	// Aynı email reddedilir
	resp = testutil.DoRequest(t, app, http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Kopya",
		"email":    "ayse@corap.local",
		"password": "baska",
		"role":     "user",
	}, adminToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("tekrarlı email 400 dönmeli, %d geldi", resp.StatusCode)
	}

	// Geçersiz rol reddedilir
	resp = testutil.DoRequest(t, app, http.MethodPost, "/api/users", map[string]interface{}{
		"name":     "Rolsüz",
		"email":    "rolsuz@corap.local",
		"password": "gizli",
		"role":     "patron",
	}, adminToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("geçersiz rol 400 dönmeli, %d geldi", resp.StatusCode)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 2 {
		t.Errorf("admin + 1 yeni kullanıcı beklenir, %d geldi", count)
	}
}

func TestNonAdminCannotManageUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	_, operatorToken := testutil.SeedUser(t, db, cfg, "op@corap.local", models.RoleOperator)

	app := testutil.NewApp()
	api := app.Group("/api")
	api.Use(auth.JWTMiddleware(cfg))
	api.Get("/users", auth.RequireRole(models.RoleAdmin), ListUsersHandler(db))

	resp := testutil.DoRequest(t, app, http.MethodGet, "/api/users", nil, operatorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("operator için 403 beklenir, %d geldi", resp.StatusCode)
	}
}

func TestUpdateUserDeactivate(t *testing.T) {
	db, app, adminToken := setupUserTest(t)
	cfg := testutil.TestConfig()
	target, _ := testutil.SeedUser(t, db, cfg, "pasif-olacak@corap.local", models.RoleUser)

	resp := testutil.DoRequest(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d", target.ID), map[string]interface{}{
		"active": false,
		"role":   "operator",
	}, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("200 beklenir, %d geldi", resp.StatusCode)
	}
	body := testutil.ParseResponse(t, resp)
	if body["active"] != false || body["role"] != "operator" {
		t.Errorf("beklenmeyen güncelleme: %+v", body)
	}

	var stored models.User
	db.First(&stored, target.ID)
	if stored.Active {
		t.Error("kullanıcı pasifleşmeli")
	}
}

func TestDeleteUser(t *testing.T) {
	db, app, adminToken := setupUserTest(t)
	cfg := testutil.TestConfig()
	target, _ := testutil.SeedUser(t, db, cfg, "silinecek@corap.local", models.RoleUser)

	resp := testutil.DoRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", target.ID), nil, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("200 beklenir, %d geldi", resp.StatusCode)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("kullanıcı silinmeli")
	}

	resp = testutil.DoRequest(t, app, http.MethodDelete, "/api/users/9999", nil, adminToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("404 beklenir, %d geldi", resp.StatusCode)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	db, app, adminToken := setupUserTest(t)

	var admin models.User
	db.Where("email = ?", "admin@corap.local").First(&admin)

	resp := testutil.DoRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.ID), nil, adminToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("kendini silme 400 dönmeli, %d geldi", resp.StatusCode)
	}
}
