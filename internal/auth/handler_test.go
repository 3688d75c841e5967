package auth_test

import (
	"net/http"
	"testing"

	"corap-backend/internal/auth"
	"corap-backend/internal/models"
	"corap-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterAdminOnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()

	app := testutil.NewApp()
	app.Post("/api/auth/register-admin", auth.RegisterAdminHandler(db, cfg))

	body := map[string]interface{}{
		"name":     "Patron",
		"email":    "patron@corap.local",
		"password": "gizli-sifre",
	}
	resp := testutil.DoRequest(t, app, http.MethodPost, "/api/auth/register-admin", body, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("ilk admin 201 dönmeli, %d geldi", resp.StatusCode)
	}

	resp = testutil.DoRequest(t, app, http.MethodPost, "/api/auth/register-admin", body, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("ikinci admin 403 dönmeli, %d geldi", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	user, _ := testutil.SeedUser(t, db, cfg, "operator@corap.local", models.RoleOperator)

	app := testutil.NewApp()
	app.Post("/api/auth/login", auth.LoginHandler(db, cfg))

	resp := testutil.DoRequest(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "operator@corap.local",
		"password": "sifre123",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("200 beklenir, %d geldi", resp.StatusCode)
	}
	body := testutil.ParseResponse(t, resp)
	if body["token"] == nil || body["token"] == "" {
		t.Error("yanıtta token olmalı")
	}

	// Giriş last_login damgalamalı
	var stored models.User
	db.First(&stored, user.ID)
	if stored.LastLogin == nil {
		t.Error("last_login güncellenmeli")
	}

	resp = testutil.DoRequest(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "operator@corap.local",
		"password": "yanlis",
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("yanlış şifre 401 dönmeli, %d geldi", resp.StatusCode)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	user, _ := testutil.SeedUser(t, db, cfg, "pasif@corap.local", models.RoleUser)
	db.Model(user).Update("active", false)

	app := testutil.NewApp()
	app.Post("/api/auth/login", auth.LoginHandler(db, cfg))

	resp := testutil.DoRequest(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "pasif@corap.local",
		"password": "sifre123",
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("pasif hesap 401 dönmeli, %d geldi", resp.StatusCode)
	}
}

func TestJWTMiddlewareAndRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.TestConfig()
	_, adminToken := testutil.SeedUser(t, db, cfg, "admin@corap.local", models.RoleAdmin)
	_, operatorToken := testutil.SeedUser(t, db, cfg, "operator@corap.local", models.RoleOperator)

	app := testutil.NewApp()
	api := app.Group("/api")
	api.Use(auth.JWTMiddleware(cfg))
	api.Get("/auth/me", auth.MeHandler(db))
	api.Get("/admin-only", auth.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp := testutil.DoRequest(t, app, http.MethodGet, "/api/auth/me", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("token olmadan 401 beklenir, %d geldi", resp.StatusCode)
	}

	resp = testutil.DoRequest(t, app, http.MethodGet, "/api/auth/me", nil, operatorToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("geçerli token 200 dönmeli, %d geldi", resp.StatusCode)
	}
	body := testutil.ParseResponse(t, resp)
	if body["email"] != "operator@corap.local" {
		t.Errorf("beklenmeyen kullanıcı: %+v", body)
	}

	resp = testutil.DoRequest(t, app, http.MethodGet, "/api/admin-only", nil, operatorToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("operator admin route'una giremez, %d geldi", resp.StatusCode)
	}
	resp = testutil.DoRequest(t, app, http.MethodGet, "/api/admin-only", nil, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin girebilmeli, %d geldi", resp.StatusCode)
	}
}
