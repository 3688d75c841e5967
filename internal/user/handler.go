package user

import (
	"strings"

	"corap-backend/internal/audit"
	"corap-backend/internal/auth"
	"corap-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string          `json:"name"`
	Email    *string          `json:"email"`
	Password *string          `json:"password"`
	Role     *models.UserRole `json:"role"`
	Active   *bool            `json:"active"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Active    bool            `json:"active"`
	LastLogin *string         `json:"last_login"`
}

func toResponse(u *models.User) UserResponse {
	res := UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Active: u.Active,
	}
	if u.LastLogin != nil {
		s := u.LastLogin.Format("2006-01-02 15:04:05")
		res.LastLogin = &s
	}
	return res
}

func validRole(r models.UserRole) bool {
	return r == models.RoleAdmin || r == models.RoleOperator || r == models.RoleUser
}

func actorInfo(c *fiber.Ctx, db *gorm.DB) (uint, string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, ""
	}
	var u models.User
	if err := db.First(&u, userID).Error; err != nil {
		return userID, ""
	}
	return userID, u.Name
}

// GET /api/users (sadece admin)
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/users/:id (sadece admin)
func GetUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		return c.JSON(toResponse(&u))
	}
}

// POST /api/users (sadece admin)
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Rol admin, operator veya user olmalı")
		}

		var existing models.User
		if err := db.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kullanılıyor")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		u := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Active:       true,
		}

		if err := db.Create(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		actorID, actorName := actorInfo(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserName:    actorName,
			EntityType:  "user",
			EntityID:    u.ID,
			Action:      models.AuditActionCreate,
			Description: "Kullanıcı oluşturuldu: " + u.Email,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&u))
	}
}

// PUT /api/users/:id (sadece admin)
func UpdateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "İsim boş olamaz")
			}
			u.Name = name
		}
		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Email boş olamaz")
			}
			u.Email = email
		}
		if body.Role != nil {
			if !validRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Rol admin, operator veya user olmalı")
			}
			u.Role = *body.Role
		}
		if body.Active != nil {
			u.Active = *body.Active
		}
		if body.Password != nil && *body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
			}
			u.PasswordHash = string(hash)
		}

		if err := db.Save(&u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}

		actorID, actorName := actorInfo(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserName:    actorName,
			EntityType:  "user",
			EntityID:    u.ID,
			Action:      models.AuditActionUpdate,
			Description: "Kullanıcı güncellendi: " + u.Email,
		})

		return c.JSON(toResponse(&u))
	}
}

// DELETE /api/users/:id (sadece admin)
func DeleteUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var u models.User
		if err := db.First(&u, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		if actorID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok && actorID == u.ID {
			return fiber.NewError(fiber.StatusBadRequest, "Kendi hesabını silemezsin")
		}

		if err := db.Delete(&models.User{}, "id = ?", u.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı silinemedi")
		}

		actorID, actorName := actorInfo(c, db)
		audit.WriteLog(db, audit.LogOptions{
			UserID:      actorID,
			UserName:    actorName,
			EntityType:  "user",
			EntityID:    u.ID,
			Action:      models.AuditActionDelete,
			Description: "Kullanıcı silindi: " + u.Email,
		})

		return c.JSON(fiber.Map{"success": true})
	}
}
