package middleware

import (
	"errors"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserKey is the locals key under which the resolved user is stored.
const UserKey = "currentUser"

// CurrentUser returns the user resolved by one of the auth middlewares.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

// resolveUser verifies the bearer credential and loads the matching user.
// A valid token whose subject no longer exists fails the same way as an
// invalid token.
func resolveUser(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	email, err := utils.ParseTokenSubject(utils.TokenFromRequest(c), cfg)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewAuthError("Invalid or expired token")
		}
		return nil, err
	}

	return &user, nil
}

// requireRole builds a guard that authenticates the credential (401 on
// failure) and then checks the resolved user's role against required (403 on
// failure). The checks are pure: no user state is mutated.
func requireRole(db *gorm.DB, cfg *config.Config, required models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db, cfg)
		if err != nil {
			return utils.Fail(c, err)
		}

		if !user.Role.Can(required) {
			return utils.Fail(c, utils.NewForbiddenError("Insufficient role"))
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireActive admits any valid, non-expired credential that resolves to an
// existing user.
func RequireActive(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleStudent)
}

// RequireTeacher additionally requires the teacher or admin role.
func RequireTeacher(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleTeacher)
}

// RequireAdmin additionally requires the admin role.
func RequireAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return requireRole(db, cfg, models.RoleAdmin)
}
