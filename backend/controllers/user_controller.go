package controllers

import (
	"errors"

	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func userJSON(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}
}

// Me godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/me/ [get]
func (uc *UserController) Me(c *fiber.Ctx) error {
	return c.JSON(userJSON(middleware.CurrentUser(c)))
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/ [get]
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("id").Find(&users).Error; err != nil {
		return utils.Fail(c, err)
	}

	result := make([]fiber.Map, 0, len(users))
	for i := range users {
		result = append(result, userJSON(&users[i]))
	}
	return c.JSON(result)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [get]
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	user, err := uc.findUser(c)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(userJSON(user))
}

type UpdateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUser godoc
// @Summary Update a user
// @Description Patches email, password and/or role. The only way a role can change.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body UpdateUserInput true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [put]
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	user, err := uc.findUser(c)
	if err != nil {
		return utils.Fail(c, err)
	}

	var input UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}

	if input.Email != "" && input.Email != user.Email {
		var existing models.User
		if err := uc.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			return utils.Fail(c, utils.NewConflictError("Email already registered"))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, err)
		}
		user.Email = input.Email
	}

	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.Fail(c, err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Role != "" {
		role := models.Role(input.Role)
		if !role.Valid() {
			return utils.Fail(c, utils.NewValidationError("Unknown role"))
		}
		user.Role = role
	}

	if err := uc.DB.Save(user).Error; err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(userJSON(user))
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [delete]
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	user, err := uc.findUser(c)
	if err != nil {
		return utils.Fail(c, err)
	}

	if err := uc.DB.Unscoped().Delete(user).Error; err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (uc *UserController) findUser(c *fiber.Ctx) (*models.User, error) {
	id, err := parseID(c, "Invalid user ID")
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return &user, nil
}
