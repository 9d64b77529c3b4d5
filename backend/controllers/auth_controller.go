package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
	CRM    services.ContactSync
}

func NewAuthController(db *gorm.DB, cfg *config.Config, logger *log.Logger, crm services.ContactSync) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Logger: logger, CRM: crm}
}

type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	RePassword string `json:"re_password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new student account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "User registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /users/ [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}
	if !utils.EmailHasDomain(input.Email, ac.Cfg.AllowedEmailDomain) {
		return utils.Fail(c, utils.NewValidationError(
			fmt.Sprintf("Only %s addresses are allowed", providerLabel(ac.Cfg.AllowedEmailDomain))))
	}
	if input.Password != input.RePassword {
		return utils.Fail(c, utils.NewValidationError("Passwords do not match"))
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.Fail(c, utils.NewConflictError("Email already registered"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Fail(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Fail(c, err)
	}

	// Registration never accepts a caller-supplied role.
	user := models.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleStudent,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, utils.NewConflictError("Email already registered"))
		}
		return utils.Fail(c, err)
	}

	// Best-effort CRM sync; failures are logged and never block registration.
	go func(email string) {
		if err := ac.CRM.NotifyNewContact(email); err != nil {
			ac.Logger.Printf("CRM contact sync failed for %s: %v", email, err)
		}
	}(user.Email)

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login godoc
// @Summary User login
// @Description Authenticate by email and password, returns a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /token [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse request body"))
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, utils.NewAuthError("Incorrect username or password"))
		}
		return utils.Fail(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Fail(c, utils.NewAuthError("Incorrect username or password"))
	}

	token, err := utils.GenerateToken(user.Email, ac.Cfg)
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// providerLabel turns "gmail.com" into "Gmail" for user-facing messages.
func providerLabel(domain string) string {
	name, _, _ := strings.Cut(domain, ".")
	if name == "" {
		return domain
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
