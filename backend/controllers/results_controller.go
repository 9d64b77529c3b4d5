package controllers

import (
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ResultsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewResultsController(db *gorm.DB, cfg *config.Config) *ResultsController {
	return &ResultsController{DB: db, Cfg: cfg}
}

type TestResultInput struct {
	MockTestID              uint   `json:"mock_test_id" validate:"required"`
	ListeningScore          int    `json:"listening_score" validate:"min=0"`
	ReadingScore            int    `json:"reading_score" validate:"min=0"`
	TotalQuestionsListening int    `json:"total_questions_listening" validate:"min=0"`
	TotalQuestionsReading   int    `json:"total_questions_reading" validate:"min=0"`
	WritingFeedback         string `json:"writing_feedback"`
}

func resultJSON(r *models.TestResult) fiber.Map {
	return fiber.Map{
		"id":                        r.ID,
		"mock_test_id":              r.MockTestID,
		"user_id":                   r.UserID,
		"listening_score":           r.ListeningScore,
		"reading_score":             r.ReadingScore,
		"total_questions_listening": r.TotalQuestionsListening,
		"total_questions_reading":   r.TotalQuestionsReading,
		"writing_feedback":          r.WritingFeedback,
		"created_at":                r.CreatedAt,
	}
}

// RecordResult godoc
// @Summary Record a graded submission
// @Description Persists a point-in-time snapshot of a grading outcome. Results are append-only.
// @Tags test-results
// @Accept json
// @Produce json
// @Param input body TestResultInput true "Grading snapshot"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test-results/ [post]
func (rc *ResultsController) RecordResult(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input TestResultInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}

	var count int64
	if err := rc.DB.Model(&models.MockTest{}).Where("id = ?", input.MockTestID).Count(&count).Error; err != nil {
		return utils.Fail(c, err)
	}
	if count == 0 {
		return utils.Fail(c, utils.NewNotFoundError("Mock test not found"))
	}

	result := models.TestResult{
		MockTestID:              input.MockTestID,
		UserID:                  user.ID,
		ListeningScore:          input.ListeningScore,
		ReadingScore:            input.ReadingScore,
		TotalQuestionsListening: input.TotalQuestionsListening,
		TotalQuestionsReading:   input.TotalQuestionsReading,
		WritingFeedback:         input.WritingFeedback,
	}
	if err := rc.DB.Create(&result).Error; err != nil {
		return utils.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resultJSON(&result))
}

// ListMyResults godoc
// @Summary List own test results
// @Tags test-results
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /test-results/me/ [get]
func (rc *ResultsController) ListMyResults(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var results []models.TestResult
	if err := rc.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&results).Error; err != nil {
		return utils.Fail(c, err)
	}

	response := make([]fiber.Map, 0, len(results))
	for i := range results {
		response = append(response, resultJSON(&results[i]))
	}
	return c.JSON(response)
}
