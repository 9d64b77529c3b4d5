package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MockTestsController struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Logger    *log.Logger
	Evaluator services.WritingEvaluator
}

func NewMockTestsController(db *gorm.DB, cfg *config.Config, logger *log.Logger, evaluator services.WritingEvaluator) *MockTestsController {
	return &MockTestsController{DB: db, Cfg: cfg, Logger: logger, Evaluator: evaluator}
}

// Section inputs form a tagged union over section kind: all three keys are
// required and each carries only the fields its kind allows, so a mock test
// missing a section or a writing section holding questions cannot be
// expressed in a request.
type ListeningSectionInput struct {
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type ReadingSectionInput struct {
	Passage   string          `json:"passage" validate:"required"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type WritingSectionInput struct {
	Task1 string `json:"task1" validate:"required"`
	Task2 string `json:"task2" validate:"required"`
}

type SectionsInput struct {
	Listening *ListeningSectionInput `json:"listening" validate:"required"`
	Reading   *ReadingSectionInput   `json:"reading" validate:"required"`
	Writing   *WritingSectionInput   `json:"writing" validate:"required"`
}

type MockTestInput struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Sections    SectionsInput `json:"sections" validate:"required"`
}

func (mc *MockTestsController) sectionQuestionJSON(questions []models.SectionQuestion) []fiber.Map {
	result := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		result = append(result, fiber.Map{
			"id":             q.ID,
			"text":           q.Text,
			"options":        decodeOptions(mc.Logger, q.Options),
			"correct_answer": q.CorrectAnswer,
		})
	}
	return result
}

func (mc *MockTestsController) mockTestJSON(test *models.MockTest) fiber.Map {
	sections := fiber.Map{}
	for i := range test.Sections {
		section := &test.Sections[i]
		switch section.Title {
		case models.SectionListening:
			sections[models.SectionListening] = fiber.Map{
				"title":     "Listening Section",
				"questions": mc.sectionQuestionJSON(section.Questions),
			}
		case models.SectionReading:
			sections[models.SectionReading] = fiber.Map{
				"title":     "Reading Section",
				"passage":   section.Passage,
				"questions": mc.sectionQuestionJSON(section.Questions),
			}
		case models.SectionWriting:
			sections[models.SectionWriting] = fiber.Map{
				"title": "Writing Section",
				"task1": section.Task1,
				"task2": section.Task2,
			}
		}
	}

	return fiber.Map{
		"id":          test.ID,
		"title":       test.Title,
		"description": test.Description,
		"owner_id":    test.OwnerID,
		"sections":    sections,
	}
}

func buildSectionQuestions(sectionID uint, inputs []QuestionInput) []models.SectionQuestion {
	questions := make([]models.SectionQuestion, 0, len(inputs))
	for _, q := range inputs {
		options, _ := json.Marshal(q.Options)
		questions = append(questions, models.SectionQuestion{
			SectionID:     sectionID,
			Text:          q.Text,
			Options:       string(options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return questions
}

// createSections writes the three fixed sections and their questions inside
// the caller's transaction.
func createSections(tx *gorm.DB, testID uint, input SectionsInput) error {
	sections := []struct {
		section   models.Section
		questions []QuestionInput
	}{
		{models.Section{MockTestID: testID, Title: models.SectionListening}, input.Listening.Questions},
		{models.Section{MockTestID: testID, Title: models.SectionReading, Passage: input.Reading.Passage}, input.Reading.Questions},
		{models.Section{MockTestID: testID, Title: models.SectionWriting, Task1: input.Writing.Task1, Task2: input.Writing.Task2}, nil},
	}

	for i := range sections {
		if err := tx.Create(&sections[i].section).Error; err != nil {
			return err
		}
		if len(sections[i].questions) == 0 {
			continue
		}
		questions := buildSectionQuestions(sections[i].section.ID, sections[i].questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteSections(tx *gorm.DB, testID uint) error {
	var sectionIDs []uint
	if err := tx.Model(&models.Section{}).Where("mock_test_id = ?", testID).Pluck("id", &sectionIDs).Error; err != nil {
		return err
	}
	if len(sectionIDs) > 0 {
		if err := tx.Unscoped().Where("section_id IN ?", sectionIDs).Delete(&models.SectionQuestion{}).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("mock_test_id = ?", testID).Delete(&models.Section{}).Error
}

// CreateMockTest godoc
// @Summary Create a mock test
// @Description Creates a mock test with its three fixed sections
// @Tags mock-tests
// @Accept json
// @Produce json
// @Param input body MockTestInput true "Mock test definition"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mock-tests/ [post]
func (mc *MockTestsController) CreateMockTest(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var input MockTestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}

	test := models.MockTest{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&test).Error; err != nil {
			return err
		}
		return createSections(tx, test.ID, input.Sections)
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	created, err := mc.loadMockTest(mc.DB, test.ID, &owner.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mc.mockTestJSON(created))
}

// ListMockTests godoc
// @Summary List own mock tests
// @Tags mock-tests
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /mock-tests/ [get]
func (mc *MockTestsController) ListMockTests(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var tests []models.MockTest
	if err := mc.DB.Preload("Sections.Questions").Where("owner_id = ?", owner.ID).Order("id").Find(&tests).Error; err != nil {
		return utils.Fail(c, err)
	}

	result := make([]fiber.Map, 0, len(tests))
	for i := range tests {
		result = append(result, mc.mockTestJSON(&tests[i]))
	}
	return c.JSON(result)
}

// GetMockTest godoc
// @Summary Get an owned mock test
// @Tags mock-tests
// @Produce json
// @Param id path int true "Mock test ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mock-tests/{id} [get]
func (mc *MockTestsController) GetMockTest(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	id, err := parseID(c, "Invalid mock test ID")
	if err != nil {
		return utils.Fail(c, err)
	}

	test, err := mc.loadMockTest(mc.DB, id, &owner.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(mc.mockTestJSON(test))
}

// UpdateMockTest godoc
// @Summary Update an owned mock test
// @Description Replaces each section's content wholesale; question ids are not preserved.
// @Tags mock-tests
// @Accept json
// @Produce json
// @Param id path int true "Mock test ID"
// @Param input body MockTestInput true "Mock test definition"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mock-tests/{id} [put]
func (mc *MockTestsController) UpdateMockTest(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	id, err := parseID(c, "Invalid mock test ID")
	if err != nil {
		return utils.Fail(c, err)
	}

	var input MockTestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		var test models.MockTest
		if err := tx.Where("id = ? AND owner_id = ?", id, owner.ID).First(&test).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("Mock test not found")
			}
			return err
		}

		test.Title = input.Title
		test.Description = input.Description
		if err := tx.Save(&test).Error; err != nil {
			return err
		}

		if err := deleteSections(tx, test.ID); err != nil {
			return err
		}
		return createSections(tx, test.ID, input.Sections)
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	updated, err := mc.loadMockTest(mc.DB, id, &owner.ID)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(mc.mockTestJSON(updated))
}

// DeleteMockTest godoc
// @Summary Delete an owned mock test
// @Tags mock-tests
// @Produce json
// @Param id path int true "Mock test ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mock-tests/{id} [delete]
func (mc *MockTestsController) DeleteMockTest(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	id, err := parseID(c, "Invalid mock test ID")
	if err != nil {
		return utils.Fail(c, err)
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		var test models.MockTest
		if err := tx.Where("id = ? AND owner_id = ?", id, owner.ID).First(&test).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("Mock test not found")
			}
			return err
		}

		if err := deleteSections(tx, test.ID); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&test).Error
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Mock test deleted successfully"})
}

// SubmitMockTest godoc
// @Summary Submit answers for grading
// @Description Grades the objective sections and collects writing feedback. The result is not persisted.
// @Tags mock-tests
// @Accept json
// @Produce json
// @Param id path int true "Mock test ID"
// @Param answers body map[string]map[string]string true "Answers keyed by section and question id"
// @Success 200 {object} services.GradingResult
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mock-tests/{id}/submit [post]
func (mc *MockTestsController) SubmitMockTest(c *fiber.Ctx) error {
	id, err := parseID(c, "Invalid mock test ID")
	if err != nil {
		return utils.Fail(c, err)
	}

	var body struct {
		Answers services.Submission `json:"answers"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}

	// Submissions are not owner-scoped: any active user may take any test.
	test, err := mc.loadMockTest(mc.DB, id, nil)
	if err != nil {
		return utils.Fail(c, err)
	}

	result := services.Grade(test, body.Answers)

	if task1, task2, ok := services.WritingAnswers(body.Answers); ok {
		feedback, err := mc.Evaluator.Evaluate(c.UserContext(), task1, task2)
		if err != nil {
			// Best effort: objective scores stand even when feedback fails.
			mc.Logger.Printf("writing feedback failed for mock test %d: %v", id, err)
		} else {
			result.WritingFeedback = feedback
		}
	}

	return c.JSON(result)
}

// loadMockTest fetches a mock test with all sections and questions,
// optionally scoped to an owner.
func (mc *MockTestsController) loadMockTest(db *gorm.DB, id uint, ownerID *uint) (*models.MockTest, error) {
	query := db.Preload("Sections.Questions")
	if ownerID != nil {
		query = query.Where("id = ? AND owner_id = ?", id, *ownerID)
	} else {
		query = query.Where("id = ?", id)
	}

	var test models.MockTest
	if err := query.First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Mock test not found")
		}
		return nil, err
	}
	return &test, nil
}

func parseID(c *fiber.Ctx, message string) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return 0, utils.NewValidationError(message)
	}
	return uint(id), nil
}
