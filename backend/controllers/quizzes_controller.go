package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizzesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *QuizzesController {
	return &QuizzesController{DB: db, Cfg: cfg, Logger: logger}
}

type QuestionInput struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=1"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

type QuizInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}

// decodeOptions parses a stored options column. A corrupt row renders as an
// empty list instead of failing the whole response.
func decodeOptions(logger *log.Logger, raw string) []string {
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		logger.Printf("corrupt question options %q: %v", raw, err)
	}
	return options
}

func (qc *QuizzesController) quizJSON(quiz *models.Quiz) fiber.Map {
	questions := make([]fiber.Map, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, fiber.Map{
			"id":             q.ID,
			"text":           q.Text,
			"options":        decodeOptions(qc.Logger, q.Options),
			"correct_answer": q.CorrectAnswer,
		})
	}

	return fiber.Map{
		"id":          quiz.ID,
		"title":       quiz.Title,
		"description": quiz.Description,
		"owner_id":    quiz.OwnerID,
		"questions":   questions,
	}
}

func buildQuestions(quizID uint, inputs []QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for _, q := range inputs {
		options, _ := json.Marshal(q.Options)
		questions = append(questions, models.Question{
			QuizID:        quizID,
			Text:          q.Text,
			Options:       string(options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return questions
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param input body QuizInput true "Quiz definition"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/ [post]
func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}

	quiz := models.Quiz{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	// The quiz and its questions are written in one transaction: either the
	// whole aggregate lands or none of it does.
	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		if len(input.Questions) == 0 {
			return nil
		}
		quiz.Questions = buildQuestions(quiz.ID, input.Questions)
		return tx.Create(&quiz.Questions).Error
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(qc.quizJSON(&quiz))
}

// ListQuizzes godoc
// @Summary List own quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /quizzes/ [get]
func (qc *QuizzesController) ListQuizzes(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var quizzes []models.Quiz
	if err := qc.DB.Preload("Questions").Where("owner_id = ?", owner.ID).Order("id").Find(&quizzes).Error; err != nil {
		return utils.Fail(c, err)
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for i := range quizzes {
		result = append(result, qc.quizJSON(&quizzes[i]))
	}
	return c.JSON(result)
}

// GetQuiz godoc
// @Summary Get an owned quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id} [get]
func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	quiz, err := qc.findOwnedQuiz(qc.DB, c, true)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(qc.quizJSON(quiz))
}

// UpdateQuiz godoc
// @Summary Update an owned quiz
// @Description Replaces the question set wholesale; question ids are not preserved.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param input body QuizInput true "Quiz definition"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id} [put]
func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, utils.NewValidationError("Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.Fail(c, err)
	}

	var quiz *models.Quiz
	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		quiz, err = qc.findOwnedQuiz(tx, c, false)
		if err != nil {
			return err
		}

		quiz.Title = input.Title
		quiz.Description = input.Description
		if err := tx.Save(quiz).Error; err != nil {
			return err
		}

		// Full replace: any question not resubmitted is discarded.
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		quiz.Questions = nil
		if len(input.Questions) == 0 {
			return nil
		}
		quiz.Questions = buildQuestions(quiz.ID, input.Questions)
		return tx.Create(&quiz.Questions).Error
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(qc.quizJSON(quiz))
}

// DeleteQuiz godoc
// @Summary Delete an owned quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id} [delete]
func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := qc.findOwnedQuiz(tx, c, false)
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(quiz).Error
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Quiz deleted successfully"})
}

// findOwnedQuiz looks up a quiz scoped to the calling owner. A quiz owned by
// someone else is indistinguishable from a missing one.
func (qc *QuizzesController) findOwnedQuiz(db *gorm.DB, c *fiber.Ctx, withQuestions bool) (*models.Quiz, error) {
	owner := middleware.CurrentUser(c)

	id, err := parseID(c, "Invalid quiz ID")
	if err != nil {
		return nil, err
	}

	query := db.Where("id = ? AND owner_id = ?", id, owner.ID)
	if withQuestions {
		query = query.Preload("Questions")
	}

	var quiz models.Quiz
	if err := query.First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Quiz not found")
		}
		return nil, err
	}
	return &quiz, nil
}
