package controllers_test

import (
	"fmt"
	"testing"

	"project/backend/models"
	"project/backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockTestPayload(title string) fiber.Map {
	return fiber.Map{
		"title":       title,
		"description": "A full-length IELTS mock test.",
		"sections": fiber.Map{
			"listening": fiber.Map{
				"questions": []fiber.Map{
					{"text": "What is the capital of France?", "options": []string{"London", "Paris", "Rome", "Berlin"}, "correct_answer": "Paris"},
				},
			},
			"reading": fiber.Map{
				"passage": "Lorem ipsum dolor sit amet.",
				"questions": []fiber.Map{
					{"text": "What is the main idea?", "options": []string{"A", "B", "C", "D"}, "correct_answer": "A"},
					{"text": "According to the passage?", "options": []string{"X", "Y", "Z", "W"}, "correct_answer": "X"},
				},
			},
			"writing": fiber.Map{
				"task1": "Describe the graph below.",
				"task2": "Write an essay on the topic.",
			},
		},
	}
}

func createMockTest(t *testing.T, token string, payload fiber.Map) map[string]interface{} {
	t.Helper()

	resp := doJSON(t, "POST", "/mock-tests/", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var test map[string]interface{}
	decodeBody(t, resp, &test)
	return test
}

// sectionQuestionIDs pulls the question ids of one section out of an API
// response, in order.
func sectionQuestionIDs(t *testing.T, test map[string]interface{}, section string) []uint {
	t.Helper()

	sections := test["sections"].(map[string]interface{})
	sec, ok := sections[section].(map[string]interface{})
	require.True(t, ok, "section %s missing", section)

	var ids []uint
	for _, q := range sec["questions"].([]interface{}) {
		ids = append(ids, uint(q.(map[string]interface{})["id"].(float64)))
	}
	return ids
}

func TestCreateMockTest(t *testing.T) {
	teacher := createUser(t, "mt-create@gmail.com", models.RoleTeacher)

	test := createMockTest(t, tokenFor(t, teacher), mockTestPayload("IELTS Mock Test 1"))
	assert.Equal(t, "IELTS Mock Test 1", test["title"])

	sections := test["sections"].(map[string]interface{})
	require.Len(t, sections, 3)

	reading := sections["reading"].(map[string]interface{})
	assert.Equal(t, "Lorem ipsum dolor sit amet.", reading["passage"])
	assert.Len(t, reading["questions"], 2)

	writing := sections["writing"].(map[string]interface{})
	assert.Equal(t, "Describe the graph below.", writing["task1"])
	assert.Equal(t, "Write an essay on the topic.", writing["task2"])
	assert.NotContains(t, writing, "questions")
}

func TestCreateMockTestRequiresAllSections(t *testing.T) {
	teacher := createUser(t, "mt-incomplete@gmail.com", models.RoleTeacher)
	token := tokenFor(t, teacher)

	payload := mockTestPayload("Broken Test")
	sections := payload["sections"].(fiber.Map)
	delete(sections, "writing")

	resp := doJSON(t, "POST", "/mock-tests/", token, payload)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateMockTestRequiresReadingPassage(t *testing.T) {
	teacher := createUser(t, "mt-nopassage@gmail.com", models.RoleTeacher)

	payload := mockTestPayload("No Passage")
	payload["sections"].(fiber.Map)["reading"].(fiber.Map)["passage"] = ""

	resp := doJSON(t, "POST", "/mock-tests/", tokenFor(t, teacher), payload)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMockTestReplacesSections(t *testing.T) {
	teacher := createUser(t, "mt-replace@gmail.com", models.RoleTeacher)
	token := tokenFor(t, teacher)

	test := createMockTest(t, token, mockTestPayload("Replace Me"))
	id := uint(test["id"].(float64))
	oldReadingIDs := sectionQuestionIDs(t, test, "reading")
	require.Len(t, oldReadingIDs, 2)

	updated := mockTestPayload("Replaced")
	updated["sections"].(fiber.Map)["reading"] = fiber.Map{
		"passage": "A new passage.",
		"questions": []fiber.Map{
			{"text": "Single question", "options": []string{"1", "2"}, "correct_answer": "1"},
		},
	}

	resp := doJSON(t, "PUT", urlID("/mock-tests/", id), token, updated)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, "Replaced", result["title"])

	newReadingIDs := sectionQuestionIDs(t, result, "reading")
	require.Len(t, newReadingIDs, 1)
	assert.NotContains(t, oldReadingIDs, newReadingIDs[0])

	// Still exactly three sections stored.
	var sectionCount int64
	require.NoError(t, db.Unscoped().Model(&models.Section{}).Where("mock_test_id = ?", id).Count(&sectionCount).Error)
	assert.EqualValues(t, 3, sectionCount)
}

func TestDeleteMockTestCascades(t *testing.T) {
	teacher := createUser(t, "mt-cascade@gmail.com", models.RoleTeacher)
	token := tokenFor(t, teacher)

	test := createMockTest(t, token, mockTestPayload("Doomed Test"))
	id := uint(test["id"].(float64))

	var sectionIDs []uint
	require.NoError(t, db.Model(&models.Section{}).Where("mock_test_id = ?", id).Pluck("id", &sectionIDs).Error)
	require.Len(t, sectionIDs, 3)

	resp := doJSON(t, "DELETE", urlID("/mock-tests/", id), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var testCount, sectionCount, questionCount int64
	require.NoError(t, db.Unscoped().Model(&models.MockTest{}).Where("id = ?", id).Count(&testCount).Error)
	require.NoError(t, db.Unscoped().Model(&models.Section{}).Where("mock_test_id = ?", id).Count(&sectionCount).Error)
	require.NoError(t, db.Unscoped().Model(&models.SectionQuestion{}).Where("section_id IN ?", sectionIDs).Count(&questionCount).Error)
	assert.Zero(t, testCount)
	assert.Zero(t, sectionCount)
	assert.Zero(t, questionCount)
}

func TestMockTestOwnershipIsolation(t *testing.T) {
	teacherA := createUser(t, "mt-owner-a@gmail.com", models.RoleTeacher)
	teacherB := createUser(t, "mt-owner-b@gmail.com", models.RoleTeacher)

	test := createMockTest(t, tokenFor(t, teacherA), mockTestPayload("A's Test"))
	id := uint(test["id"].(float64))

	resp := doJSON(t, "GET", urlID("/mock-tests/", id), tokenFor(t, teacherB), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, "DELETE", urlID("/mock-tests/", id), tokenFor(t, teacherB), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitMockTest(t *testing.T) {
	teacher := createUser(t, "mt-submit-teacher@gmail.com", models.RoleTeacher)
	student := createUser(t, "mt-submit-student@gmail.com", models.RoleStudent)

	test := createMockTest(t, tokenFor(t, teacher), mockTestPayload("Graded Test"))
	id := uint(test["id"].(float64))
	listeningID := sectionQuestionIDs(t, test, "listening")[0]
	readingIDs := sectionQuestionIDs(t, test, "reading")

	submitPath := fmt.Sprintf("/mock-tests/%d/submit", id)
	token := tokenFor(t, student)

	// Correct listening answer, one of two reading answers correct.
	resp := doJSON(t, "POST", submitPath, token, fiber.Map{
		"answers": fiber.Map{
			"listening": map[string]string{fmt.Sprint(listeningID): "Paris"},
			"reading": map[string]string{
				fmt.Sprint(readingIDs[0]): "A",
				fmt.Sprint(readingIDs[1]): "Y",
			},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 1, result["listening_score"])
	assert.EqualValues(t, 1, result["reading_score"])
	assert.EqualValues(t, 1, result["total_questions_listening"])
	assert.EqualValues(t, 2, result["total_questions_reading"])
	assert.Nil(t, result["writing_feedback"])
}

func TestSubmitMockTestWrongAnswer(t *testing.T) {
	teacher := createUser(t, "mt-wrong-teacher@gmail.com", models.RoleTeacher)
	student := createUser(t, "mt-wrong-student@gmail.com", models.RoleStudent)

	test := createMockTest(t, tokenFor(t, teacher), mockTestPayload("Wrong Answers"))
	id := uint(test["id"].(float64))
	listeningID := sectionQuestionIDs(t, test, "listening")[0]

	resp := doJSON(t, "POST", fmt.Sprintf("/mock-tests/%d/submit", id), tokenFor(t, student), fiber.Map{
		"answers": fiber.Map{
			"listening": map[string]string{fmt.Sprint(listeningID): "London"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 0, result["listening_score"])
	assert.EqualValues(t, 1, result["total_questions_listening"])
	// Omitted sections still report their stored totals.
	assert.EqualValues(t, 0, result["reading_score"])
	assert.EqualValues(t, 2, result["total_questions_reading"])
}

func TestSubmitMockTestWritingFeedback(t *testing.T) {
	teacher := createUser(t, "mt-writing-teacher@gmail.com", models.RoleTeacher)
	student := createUser(t, "mt-writing-student@gmail.com", models.RoleStudent)

	test := createMockTest(t, tokenFor(t, teacher), mockTestPayload("Writing Test"))
	id := uint(test["id"].(float64))

	resp := doJSON(t, "POST", fmt.Sprintf("/mock-tests/%d/submit", id), tokenFor(t, student), fiber.Map{
		"answers": fiber.Map{
			"writing": map[string]string{"task1": "The graph shows...", "task2": "In my opinion..."},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)

	feedback, ok := result["writing_feedback"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, feedback["task1_feedback"])
	assert.NotEmpty(t, feedback["task2_feedback"])
	assert.NotEmpty(t, feedback["overall_suggestion"])
}

func TestSubmitMockTestEvaluatorFailure(t *testing.T) {
	teacher := createUser(t, "mt-evalfail-teacher@gmail.com", models.RoleTeacher)
	student := createUser(t, "mt-evalfail-student@gmail.com", models.RoleStudent)

	test := createMockTest(t, tokenFor(t, teacher), mockTestPayload("Outage Test"))
	id := uint(test["id"].(float64))
	listeningID := sectionQuestionIDs(t, test, "listening")[0]

	failing := newTestApp(failingEvaluator{}, services.ConsoleContactSync{})
	resp := doJSONApp(t, failing, "POST", fmt.Sprintf("/mock-tests/%d/submit", id), tokenFor(t, student), fiber.Map{
		"answers": fiber.Map{
			"listening": map[string]string{fmt.Sprint(listeningID): "Paris"},
			"writing":   map[string]string{"task1": "The graph shows...", "task2": "In my opinion..."},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Objective scores stand; feedback is simply absent.
	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 1, result["listening_score"])
	assert.EqualValues(t, 1, result["total_questions_listening"])
	assert.EqualValues(t, 2, result["total_questions_reading"])
	assert.Nil(t, result["writing_feedback"])
}

func TestSubmitMockTestNotFound(t *testing.T) {
	student := createUser(t, "mt-missing-student@gmail.com", models.RoleStudent)

	resp := doJSON(t, "POST", "/mock-tests/999999/submit", tokenFor(t, student), fiber.Map{
		"answers": fiber.Map{},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
