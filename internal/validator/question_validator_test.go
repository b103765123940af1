package validator

import (
	"encoding/json"
	"testing"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(t models.QuestionType, options interface{}) *models.Question {
	q := &models.Question{Type: t, Text: "a question"}
	if options != nil {
		raw, _ := json.Marshal(options)
		q.Options = raw
	}
	return q
}

func TestValidateQuestionAcceptsAllTypes(t *testing.T) {
	v := NewQuestionValidator()

	cases := []*models.Question{
		question(models.QuestionText, nil),
		question(models.QuestionYesNo, nil),
		question(models.QuestionDateTime, nil),
		question(models.QuestionMultipleChoice, []string{"Pizza", "Salad"}),
		question(models.QuestionCheckbox, []string{"Mon", "Tue"}),
		question(models.QuestionMatrix, answers.GridOptions{Rows: []string{"First"}, Columns: []string{"Mon"}}),
		question(models.QuestionMatrixSingle, answers.GridOptions{Rows: []string{"Monday"}, Columns: []string{"Morning"}}),
	}

	for _, q := range cases {
		assert.NoError(t, v.ValidateQuestion(q), "type %s", q.Type)
	}
}

func TestValidateQuestionRejectsBlankText(t *testing.T) {
	v := NewQuestionValidator()
	q := question(models.QuestionText, nil)
	q.Text = "   "
	assert.Error(t, v.ValidateQuestion(q))
}

func TestValidateQuestionRejectsUnknownType(t *testing.T) {
	v := NewQuestionValidator()
	assert.Error(t, v.ValidateQuestion(question("essay", nil)))
}

func TestValidateQuestionOtherOnlyForChoiceTypes(t *testing.T) {
	v := NewQuestionValidator()

	q := question(models.QuestionMultipleChoice, []string{"Pizza"})
	q.AllowOther = true
	assert.NoError(t, v.ValidateQuestion(q))

	q = question(models.QuestionYesNo, nil)
	q.AllowOther = true
	assert.Error(t, v.ValidateQuestion(q))
}

func TestValidateChoiceOptions(t *testing.T) {
	v := NewQuestionValidator()

	assert.Error(t, v.ValidateQuestion(question(models.QuestionMultipleChoice, []string{})),
		"empty option list")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionCheckbox, []string{"Mon", "Mon"})),
		"duplicate options")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionCheckbox, []string{"Mon", ""})),
		"blank option")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionMultipleChoice, []string{"Pizza", "other"})),
		"reserved token as option")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionMultipleChoice, "not a list")),
		"wrong options shape")
}

func TestValidateGridOptions(t *testing.T) {
	v := NewQuestionValidator()

	assert.Error(t, v.ValidateQuestion(question(models.QuestionMatrix,
		answers.GridOptions{Rows: nil, Columns: []string{"Mon"}})), "no rows")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionMatrix,
		answers.GridOptions{Rows: []string{"First"}, Columns: nil})), "no columns")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionMatrixSingle,
		answers.GridOptions{Rows: []string{"A", "A"}, Columns: []string{"Mon"}})), "duplicate rows")
	assert.Error(t, v.ValidateQuestion(question(models.QuestionMatrix, nil)), "missing options")
}

func TestValidateOptionsRejectedOnPlainTypes(t *testing.T) {
	v := NewQuestionValidator()
	assert.Error(t, v.ValidateQuestion(question(models.QuestionText, []string{"stray"})))
}

func TestValidateBatch(t *testing.T) {
	v := NewQuestionValidator()

	require.Error(t, v.ValidateBatch(nil))

	batch := []*models.Question{
		question(models.QuestionText, nil),
		question("bogus", nil),
	}
	err := v.ValidateBatch(batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 2")
}
