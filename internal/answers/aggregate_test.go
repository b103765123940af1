package answers

import (
	"encoding/json"
	"testing"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func raws(ss ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(ss))
	for i, s := range ss {
		out[i] = json.RawMessage(s)
	}
	return out
}

func TestAggregateYesNoFixedOrder(t *testing.T) {
	rows := Aggregate(models.QuestionYesNo, raws(`true`, `false`, `null`, `true`))
	assert.Equal(t, []Row{
		{Label: "Yes", Count: 2},
		{Label: "No", Count: 1},
		{Label: "Skipped", Count: 1},
	}, rows, "yes_no keeps fixed category order, not count order")
}

func TestAggregateYesNoOmitsZeroRows(t *testing.T) {
	rows := Aggregate(models.QuestionYesNo, raws(`true`, `true`))
	assert.Equal(t, []Row{{Label: "Yes", Count: 2}}, rows)
}

func TestAggregateYesNoLegacyStrings(t *testing.T) {
	rows := Aggregate(models.QuestionYesNo, raws(`"yes"`, `"no"`, `"yes"`))
	assert.Equal(t, []Row{
		{Label: "Yes", Count: 2},
		{Label: "No", Count: 1},
	}, rows)
}

func TestAggregateCheckboxFanOut(t *testing.T) {
	rows := Aggregate(models.QuestionCheckbox, raws(`["A","B"]`, `["A"]`, `[]`))
	assert.Equal(t, []Row{
		{Label: "A", Count: 2},
		{Label: "B", Count: 1},
		{Label: "Skipped", Count: 1},
	}, rows)
}

func TestAggregateChoiceCountsOtherAsToken(t *testing.T) {
	rows := Aggregate(models.QuestionMultipleChoice, raws(
		`"Pizza"`,
		`{"value":"other","other_text":"Tacos"}`,
		`{"value":"other","other_text":"Ramen"}`,
	))
	assert.Equal(t, []Row{
		{Label: "other", Count: 2},
		{Label: "Pizza", Count: 1},
	}, rows, `"other" counts under its literal token, not the free text`)
}

func TestAggregateChoiceTieBreakIsFirstSeen(t *testing.T) {
	rows := Aggregate(models.QuestionMultipleChoice, raws(`"B"`, `"A"`, `"A"`, `"B"`, `"C"`))
	assert.Equal(t, []Row{
		{Label: "B", Count: 2},
		{Label: "A", Count: 2},
		{Label: "C", Count: 1},
	}, rows, "equal counts keep first-seen order")
}

func TestAggregateMatrixComposites(t *testing.T) {
	rows := Aggregate(models.QuestionMatrix, raws(
		`["First Mon","First Tue"]`,
		`["First Mon"]`,
		`[]`,
	))
	assert.Equal(t, []Row{
		{Label: "First Mon", Count: 2},
		{Label: "First Tue", Count: 1},
		{Label: "Skipped", Count: 1},
	}, rows)
}

func TestAggregateMatrixSingleLabels(t *testing.T) {
	rows := Aggregate(models.QuestionMatrixSingle, raws(
		`{"Monday":"Morning","Tuesday":"Evening"}`,
		`{"Monday":"Morning"}`,
		`{}`,
	))
	assert.Equal(t, []Row{
		{Label: "Monday: Morning", Count: 2},
		{Label: "Tuesday: Evening", Count: 1},
		{Label: "Skipped", Count: 1},
	}, rows)
}

func TestAggregateToleratesLegacyShapes(t *testing.T) {
	// Question changed from text to checkbox after submissions existed;
	// old string answers count as skipped rather than failing.
	rows := Aggregate(models.QuestionCheckbox, raws(`"old text answer"`, `["A"]`))
	assert.Equal(t, []Row{
		{Label: "A", Count: 1},
		{Label: "Skipped", Count: 1},
	}, rows)
}

func TestAggregateFreeForm(t *testing.T) {
	rows := Aggregate(models.QuestionText, raws(`"hi"`, `""`, `"there"`))
	assert.Equal(t, []Row{
		{Label: "Answered", Count: 2},
		{Label: "Skipped", Count: 1},
	}, rows)
}
