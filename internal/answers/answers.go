// Package answers implements the per-question-type answer codec: the
// canonical JSON shapes, decode-with-shape-check, emptiness semantics for
// required checks, normalization of absent answers, validation against a
// question's configured options, and aggregation into frequency tables.
// Everything here is pure; persistence and transport live elsewhere.
package answers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gatherline/rsvp-service/internal/models"
)

// OtherToken is the synthetic choice value representing the "other" option
// on multiple_choice and checkbox questions. It is part of the wire format.
const OtherToken = "other"

// Answer size limits, enforced at validation time.
const (
	MaxTextAnswerLength     = 10000
	MaxDateTimeAnswerLength = 100
	MaxGridSelections       = 100
	MaxGridItemLength       = 200
	MaxGridRows             = 100
)

// ErrShape is returned by Decode when the raw JSON does not match the
// canonical shape for the question type.
var ErrShape = errors.New("answer shape does not match question type")

// Value is the tagged union of answer payloads. Exactly one variant exists
// per question type; the variant and the question's type tag stay in
// lock-step through Decode.
type Value interface {
	// Answered reports whether the value is present and non-empty in the
	// sense of the required-field check. It is the single emptiness
	// predicate shared by the interactive collector and the authoritative
	// submission validator.
	Answered() bool

	json.Marshaler
}

// Text is the answer to a "text" question.
type Text struct {
	Value string
}

func (t Text) Answered() bool {
	return strings.TrimSpace(t.Value) != ""
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

// Choice is the answer to a "multiple_choice" question. When Option is
// OtherToken the respondent typed a free-text elaboration; the encoded form
// then switches from a bare string to {"value":"other","other_text":...}.
type Choice struct {
	Option    string
	OtherText string
}

func (c Choice) Other() bool {
	return c.Option == OtherToken
}

func (c Choice) Answered() bool {
	if c.Option == "" {
		return false
	}
	if c.Other() {
		return strings.TrimSpace(c.OtherText) != ""
	}
	return true
}

func (c Choice) MarshalJSON() ([]byte, error) {
	if c.Other() {
		return json.Marshal(choiceWire{Value: c.Option, OtherText: c.OtherText})
	}
	return json.Marshal(c.Option)
}

type choiceWire struct {
	Value     string `json:"value"`
	OtherText string `json:"other_text,omitempty"`
}

// Checkbox is the answer to a "checkbox" question. Selecting OtherToken
// switches the encoding from a bare string array to
// {"values":[...],"other_text":...}; deselecting it switches back.
type Checkbox struct {
	Values    []string
	OtherText string
}

func (c Checkbox) Other() bool {
	for _, v := range c.Values {
		if v == OtherToken {
			return true
		}
	}
	return false
}

func (c Checkbox) Answered() bool {
	if len(c.Values) == 0 {
		return false
	}
	if c.Other() && strings.TrimSpace(c.OtherText) == "" {
		return false
	}
	return true
}

func (c Checkbox) MarshalJSON() ([]byte, error) {
	if c.Other() {
		return json.Marshal(checkboxWire{Values: c.Values, OtherText: c.OtherText})
	}
	if c.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Values)
}

type checkboxWire struct {
	Values    []string `json:"values"`
	OtherText string   `json:"other_text,omitempty"`
}

// YesNo is the answer to a "yes_no" question. A present false is a valid,
// non-empty answer; absence is represented by the value not existing at all.
type YesNo struct {
	Value bool
}

func (y YesNo) Answered() bool {
	return true
}

func (y YesNo) MarshalJSON() ([]byte, error) {
	return json.Marshal(y.Value)
}

// DateTime is the answer to a "date_time" question, an ISO-8601 string.
type DateTime struct {
	Value string
}

func (d DateTime) Answered() bool {
	return strings.TrimSpace(d.Value) != ""
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Value)
}

// Grid is the answer to a "matrix" (multi-select grid) question: a set of
// "<row> <column>" composite keys.
type Grid struct {
	Selections []string
}

func (g Grid) Answered() bool {
	return len(g.Selections) > 0
}

func (g Grid) MarshalJSON() ([]byte, error) {
	if g.Selections == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.Selections)
}

// GridKey builds the composite selection key for a matrix cell.
func GridKey(row, column string) string {
	return row + " " + column
}

// Toggle flips membership of the given cell and returns the updated answer.
// Plain set semantics: no per-row exclusivity.
func (g Grid) Toggle(row, column string) Grid {
	key := GridKey(row, column)
	out := make([]string, 0, len(g.Selections)+1)
	found := false
	for _, sel := range g.Selections {
		if sel == key {
			found = true
			continue
		}
		out = append(out, sel)
	}
	if !found {
		out = append(out, key)
	}
	return Grid{Selections: out}
}

// GridSingle is the answer to a "matrix_single" question: at most one column
// per row.
type GridSingle struct {
	Selections map[string]string
}

func (g GridSingle) Answered() bool {
	return len(g.Selections) > 0
}

func (g GridSingle) MarshalJSON() ([]byte, error) {
	if g.Selections == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(g.Selections)
}

// Toggle selects the given column for the row. Clicking the already-selected
// column clears the row; clicking a different column replaces the selection.
func (g GridSingle) Toggle(row, column string) GridSingle {
	out := make(map[string]string, len(g.Selections)+1)
	for r, c := range g.Selections {
		out[r] = c
	}
	if out[row] == column {
		delete(out, row)
	} else {
		out[row] = column
	}
	return GridSingle{Selections: out}
}

// Empty returns the canonical empty value for a question type. Used when
// normalizing absent or blank optional answers so storage always sees a
// consistent shape.
func Empty(t models.QuestionType) Value {
	switch t {
	case models.QuestionText:
		return Text{}
	case models.QuestionMultipleChoice:
		return Choice{}
	case models.QuestionCheckbox:
		return Checkbox{Values: []string{}}
	case models.QuestionDateTime:
		return DateTime{}
	case models.QuestionMatrix:
		return Grid{Selections: []string{}}
	case models.QuestionMatrixSingle:
		return GridSingle{Selections: map[string]string{}}
	}
	// yes_no has no empty form; absence is the only empty state
	return nil
}

// Decode parses a raw answer into the variant dictated by the question type.
// Mismatched shapes return ErrShape; values are never coerced across types.
func Decode(t models.QuestionType, raw json.RawMessage) (Value, error) {
	switch t {
	case models.QuestionText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrShape
		}
		return Text{Value: s}, nil

	case models.QuestionMultipleChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Choice{Option: s}, nil
		}
		var obj choiceWire
		if err := json.Unmarshal(raw, &obj); err != nil || obj.Value == "" {
			return nil, ErrShape
		}
		return Choice{Option: obj.Value, OtherText: obj.OtherText}, nil

	case models.QuestionCheckbox:
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return Checkbox{Values: list}, nil
		}
		var obj checkboxWire
		if err := json.Unmarshal(raw, &obj); err != nil || obj.Values == nil {
			return nil, ErrShape
		}
		return Checkbox{Values: obj.Values, OtherText: obj.OtherText}, nil

	case models.QuestionYesNo:
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return YesNo{Value: b}, nil
		}
		// Legacy clients submitted "yes"/"no" strings.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			switch s {
			case "yes":
				return YesNo{Value: true}, nil
			case "no":
				return YesNo{Value: false}, nil
			}
		}
		return nil, ErrShape

	case models.QuestionDateTime:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrShape
		}
		return DateTime{Value: s}, nil

	case models.QuestionMatrix:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, ErrShape
		}
		return Grid{Selections: list}, nil

	case models.QuestionMatrixSingle:
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, ErrShape
		}
		return GridSingle{Selections: m}, nil
	}

	return nil, ErrShape
}

// Encode marshals a value into its wire form.
func Encode(v Value) (json.RawMessage, error) {
	if v == nil {
		return nil, ErrShape
	}
	return v.MarshalJSON()
}

// isNull reports whether raw JSON is absent or an explicit null.
func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
