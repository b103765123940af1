package answers

import (
	"encoding/json"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
)

// ChoiceOptions is the options payload for multiple_choice and checkbox
// questions: the list of selectable option strings.
type ChoiceOptions []string

// Contains reports whether the option list includes the given value.
func (o ChoiceOptions) Contains(value string) bool {
	for _, opt := range o {
		if opt == value {
			return true
		}
	}
	return false
}

// GridOptions is the options payload for matrix and matrix_single questions.
type GridOptions struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
}

func (o GridOptions) HasRow(row string) bool {
	for _, r := range o.Rows {
		if r == row {
			return true
		}
	}
	return false
}

func (o GridOptions) HasColumn(column string) bool {
	for _, c := range o.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// HasCell reports whether the composite "<row> <column>" key names a
// configured cell. Row labels may themselves contain spaces, so the key is
// matched against every row/column pair rather than split at a delimiter.
func (o GridOptions) HasCell(key string) bool {
	for _, r := range o.Rows {
		for _, c := range o.Columns {
			if key == GridKey(r, c) {
				return true
			}
		}
	}
	return false
}

// DecodeChoiceOptions parses the options blob of a choice-type question.
func DecodeChoiceOptions(q models.Question) (ChoiceOptions, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts ChoiceOptions
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("question %d: invalid choice options: %w", q.ID, err)
	}
	return opts, nil
}

// DecodeGridOptions parses the options blob of a grid-type question.
func DecodeGridOptions(q models.Question) (GridOptions, error) {
	var opts GridOptions
	if len(q.Options) == 0 {
		return opts, fmt.Errorf("question %d: missing grid options", q.ID)
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return opts, fmt.Errorf("question %d: invalid grid options: %w", q.ID, err)
	}
	return opts, nil
}
