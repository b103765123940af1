package answers

import (
	"encoding/json"
	"sort"

	"github.com/gatherline/rsvp-service/internal/models"
)

// Labels for the fixed aggregation buckets.
const (
	LabelYes     = "Yes"
	LabelNo      = "No"
	LabelSkipped = "Skipped"
)

// Row is one line of a question's frequency table.
type Row struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Aggregate turns the raw stored answers for one question, across all
// submissions, into a display-ready frequency table. Stored answers whose
// shape no longer matches the question's current type (the type was edited
// after submissions existed) count as skipped; aggregation never fails.
func Aggregate(t models.QuestionType, raws []json.RawMessage) []Row {
	switch t {
	case models.QuestionYesNo:
		return aggregateYesNo(raws)
	case models.QuestionMultipleChoice, models.QuestionCheckbox:
		return aggregateChoices(t, raws)
	case models.QuestionMatrix:
		return aggregateGrid(raws)
	case models.QuestionMatrixSingle:
		return aggregateGridSingle(raws)
	}
	// text and date_time answers are free-form; everything present counts
	// as answered, the rest as skipped.
	return aggregateFreeForm(t, raws)
}

// counter tallies labels preserving first-seen order for deterministic ties.
type counter struct {
	counts  map[string]int
	ordered []string
	skipped int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.ordered = append(c.ordered, label)
	}
	c.counts[label]++
}

// rows returns the tally sorted descending by count, ties in first-seen
// order, with the Skipped bucket appended last when non-zero.
func (c *counter) rows() []Row {
	out := make([]Row, 0, len(c.ordered)+1)
	for _, label := range c.ordered {
		out = append(out, Row{Label: label, Count: c.counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if c.skipped > 0 {
		out = append(out, Row{Label: LabelSkipped, Count: c.skipped})
	}
	return out
}

func aggregateYesNo(raws []json.RawMessage) []Row {
	var yes, no, skipped int
	for _, raw := range raws {
		v, err := Decode(models.QuestionYesNo, raw)
		if err != nil || isNull(raw) {
			skipped++
			continue
		}
		if v.(YesNo).Value {
			yes++
		} else {
			no++
		}
	}
	// Fixed category order, zero-count rows omitted.
	out := make([]Row, 0, 3)
	if yes > 0 {
		out = append(out, Row{Label: LabelYes, Count: yes})
	}
	if no > 0 {
		out = append(out, Row{Label: LabelNo, Count: no})
	}
	if skipped > 0 {
		out = append(out, Row{Label: LabelSkipped, Count: skipped})
	}
	return out
}

func aggregateChoices(t models.QuestionType, raws []json.RawMessage) []Row {
	c := newCounter()
	for _, raw := range raws {
		v, err := Decode(t, raw)
		if err != nil || !v.Answered() {
			c.skipped++
			continue
		}
		switch a := v.(type) {
		case Choice:
			// "other" counts under its literal token, distinct from the
			// free-text elaboration.
			c.add(a.Option)
		case Checkbox:
			// checkbox fan-out: one submission contributes one count per
			// selected option
			for _, val := range a.Values {
				c.add(val)
			}
		default:
			c.skipped++
		}
	}
	return c.rows()
}

func aggregateGrid(raws []json.RawMessage) []Row {
	c := newCounter()
	for _, raw := range raws {
		v, err := Decode(models.QuestionMatrix, raw)
		if err != nil || !v.Answered() {
			c.skipped++
			continue
		}
		for _, sel := range v.(Grid).Selections {
			c.add(sel)
		}
	}
	return c.rows()
}

func aggregateGridSingle(raws []json.RawMessage) []Row {
	c := newCounter()
	for _, raw := range raws {
		v, err := Decode(models.QuestionMatrixSingle, raw)
		if err != nil || !v.Answered() {
			c.skipped++
			continue
		}
		sel := v.(GridSingle).Selections
		// Stable label order within one submission
		rows := make([]string, 0, len(sel))
		for row := range sel {
			rows = append(rows, row)
		}
		sort.Strings(rows)
		for _, row := range rows {
			c.add(row + ": " + sel[row])
		}
	}
	return c.rows()
}

func aggregateFreeForm(t models.QuestionType, raws []json.RawMessage) []Row {
	var answered, skipped int
	for _, raw := range raws {
		v, err := Decode(t, raw)
		if err != nil || !v.Answered() {
			skipped++
			continue
		}
		answered++
	}
	out := make([]Row, 0, 2)
	if answered > 0 {
		out = append(out, Row{Label: "Answered", Count: answered})
	}
	if skipped > 0 {
		out = append(out, Row{Label: LabelSkipped, Count: skipped})
	}
	return out
}
