package answers

import (
	"sort"
	"strings"

	"github.com/gatherline/rsvp-service/internal/models"
)

// Format renders a stored answer as a human-readable summary line for admin
// review and exports. Unparseable answers render as an empty string.
func Format(q models.Question, v Value) string {
	switch a := v.(type) {
	case Text:
		return a.Value
	case DateTime:
		return a.Value
	case YesNo:
		if a.Value {
			return LabelYes
		}
		return LabelNo
	case Choice:
		if a.Other() {
			return "Other: " + a.OtherText
		}
		return a.Option
	case Checkbox:
		parts := make([]string, 0, len(a.Values))
		for _, val := range a.Values {
			if val == OtherToken {
				parts = append(parts, "Other: "+a.OtherText)
				continue
			}
			parts = append(parts, val)
		}
		return strings.Join(parts, ", ")
	case Grid:
		return strings.Join(a.Selections, ", ")
	case GridSingle:
		return formatGridSingle(q, a)
	}
	return ""
}

// FormatRaw decodes a stored raw answer and formats it. Shape mismatches
// (legacy answers after a type edit) render as empty.
func FormatRaw(q models.Question, raw []byte) string {
	v, err := Decode(q.Type, raw)
	if err != nil {
		return ""
	}
	return Format(q, v)
}

func formatGridSingle(q models.Question, a GridSingle) string {
	if len(a.Selections) == 0 {
		return ""
	}
	// Render rows in their configured order, any unknown rows after,
	// alphabetically.
	var ordered []string
	seen := make(map[string]bool, len(a.Selections))
	if opts, err := DecodeGridOptions(q); err == nil {
		for _, row := range opts.Rows {
			if _, ok := a.Selections[row]; ok {
				ordered = append(ordered, row)
				seen[row] = true
			}
		}
	}
	var rest []string
	for row := range a.Selections {
		if !seen[row] {
			rest = append(rest, row)
		}
	}
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	parts := make([]string, 0, len(ordered))
	for _, row := range ordered {
		parts = append(parts, row+": "+a.Selections[row])
	}
	return strings.Join(parts, ", ")
}
