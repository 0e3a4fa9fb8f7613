package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/matst80/slask-grid/pkg/types"
)

// SearchValues holds the coerced search terms of one filter directive.
// Coercion runs once per filter activation, never per row, so this struct is
// what the hot per-row evaluation path reads from.
type SearchValues struct {
	General types.GeneralType
	Terms   []string

	Bool    bool
	Dates   []time.Time
	Numbers []float64

	// Invalid marks terms that could not be parsed for the general type.
	// Evaluation treats the condition as non-matching instead of failing.
	Invalid bool
}

// Coerce parses raw search terms into the comparable shape of the column's
// general category. It never fails: unparseable date or number input sets the
// Invalid marker and the condition simply matches nothing.
func Coerce(terms []string, fieldType types.FieldType) SearchValues {
	sv := SearchValues{
		General: types.Classify(fieldType),
		Terms:   terms,
	}
	switch sv.General {
	case types.GeneralBoolean:
		if len(terms) > 0 {
			sv.Bool = truthy(terms[0])
		}
	case types.GeneralDate:
		sv.Dates = make([]time.Time, 0, len(terms))
		for _, term := range terms {
			parsed, ok := types.ParseDate(strings.TrimSpace(term), fieldType)
			if !ok {
				sv.Invalid = true
				continue
			}
			sv.Dates = append(sv.Dates, parsed)
		}
		if len(sv.Dates) == 0 {
			sv.Invalid = true
		}
	case types.GeneralNumber:
		sv.Numbers = make([]float64, 0, len(terms))
		for _, term := range terms {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
			if err != nil {
				sv.Invalid = true
				continue
			}
			sv.Numbers = append(sv.Numbers, parsed)
		}
		if len(sv.Numbers) == 0 {
			sv.Invalid = true
		}
	}
	// object and text pass through; case folding is the evaluator's job
	return sv
}

func truthy(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}
