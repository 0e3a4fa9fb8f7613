package types

import "time"

// FieldType is the concrete type of a column as configured by the caller.
// The set is closed; Classify folds it into the five general categories the
// filter and sort engines dispatch on.
type FieldType uint

const (
	FieldUnknown FieldType = iota
	FieldString
	FieldText
	FieldPassword
	FieldReadonly
	FieldInteger
	FieldFloat
	FieldNumber
	FieldDecimal
	FieldBoolean
	FieldObject
	FieldDate
	FieldDateIso
	FieldDateUtc
	FieldDateTime
	FieldDateTimeIso
	FieldDateTimeShortIso
	FieldDateTimeIsoAmPm
	FieldDateTimeIsoAMPM
	FieldDateUs
	FieldDateUsShort
	FieldDateTimeUs
	FieldDateTimeShortUs
	FieldDateTimeUsAmPm
	FieldDateTimeUsAMPM
	FieldDateTimeUsShort
	FieldDateTimeUsShortAmPm
	FieldDateEuro
	FieldDateEuroShort
	FieldDateTimeEuro
	FieldDateTimeShortEuro
	FieldDateTimeEuroAmPm
	FieldDateTimeEuroAMPM
	FieldDateTimeEuroShort
	FieldDateTimeEuroShortAmPm
	FieldTime
	FieldTimeShort

	fieldTypeCount
)

// FieldTypeCount is the number of concrete field types, exported for
// exhaustiveness tests.
const FieldTypeCount = uint(fieldTypeCount)

// GeneralType is the reduced comparison category used for dispatch.
type GeneralType uint8

const (
	GeneralBoolean GeneralType = iota
	GeneralDate
	GeneralNumber
	GeneralObject
	GeneralText

	generalTypeCount
)

// GeneralTypeCount sizes evaluator lookup tables so the category set stays
// closed at compile time.
const GeneralTypeCount = int(generalTypeCount)

// Classify maps every concrete field type to exactly one general category.
// Total by construction: unknown and future values fall through to text.
func Classify(t FieldType) GeneralType {
	switch t {
	case FieldBoolean:
		return GeneralBoolean
	case FieldInteger, FieldFloat, FieldNumber, FieldDecimal:
		return GeneralNumber
	case FieldObject:
		return GeneralObject
	case FieldDate, FieldDateIso, FieldDateUtc, FieldDateTime,
		FieldDateTimeIso, FieldDateTimeShortIso, FieldDateTimeIsoAmPm, FieldDateTimeIsoAMPM,
		FieldDateUs, FieldDateUsShort, FieldDateTimeUs, FieldDateTimeShortUs,
		FieldDateTimeUsAmPm, FieldDateTimeUsAMPM, FieldDateTimeUsShort, FieldDateTimeUsShortAmPm,
		FieldDateEuro, FieldDateEuroShort, FieldDateTimeEuro, FieldDateTimeShortEuro,
		FieldDateTimeEuroAmPm, FieldDateTimeEuroAMPM, FieldDateTimeEuroShort, FieldDateTimeEuroShortAmPm,
		FieldTime, FieldTimeShort:
		return GeneralDate
	}
	return GeneralText
}

var isoLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}
var usLayouts = []string{"01/02/2006 15:04:05", "01/02/2006 15:04", "01/02/2006", "1/2/06 15:04:05", "1/2/06"}
var euroLayouts = []string{"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006", "2/1/06 15:04:05", "2/1/06"}

// DateLayouts returns the time layout chain tried when parsing values of a
// date field type, most specific first. Non-date types return nil.
func DateLayouts(t FieldType) []string {
	switch t {
	case FieldDateIso:
		return []string{"2006-01-02"}
	case FieldDateUtc:
		return []string{time.RFC3339, "2006-01-02T15:04:05Z"}
	case FieldDateTimeIso:
		return []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	case FieldDateTimeShortIso:
		return []string{"2006-01-02 15:04"}
	case FieldDateTimeIsoAmPm:
		return []string{"2006-01-02 3:04:05 pm", "2006-01-02 3:04 pm"}
	case FieldDateTimeIsoAMPM:
		return []string{"2006-01-02 3:04:05 PM", "2006-01-02 3:04 PM"}
	case FieldDateUs:
		return []string{"01/02/2006"}
	case FieldDateUsShort:
		return []string{"1/2/06"}
	case FieldDateTimeUs:
		return []string{"01/02/2006 15:04:05"}
	case FieldDateTimeShortUs:
		return []string{"01/02/2006 15:04"}
	case FieldDateTimeUsAmPm:
		return []string{"01/02/2006 3:04:05 pm", "01/02/2006 3:04 pm"}
	case FieldDateTimeUsAMPM:
		return []string{"01/02/2006 3:04:05 PM", "01/02/2006 3:04 PM"}
	case FieldDateTimeUsShort:
		return []string{"1/2/06 15:04:05", "1/2/06 15:04"}
	case FieldDateTimeUsShortAmPm:
		return []string{"1/2/06 3:04:05 pm", "1/2/06 3:04 pm"}
	case FieldDateEuro:
		return []string{"02/01/2006"}
	case FieldDateEuroShort:
		return []string{"2/1/06"}
	case FieldDateTimeEuro:
		return []string{"02/01/2006 15:04:05"}
	case FieldDateTimeShortEuro:
		return []string{"02/01/2006 15:04"}
	case FieldDateTimeEuroAmPm:
		return []string{"02/01/2006 3:04:05 pm", "02/01/2006 3:04 pm"}
	case FieldDateTimeEuroAMPM:
		return []string{"02/01/2006 3:04:05 PM", "02/01/2006 3:04 PM"}
	case FieldDateTimeEuroShort:
		return []string{"2/1/06 15:04:05", "2/1/06 15:04"}
	case FieldDateTimeEuroShortAmPm:
		return []string{"2/1/06 3:04:05 pm", "2/1/06 3:04 pm"}
	case FieldTime:
		return []string{"15:04:05", "15:04"}
	case FieldTimeShort:
		return []string{"15:04"}
	case FieldDate, FieldDateTime:
		chain := make([]string, 0, len(isoLayouts)+len(usLayouts)+len(euroLayouts)+1)
		chain = append(chain, time.RFC3339)
		chain = append(chain, isoLayouts...)
		chain = append(chain, usLayouts...)
		chain = append(chain, euroLayouts...)
		return chain
	}
	return nil
}

// ParseDate runs a value through the layout chain of the field type.
func ParseDate(value string, t FieldType) (time.Time, bool) {
	for _, layout := range DateLayouts(t) {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

var fieldTypeNames = map[FieldType]string{
	FieldUnknown:               "unknown",
	FieldString:                "string",
	FieldText:                  "text",
	FieldPassword:              "password",
	FieldReadonly:              "readonly",
	FieldInteger:               "integer",
	FieldFloat:                 "float",
	FieldNumber:                "number",
	FieldDecimal:               "decimal",
	FieldBoolean:               "boolean",
	FieldObject:                "object",
	FieldDate:                  "date",
	FieldDateIso:               "dateIso",
	FieldDateUtc:               "dateUtc",
	FieldDateTime:              "dateTime",
	FieldDateTimeIso:           "dateTimeIso",
	FieldDateTimeShortIso:      "dateTimeShortIso",
	FieldDateTimeIsoAmPm:       "dateTimeIsoAmPm",
	FieldDateTimeIsoAMPM:       "dateTimeIsoAM_PM",
	FieldDateUs:                "dateUs",
	FieldDateUsShort:           "dateUsShort",
	FieldDateTimeUs:            "dateTimeUs",
	FieldDateTimeShortUs:       "dateTimeShortUs",
	FieldDateTimeUsAmPm:        "dateTimeUsAmPm",
	FieldDateTimeUsAMPM:        "dateTimeUsAM_PM",
	FieldDateTimeUsShort:       "dateTimeUsShort",
	FieldDateTimeUsShortAmPm:   "dateTimeUsShortAmPm",
	FieldDateEuro:              "dateEuro",
	FieldDateEuroShort:         "dateEuroShort",
	FieldDateTimeEuro:          "dateTimeEuro",
	FieldDateTimeShortEuro:     "dateTimeShortEuro",
	FieldDateTimeEuroAmPm:      "dateTimeEuroAmPm",
	FieldDateTimeEuroAMPM:      "dateTimeEuroAM_PM",
	FieldDateTimeEuroShort:     "dateTimeEuroShort",
	FieldDateTimeEuroShortAmPm: "dateTimeEuroShortAmPm",
	FieldTime:                  "time",
	FieldTimeShort:             "timeShort",
}

var fieldTypesByName = func() map[string]FieldType {
	m := make(map[string]FieldType, len(fieldTypeNames))
	for t, name := range fieldTypeNames {
		m[name] = t
	}
	return m
}()

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseFieldType resolves a configured type name; unrecognized names map to
// unknown (which classifies as text).
func ParseFieldType(name string) FieldType {
	if t, ok := fieldTypesByName[name]; ok {
		return t
	}
	return FieldUnknown
}

func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FieldType) UnmarshalText(data []byte) error {
	*t = ParseFieldType(string(data))
	return nil
}
